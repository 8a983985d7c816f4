package models

// DispatchResult summarises one dispatch call. Success means the send pipeline ran,
// individual messages may still have failed.
type DispatchResult struct {
	Success    bool `json:"success"`
	SentCount  int  `json:"sentCount"`
	ErrorCount int  `json:"errorCount"`
}

// NotificationJobResponse is the data returned when a notification job is accepted.
type NotificationJobResponse struct {
	RequestID string            `json:"request_id"`
	Status    ProcurementStatus `json:"status"`
	JobID     string            `json:"job_id"`
}

// ReceiptCheckPayload carries the ticket ids of a dispatch to the delayed receipt check.
type ReceiptCheckPayload struct {
	RequestID string   `json:"requestId"`
	TicketIDs []string `json:"ticketIds"`
}
