package models

// ProcurementStatus is the lifecycle state of a procurement request.
type ProcurementStatus string

const (
	StatusPending         ProcurementStatus = "pending"
	StatusQuantityChecked ProcurementStatus = "quantity_checked"
	StatusApproved        ProcurementStatus = "approved"
	StatusRejected        ProcurementStatus = "rejected"
	StatusOrdered         ProcurementStatus = "ordered"
	StatusProcessing      ProcurementStatus = "processing"
	StatusShipped         ProcurementStatus = "shipped"
	StatusArrived         ProcurementStatus = "arrived"
)

// ProcurementStatuses lists every known status in lifecycle order.
var ProcurementStatuses = []ProcurementStatus{
	StatusPending,
	StatusQuantityChecked,
	StatusApproved,
	StatusRejected,
	StatusOrdered,
	StatusProcessing,
	StatusShipped,
	StatusArrived,
}

// IsValid reports whether s belongs to the known enumeration.
func (s ProcurementStatus) IsValid() bool {
	for _, known := range ProcurementStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// NotificationEvent is a procurement status change handed to the notification pipeline.
type NotificationEvent struct {
	Status       ProcurementStatus `json:"status"`
	ProjectName  string            `json:"project_name"`
	MaterialName string            `json:"material_name"`
	CreatedByUID string            `json:"created_by_uid"`
	RequestID    string            `json:"request_id"`
}
