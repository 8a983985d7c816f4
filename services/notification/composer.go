package notification

import (
	"fmt"

	"sitetrack/models"
)

const (
	fallbackTitle = "Procurement Update"
	defaultIcon   = "default"
)

// Content is the rendered text of one notification.
type Content struct {
	Title string
	Body  string
	Icon  string
}

type contentKey struct {
	status models.ProcurementStatus
	role   models.Role
}

// render produces title and body from project and material names.
type render func(project, material string) (string, string)

// roleContent holds the statuses whose wording depends on who reads it.
var roleContent = map[contentKey]render{
	{models.StatusPending, models.RoleManager}: func(p, m string) (string, string) {
		return "New Procurement Request", fmt.Sprintf("A new request for %s on %s is awaiting review.", m, p)
	},
	{models.StatusPending, models.RoleQuantitySurveyor}: func(p, m string) (string, string) {
		return "Quantity Check Required", fmt.Sprintf("Please verify the quantities for %s (Project: %s).", m, p)
	},
	{models.StatusQuantityChecked, models.RoleManager}: func(p, m string) (string, string) {
		return "Approval Required", fmt.Sprintf("Quantities for %s on %s have been checked and need your approval.", m, p)
	},
	{models.StatusQuantityChecked, models.RoleEngineer}: func(p, m string) (string, string) {
		return "Quantities Checked", fmt.Sprintf("Your request for %s on %s passed the quantity check.", m, p)
	},
	{models.StatusArrived, models.RoleEngineer}: func(p, m string) (string, string) {
		return "Material Arrived", fmt.Sprintf("%s has arrived at %s. Please confirm receipt.", m, p)
	},
	{models.StatusArrived, models.RoleManager}: func(p, m string) (string, string) {
		return "Delivery Completed", fmt.Sprintf("%s for %s has been delivered to site.", m, p)
	},
}

// statusContent holds the statuses that read the same for every role.
var statusContent = map[models.ProcurementStatus]render{
	models.StatusApproved: func(p, m string) (string, string) {
		return "Request Approved", fmt.Sprintf("Your request for %s on %s has been approved.", m, p)
	},
	models.StatusRejected: func(p, m string) (string, string) {
		return "Request Rejected", fmt.Sprintf("Your request for %s on %s was rejected.", m, p)
	},
	models.StatusOrdered: func(p, m string) (string, string) {
		return "Material Ordered", fmt.Sprintf("%s for %s has been ordered.", m, p)
	},
	models.StatusProcessing: func(p, m string) (string, string) {
		return "Order Processing", fmt.Sprintf("The order for %s (Project: %s) is being processed.", m, p)
	},
	models.StatusShipped: func(p, m string) (string, string) {
		return "Material Shipped", fmt.Sprintf("%s for %s is on its way.", m, p)
	},
}

var statusIcons = map[models.ProcurementStatus]string{
	models.StatusPending:         "clipboard",
	models.StatusQuantityChecked: "checkmark",
	models.StatusApproved:        "thumbs-up",
	models.StatusRejected:        "x-circle",
	models.StatusOrdered:         "cart",
	models.StatusProcessing:      "settings",
	models.StatusShipped:         "truck",
	models.StatusArrived:         "package",
}

// Compose renders the notification for one recipient. Combinations without an entry
// get the generic update message; Compose never fails.
func Compose(status models.ProcurementStatus, projectName, materialName string, role models.Role) Content {
	fn, ok := roleContent[contentKey{status, role}]
	if !ok {
		fn, ok = statusContent[status]
	}
	if !ok {
		return Content{
			Title: fallbackTitle,
			Body:  fmt.Sprintf("Update for %s (Project: %s)", materialName, projectName),
			Icon:  defaultIcon,
		}
	}

	title, body := fn(projectName, materialName)
	return Content{Title: title, Body: body, Icon: IconFor(status)}
}

// IconFor returns the icon name for status, independent of the reader's role.
func IconFor(status models.ProcurementStatus) string {
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return defaultIcon
}
