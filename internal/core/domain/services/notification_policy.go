package services

import (
	"fastship/internal/core/domain/model/shipment"
)

// ContextField names a value the e-mail template expects.
type ContextField string

const (
	FieldSeller     ContextField = "seller"
	FieldShipmentID ContextField = "id"
	FieldPartner    ContextField = "partner"
	FieldReviewURL  ContextField = "review_url"
)

// Notification describes the e-mail sent to the client contact when a
// shipment enters a status.
type Notification struct {
	Template string
	Subject  string
	Fields   []ContextField
}

// NotificationPolicy maps a status to the client notification it triggers.
type NotificationPolicy struct{}

func NewNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{}
}

// For returns the notification for status; false when the status is quiet.
func (NotificationPolicy) For(status shipment.Status) (Notification, bool) {
	switch status {
	case shipment.Placed:
		return Notification{
			Template: "mail_placed.html",
			Subject:  "Your Order is Shipped 🚛",
			Fields:   []ContextField{FieldSeller, FieldShipmentID, FieldPartner},
		}, true
	case shipment.OutForDelivery:
		return Notification{
			Template: "mail_out_for_delivery.html",
			Subject:  "Your Order is Arriving Soon 🛵",
		}, true
	case shipment.Delivered:
		return Notification{
			Template: "mail_delivered.html",
			Subject:  "Your Order is Delivered ✅",
			Fields:   []ContextField{FieldSeller, FieldReviewURL},
		}, true
	case shipment.Cancelled:
		return Notification{
			Template: "mail_cancelled.html",
			Subject:  "Your Order is Cancelled ❌",
		}, true
	case shipment.InTransit, shipment.Unknown:
		return Notification{}, false
	}
	return Notification{}, false
}
