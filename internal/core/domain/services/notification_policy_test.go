package services_test

import (
	"testing"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestNotificationPolicy_For(t *testing.T) {
	policy := services.NewNotificationPolicy()

	tests := []struct {
		status   shipment.Status
		notify   bool
		template string
		fields   []services.ContextField
	}{
		{shipment.Placed, true, "mail_placed.html",
			[]services.ContextField{services.FieldSeller, services.FieldShipmentID, services.FieldPartner}},
		{shipment.InTransit, false, "", nil},
		{shipment.OutForDelivery, true, "mail_out_for_delivery.html", nil},
		{shipment.Delivered, true, "mail_delivered.html",
			[]services.ContextField{services.FieldSeller, services.FieldReviewURL}},
		{shipment.Cancelled, true, "mail_cancelled.html", nil},
		{shipment.Unknown, false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			n, ok := policy.For(tt.status)

			assert.Equal(t, tt.notify, ok)
			assert.Equal(t, tt.template, n.Template)
			assert.Equal(t, tt.fields, n.Fields)
			if ok {
				assert.NotEmpty(t, n.Subject)
			}
		})
	}
}
