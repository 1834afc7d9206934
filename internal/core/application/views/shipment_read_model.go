package views

import (
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
)

// ShipmentReadModel is the flat shape a shipment is rendered in. Queries build it
// straight from SQL, commands convert their ShipmentView with NewShipmentReadModel.
type ShipmentReadModel struct {
	ID                kernel.UUID
	Content           string
	WeightKg          float64
	Destination       int
	ContactEmail      string
	ContactPhone      string
	Status            string
	CreatedAt         time.Time
	EstimatedDelivery time.Time
	Seller            SellerReadModel
	Partner           PartnerReadModel
	// Timeline is ordered from oldest to newest.
	Timeline []EventReadModel
	Tags     []TagReadModel
}

type SellerReadModel struct {
	ID      kernel.UUID
	Name    string
	Email   string
	Address string
	// PostalCode is nil when the seller never set one.
	PostalCode *int
}

type PartnerReadModel struct {
	ID    kernel.UUID
	Name  string
	Email string
}

type TagReadModel struct {
	Name        string
	Instruction string
}

// NewTagReadModel pairs a tag with its handling instruction.
func NewTagReadModel(tag shipment.TagName) TagReadModel {
	return TagReadModel{Name: tag.String(), Instruction: tag.Instruction()}
}

type EventReadModel struct {
	ID          kernel.UUID
	CreatedAt   time.Time
	Status      string
	Location    int
	Description string
}

// NewShipmentReadModel flattens a hydrated shipment.
func NewShipmentReadModel(view ShipmentView) ShipmentReadModel {
	s := view.Shipment
	details := s.Details()

	history := s.Timeline().History()
	timeline := make([]EventReadModel, 0, len(history))
	for _, e := range history {
		timeline = append(timeline, EventReadModel{
			ID:          e.ID(),
			CreatedAt:   e.CreatedAt(),
			Status:      e.Status().String(),
			Location:    e.Location().Value(),
			Description: e.Description(),
		})
	}

	tags := make([]TagReadModel, 0, len(s.Tags()))
	for _, tag := range s.Tags() {
		tags = append(tags, NewTagReadModel(tag))
	}

	model := ShipmentReadModel{
		ID:                s.ID(),
		Content:           details.Content,
		WeightKg:          details.WeightKg,
		Destination:       details.Destination.Value(),
		ContactEmail:      details.ContactEmail.String(),
		ContactPhone:      details.ContactPhone,
		Status:            s.CurrentStatus().String(),
		CreatedAt:         s.CreatedAt(),
		EstimatedDelivery: s.EstimatedDelivery(),
		Timeline:          timeline,
		Tags:              tags,
	}

	if view.Seller != nil {
		model.Seller = SellerReadModel{
			ID:      view.Seller.ID(),
			Name:    view.Seller.Name(),
			Email:   view.Seller.Email().String(),
			Address: view.Seller.Address(),
		}
		if code := view.Seller.PostalCode(); code != nil {
			value := code.Value()
			model.Seller.PostalCode = &value
		}
	}
	if view.Partner != nil {
		model.Partner = PartnerReadModel{
			ID:    view.Partner.ID(),
			Name:  view.Partner.Name(),
			Email: view.Partner.Email().String(),
		}
	}

	return model
}
