// Package shipmentrepo persists shipment aggregates: the shipment row with its
// cached current status, the append-only event rows and the tag links.
package shipmentrepo

import (
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO is the shipments row. Status caches the status of the newest
// event and is rewritten in the same transaction that inserts the event.
type ShipmentDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Content           string     `gorm:"type:varchar(30);not null"`
	WeightKg          float64    `gorm:"not null"`
	Destination       int        `gorm:"type:int;not null;index"`
	ContactEmail      string     `gorm:"column:client_contact_email;type:varchar(255);not null"`
	ContactPhone      string     `gorm:"column:client_contact_phone;type:varchar(20);not null;default:''"`
	CreatedAt         time.Time  `gorm:"not null"`
	EstimatedDelivery time.Time  `gorm:"not null"`
	Status            string     `gorm:"type:varchar(20);not null;index"`
	SellerID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	PartnerID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Events            []EventDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Tags              []TagDTO   `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// EventDTO is one immutable timeline entry.
type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shipment_events_sequence,priority:1;index:idx_shipment_events_latest,priority:1"`
	Sequence    int       `gorm:"not null;uniqueIndex:idx_shipment_events_sequence,priority:2"`
	CreatedAt   time.Time `gorm:"not null;index:idx_shipment_events_latest,priority:2"`
	Status      string    `gorm:"type:varchar(20);not null"`
	Location    int       `gorm:"type:int;not null"`
	Description string    `gorm:"type:varchar(255);not null"`
}

func (EventDTO) TableName() string {
	return "shipment_events"
}

// TagDTO links a shipment to one catalogue tag.
type TagDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagName    string    `gorm:"type:varchar(32);primaryKey;index"`
}

func (TagDTO) TableName() string {
	return "shipment_tags"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	id := s.ID().Bytes()
	details := s.Details()

	events := make([]EventDTO, 0, s.Timeline().Len())
	for _, e := range s.Timeline().History() {
		events = append(events, eventFromDomain(e))
	}

	return ShipmentDTO{
		ID:                id,
		Content:           details.Content,
		WeightKg:          details.WeightKg,
		Destination:       details.Destination.Value(),
		ContactEmail:      details.ContactEmail.String(),
		ContactPhone:      details.ContactPhone,
		CreatedAt:         s.CreatedAt(),
		EstimatedDelivery: s.EstimatedDelivery(),
		Status:            s.CurrentStatus().String(),
		SellerID:          s.SellerID().Bytes(),
		PartnerID:         s.PartnerID().Bytes(),
		Events:            events,
		Tags:              tagsFromDomain(id, s.Tags()),
	}
}

func eventFromDomain(e *shipment.Event) EventDTO {
	return EventDTO{
		ID:          e.ID().Bytes(),
		ShipmentID:  e.ShipmentID().Bytes(),
		Sequence:    e.Sequence(),
		CreatedAt:   e.CreatedAt(),
		Status:      e.Status().String(),
		Location:    e.Location().Value(),
		Description: e.Description(),
	}
}

func tagsFromDomain(shipmentID uuid.UUID, tags []shipment.TagName) []TagDTO {
	dtos := make([]TagDTO, 0, len(tags))
	for _, tag := range tags {
		dtos = append(dtos, TagDTO{ShipmentID: shipmentID, TagName: tag.String()})
	}
	return dtos
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewPostalCode(dto.Destination)
	if err != nil {
		return nil, err
	}
	email, err := kernel.NewEmail(dto.ContactEmail)
	if err != nil {
		return nil, err
	}

	events := make([]*shipment.Event, 0, len(dto.Events))
	for _, eventDTO := range dto.Events {
		e, eventErr := eventToDomain(eventDTO)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, e)
	}
	timeline, err := shipment.RestoreTimeline(id, events)
	if err != nil {
		return nil, err
	}

	tags := make([]shipment.TagName, 0, len(dto.Tags))
	for _, tag := range dto.Tags {
		tags = append(tags, shipment.TagName(tag.TagName))
	}

	details := shipment.Details{
		Content:      dto.Content,
		WeightKg:     dto.WeightKg,
		Destination:  destination,
		ContactEmail: email,
		ContactPhone: dto.ContactPhone,
	}

	return shipment.RestoreShipment(id, details, sellerID, partnerID, dto.CreatedAt, dto.EstimatedDelivery, timeline, tags)
}

func eventToDomain(dto EventDTO) (*shipment.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}
	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewPostalCode(dto.Location)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreEvent(id, shipmentID, dto.CreatedAt, dto.Sequence, status, location, dto.Description)
}
