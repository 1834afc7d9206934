package shipment

import (
	"errors"
	"fmt"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

// DescriptionMaxLength bounds caller-supplied event descriptions.
const DescriptionMaxLength = 255

var ErrEventIsNotConstructed = errors.New("Event must be created through a Timeline or RestoreEvent")

// Event is one immutable entry of a shipment timeline.
type Event struct {
	id          kernel.UUID
	shipmentID  kernel.UUID
	createdAt   time.Time
	sequence    int
	status      Status
	location    kernel.PostalCode
	description string

	guard guard.ConstructorGuard
}

// EventDraft carries the caller-supplied part of a new event. Zero fields are
// "omitted": an Unknown status keeps the current status, a zero location keeps
// the latest location and an empty description is synthesized.
type EventDraft struct {
	Status      Status
	Location    kernel.PostalCode
	Description string
}

// IsEmpty reports whether no field of the draft was supplied.
func (d EventDraft) IsEmpty() bool {
	return d.Status == Unknown && d.Location.Validate() != nil && d.Description == ""
}

// RestoreEvent rebuilds a persisted event.
func RestoreEvent(
	id, shipmentID kernel.UUID,
	createdAt time.Time,
	sequence int,
	status Status,
	location kernel.PostalCode,
	description string,
) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		status.Validate(),
		location.Validate(),
		validateSequence(sequence),
		validateCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return &Event{
		id:          id,
		shipmentID:  shipmentID,
		createdAt:   createdAt.UTC(),
		sequence:    sequence,
		status:      status,
		location:    location,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// ID returns the event identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// ShipmentID returns the shipment the event belongs to.
func (e *Event) ShipmentID() kernel.UUID {
	return e.shipmentID
}

// CreatedAt returns the system-assigned creation instant (UTC).
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

// Sequence returns the 1-based insertion position within the timeline.
func (e *Event) Sequence() int {
	return e.sequence
}

func (e *Event) Status() Status {
	return e.status
}

func (e *Event) Location() kernel.PostalCode {
	return e.location
}

func (e *Event) Description() string {
	return e.description
}

// isAfter orders events by creation time, ties broken by insertion sequence.
func (e *Event) isAfter(other *Event) bool {
	if e.createdAt.Equal(other.createdAt) {
		return e.sequence > other.sequence
	}
	return e.createdAt.After(other.createdAt)
}

// DescribeStatus returns the default description of an event.
func DescribeStatus(status Status, location kernel.PostalCode) string {
	switch status {
	case Placed:
		return "assign delivery partner"
	case OutForDelivery:
		return "shipment out for delivery"
	case Delivered:
		return "shipment delivered"
	case Cancelled:
		return "shipment cancelled by the seller"
	case InTransit, Unknown:
		return fmt.Sprintf("scanned at %s", location)
	}
	return fmt.Sprintf("scanned at %s", location)
}

func validateSequence(sequence int) error {
	if sequence < 1 {
		return errs.NewValueIsInvalidErrorWithCause("sequence", fmt.Errorf("%d is not greater than 0", sequence))
	}
	return nil
}

func validateCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("event created at")
	}
	return nil
}

func validateDescription(description string) error {
	if len([]rune(description)) > DescriptionMaxLength {
		return errs.NewValueIsOutOfRangeError("description length", len([]rune(description)), 0, DescriptionMaxLength)
	}
	return nil
}
