package shipment

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
)

const (
	// ContentMaxLength bounds the content descriptor.
	ContentMaxLength = 30
	// WeightMaxKg is the heaviest parcel the network accepts.
	WeightMaxKg = 25.0
	// PhoneMaxLength bounds the optional client phone number.
	PhoneMaxLength = 20
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment was not created
	// through NewShipment or RestoreShipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")
)

// Details is the seller-supplied description of a parcel.
type Details struct {
	Content      string
	WeightKg     float64
	Destination  kernel.PostalCode
	ContactEmail kernel.Email
	// ContactPhone is optional.
	ContactPhone string
}

// Validate checks every field and joins all problems found.
func (d Details) Validate() error {
	var problems []error

	switch n := len([]rune(d.Content)); {
	case n == 0:
		problems = append(problems, errs.NewValueIsRequiredError("content"))
	case n > ContentMaxLength:
		problems = append(problems, errs.NewValueIsOutOfRangeError("content length", n, 1, ContentMaxLength))
	}
	if math.IsNaN(d.WeightKg) || d.WeightKg <= 0 || d.WeightKg > WeightMaxKg {
		problems = append(problems, errs.NewValueIsOutOfRangeError("weight", d.WeightKg, 0, WeightMaxKg))
	}
	if err := d.Destination.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := d.ContactEmail.Validate(); err != nil {
		problems = append(problems, err)
	}
	if n := len(d.ContactPhone); n > PhoneMaxLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("contact phone length", n, 0, PhoneMaxLength))
	}

	return errors.Join(problems...)
}

// Shipment is the aggregate root of one parcel's journey from a seller to the
// client, carried by exactly one delivery partner.
//
// Invariants:
//   - seller and partner bindings are set at creation and never change
//   - the timeline holds at least one event, the first one Placed
//   - the current status always equals the status of the newest timeline event
//   - tags form a set
type Shipment struct {
	id                kernel.UUID
	details           Details
	createdAt         time.Time
	sellerID          kernel.UUID
	partnerID         kernel.UUID
	estimatedDelivery time.Time
	status            Status
	timeline          *Timeline
	tags              []TagName

	isConstructed bool
}

// NewShipment creates a shipment bound to sellerID and partnerID and seeds its
// timeline with a Placed event recorded at origin.
//
// Parameters:
//   - id: identifier of the new shipment
//   - details: validated parcel description
//   - sellerID, partnerID: immutable bindings
//   - origin: where the Placed event is recorded (seller's postal code or the destination)
//   - placedDescription: description of the Placed event, synthesized when empty
//   - now: creation instant
//   - estimatedDelivery: initial delivery estimate, not before now
//
// Example:
//
//	s, err := shipment.NewShipment(kernel.NewUUID(), details, seller.ID(), partner.ID(),
//	    origin, "assigned to "+partner.Name(), now, now.Add(72*time.Hour))
func NewShipment(
	id kernel.UUID,
	details Details,
	sellerID, partnerID kernel.UUID,
	origin kernel.PostalCode,
	placedDescription string,
	now, estimatedDelivery time.Time,
) (*Shipment, error) {
	s := &Shipment{
		createdAt:     now.UTC().Truncate(time.Microsecond),
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setDetails(details),
		s.setBindings(sellerID, partnerID),
		s.SetEstimatedDelivery(estimatedDelivery),
	); err != nil {
		return nil, err
	}

	timeline, err := NewTimeline(id)
	if err != nil {
		return nil, err
	}
	s.timeline = timeline

	if _, err = s.Append(EventDraft{Status: Placed, Location: origin, Description: placedDescription}, now); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreShipment rebuilds a persisted shipment. The current status is derived
// from the timeline, which must not be empty.
func RestoreShipment(
	id kernel.UUID,
	details Details,
	sellerID, partnerID kernel.UUID,
	createdAt, estimatedDelivery time.Time,
	timeline *Timeline,
	tags []TagName,
) (*Shipment, error) {
	s := &Shipment{
		createdAt:         createdAt.UTC(),
		estimatedDelivery: estimatedDelivery.UTC(),
		isConstructed:     true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setDetails(details),
		s.setBindings(sellerID, partnerID),
		s.setTimeline(id, timeline),
		s.setTags(tags),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the shipment was built by one of its constructors.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) Details() Details {
	return s.details
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) SellerID() kernel.UUID {
	return s.sellerID
}

func (s *Shipment) PartnerID() kernel.UUID {
	return s.partnerID
}

func (s *Shipment) EstimatedDelivery() time.Time {
	return s.estimatedDelivery
}

// CurrentStatus returns the status of the newest timeline event.
func (s *Shipment) CurrentStatus() Status {
	return s.status
}

// IsActive reports whether the shipment still occupies its partner's capacity.
func (s *Shipment) IsActive() bool {
	return s.status.IsActive()
}

// Timeline exposes the event log. Callers must not append to it directly.
func (s *Shipment) Timeline() *Timeline {
	return s.timeline
}

// Tags returns a copy of the tag set in insertion order.
func (s *Shipment) Tags() []TagName {
	return slices.Clone(s.tags)
}

func (s *Shipment) HasTag(tag TagName) bool {
	return slices.Contains(s.tags, tag)
}

// IsOwnedBy reports whether sellerID created the shipment.
func (s *Shipment) IsOwnedBy(sellerID kernel.UUID) bool {
	return s.sellerID.IsEqual(sellerID)
}

// IsBoundTo reports whether partnerID carries the shipment.
func (s *Shipment) IsBoundTo(partnerID kernel.UUID) bool {
	return s.partnerID.IsEqual(partnerID)
}

// SetEstimatedDelivery replaces the delivery estimate. It may not precede creation.
func (s *Shipment) SetEstimatedDelivery(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery")
	}
	if at.Before(s.createdAt) {
		return errs.NewValueIsInvalidErrorWithCause("estimated delivery",
			fmt.Errorf("%s is before creation time %s", at.Format(time.RFC3339), s.createdAt.Format(time.RFC3339)))
	}

	s.estimatedDelivery = at.UTC()
	return nil
}

// Append adds an event to the timeline and refreshes the current status.
// See Timeline.Append for the inheritance and validation rules.
func (s *Shipment) Append(draft EventDraft, now time.Time) (*Event, error) {
	event, err := s.timeline.Append(draft, now)
	if err != nil {
		return nil, err
	}

	s.status = event.Status()
	return event, nil
}

// Cancel appends a Cancelled event at the latest location.
func (s *Shipment) Cancel(now time.Time) (*Event, error) {
	return s.Append(EventDraft{Status: Cancelled}, now)
}

// AddTag attaches tag, failing with errs.ErrDuplicateAssociation when it is already attached.
func (s *Shipment) AddTag(tag TagName) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	if s.HasTag(tag) {
		return errs.NewDuplicateAssociationError("shipment "+s.id.String(), "tag "+tag.String())
	}

	s.tags = append(s.tags, tag)
	return nil
}

// RemoveTag detaches tag, failing with errs.ErrMissingAssociation when it is not attached.
func (s *Shipment) RemoveTag(tag TagName) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	idx := slices.Index(s.tags, tag)
	if idx < 0 {
		return errs.NewMissingAssociationError("shipment "+s.id.String(), "tag "+tag.String())
	}

	s.tags = slices.Delete(s.tags, idx, idx+1)
	return nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setDetails(d Details) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.details = d
	return nil
}

func (s *Shipment) setBindings(sellerID, partnerID kernel.UUID) error {
	if err := errors.Join(sellerID.Validate(), partnerID.Validate()); err != nil {
		return err
	}
	s.sellerID = sellerID
	s.partnerID = partnerID
	return nil
}

func (s *Shipment) setTimeline(id kernel.UUID, timeline *Timeline) error {
	if timeline == nil {
		return errs.NewValueIsRequiredError("timeline")
	}
	if !timeline.shipmentID.IsEqual(id) {
		return errs.NewValueIsInvalidErrorWithCause("timeline", errors.New("timeline belongs to another shipment"))
	}
	status, ok := timeline.CurrentStatus()
	if !ok {
		return errs.NewValueIsRequiredErrorWithCause("timeline", errors.New("shipment has no events"))
	}

	s.timeline = timeline
	s.status = status
	return nil
}

func (s *Shipment) setTags(tags []TagName) error {
	s.tags = make([]TagName, 0, len(tags))
	for _, tag := range tags {
		if err := tag.Validate(); err != nil {
			return err
		}
		if !slices.Contains(s.tags, tag) {
			s.tags = append(s.tags, tag)
		}
	}
	return nil
}
