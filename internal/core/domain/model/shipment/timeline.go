package shipment

import (
	"errors"
	"slices"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
)

// ErrFirstEventMustBePlaced is returned when a timeline would start with anything but Placed.
var ErrFirstEventMustBePlaced = errs.NewStatusTransitionError("none", "anything but placed")

// Timeline is the append-only event log of one shipment.
//
// The current status is the status of the event with the latest creation
// time; equal timestamps are ordered by insertion sequence. Append assigns
// timestamps itself and keeps them strictly increasing, so the newest append
// is always the current event.
type Timeline struct {
	shipmentID kernel.UUID
	events     []*Event
	// persisted counts the leading events loaded from storage; the rest are new.
	persisted int
}

// NewTimeline returns an empty timeline for shipmentID.
func NewTimeline(shipmentID kernel.UUID) (*Timeline, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}
	return &Timeline{shipmentID: shipmentID}, nil
}

// RestoreTimeline rebuilds a timeline from stored events in any order.
// Stored history is trusted and transitions are not re-validated.
func RestoreTimeline(shipmentID kernel.UUID, events []*Event) (*Timeline, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	ordered := make([]*Event, 0, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if !e.ShipmentID().IsEqual(shipmentID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("event", errors.New("event belongs to another shipment"))
		}
		ordered = append(ordered, e)
	}
	slices.SortStableFunc(ordered, func(a, b *Event) int {
		switch {
		case a.isAfter(b):
			return 1
		case b.isAfter(a):
			return -1
		default:
			return 0
		}
	})

	return &Timeline{shipmentID: shipmentID, events: ordered, persisted: len(ordered)}, nil
}

// Append records a new event at now.
//
// Omitted draft fields are inherited from the latest event (status, location)
// or synthesized (description). The status change is validated against the
// transition graph and the creation time is max(now, latest+1µs).
//
// Returns:
//   - the appended event
//   - *errs.StatusTransitionError for illegal edges, including any append after a terminal status
//   - a validation error when the first event is not Placed or has no location
func (t *Timeline) Append(draft EventDraft, now time.Time) (*Event, error) {
	latest := t.Latest()

	status := draft.Status
	location := draft.Location
	if latest == nil {
		if status != Placed {
			return nil, ErrFirstEventMustBePlaced
		}
		if err := location.Validate(); err != nil {
			return nil, err
		}
	} else {
		if status == Unknown {
			status = latest.Status()
		}
		if err := latest.Status().ValidateTransition(status); err != nil {
			return nil, err
		}
		if location.Validate() != nil {
			location = latest.Location()
		}
	}

	description := draft.Description
	if description == "" {
		description = DescribeStatus(status, location)
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	createdAt := now.UTC().Truncate(time.Microsecond)
	sequence := 1
	if latest != nil {
		if !createdAt.After(latest.CreatedAt()) {
			createdAt = latest.CreatedAt().Add(time.Microsecond)
		}
		sequence = t.maxSequence() + 1
	}

	event, err := RestoreEvent(kernel.NewUUID(), t.shipmentID, createdAt, sequence, status, location, description)
	if err != nil {
		return nil, err
	}

	t.events = append(t.events, event)
	return event, nil
}

// Latest returns the current event, nil for an empty timeline.
func (t *Timeline) Latest() *Event {
	if len(t.events) == 0 {
		return nil
	}
	return t.events[len(t.events)-1]
}

// CurrentStatus returns the status of the latest event; false when the timeline is empty.
func (t *Timeline) CurrentStatus() (Status, bool) {
	latest := t.Latest()
	if latest == nil {
		return Unknown, false
	}
	return latest.Status(), true
}

// StoredStatus returns the status of the newest event loaded from storage;
// false when nothing was loaded.
func (t *Timeline) StoredStatus() (Status, bool) {
	if t.persisted == 0 {
		return Unknown, false
	}
	return t.events[t.persisted-1].Status(), true
}

// History returns the events ordered from oldest to newest.
// The returned slice is a copy and may be iterated any number of times.
func (t *Timeline) History() []*Event {
	return slices.Clone(t.events)
}

// NewEvents returns the events appended since the timeline was created or restored.
func (t *Timeline) NewEvents() []*Event {
	return slices.Clone(t.events[t.persisted:])
}

// Len returns the number of events.
func (t *Timeline) Len() int {
	return len(t.events)
}

func (t *Timeline) maxSequence() int {
	highest := 0
	for _, e := range t.events {
		highest = max(highest, e.Sequence())
	}
	return highest
}
