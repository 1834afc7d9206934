package shipment

import (
	"fmt"

	"fastship/internal/pkg/errs"
)

// Status is the state a shipment is in, as recorded by its newest timeline event.
//
// Transitions:
//
//	Placed ──> InTransit ──> OutForDelivery ──> Delivered
//	  │  ↺         │  ↺            │  ↺
//	  └────────────┴───────────────┴──────────> Cancelled
//
// A non-terminal status may repeat itself (a location-only scan) or move to
// any later status. Cancelled is reachable from every non-terminal status.
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown is the zero value. In an EventDraft it means "keep the current status".
	Unknown Status = iota
	Placed
	InTransit
	OutForDelivery
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Placed:         "placed",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// rank orders the forward path. Cancelled sits outside of it.
func (s Status) rank() int {
	switch s {
	case Placed:
		return 1
	case InTransit:
		return 2
	case OutForDelivery:
		return 3
	case Delivered:
		return 4
	case Unknown, Cancelled:
		return 0
	}
	return 0
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Placed, InTransit, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus converts the wire name ("in_transit", ...) into a Status.
func ParseStatus(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", name))
}

// Validate fails for Unknown and for values outside of the enumeration.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no event may follow this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive reports whether a shipment in this status holds a partner's capacity.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}

// ValidateTransition checks the edge s -> next of the status graph.
//
// Returns:
//   - nil when the edge exists
//   - *errs.StatusTransitionError when s is terminal or next moves backwards
//   - *errs.ValueIsInvalidError when either status is not valid
func (s Status) ValidateTransition(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return errs.NewStatusTransitionError(s.String(), next.String())
	}
	if next == Cancelled || next == s || next.rank() > s.rank() {
		return nil
	}
	return errs.NewStatusTransitionError(s.String(), next.String())
}
