// Package ports defines the contracts between the core and its infrastructure:
// repositories behind a unit of work, the token revocation store, the task
// queue, the password hasher and the timeline event stream.
package ports

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates,
// including their timeline and tag set.
type ShipmentRepository interface {
	// Add persists a new shipment together with its seeded timeline and tags.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists the mutable part of an existing shipment: estimated
	// delivery, cached current status, events appended since it was loaded
	// and the tag set. Stored events are never rewritten.
	// Returns *errs.ConcurrentModificationError when the stored status or
	// timeline moved on since the aggregate was loaded.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get loads a shipment with its full timeline and tags.
	// Returns *errs.ObjectNotFoundError when no shipment has the id.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate is Get under a row lock held until the unit of work ends.
	// Every read-modify-write of a shipment goes through it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// Delete removes a shipment and, by cascade, its events, tags and review.
	// Returns *errs.ObjectNotFoundError when no shipment has the id.
	Delete(ctx context.Context, id kernel.UUID) error

	// FindByTag returns every shipment carrying tag, newest first.
	FindByTag(ctx context.Context, tag shipment.TagName) ([]*shipment.Shipment, error)
}
