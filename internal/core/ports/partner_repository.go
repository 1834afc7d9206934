package ports

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
)

// PartnerRepository defines the persistence contract for delivery partners and
// owns the atomic form of their capacity check.
type PartnerRepository interface {
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Update persists name, verification flag, password hash, service area and
	// declared capacity. The reservation counter is only changed through
	// TryReserve, Release and RecountActive.
	Update(ctx context.Context, aggregate *partner.Partner) error

	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetByEmail returns *errs.ObjectNotFoundError for unknown addresses.
	GetByEmail(ctx context.Context, email kernel.Email) (*partner.Partner, error)

	// FindServing returns the partners whose service area contains code,
	// oldest registration first.
	FindServing(ctx context.Context, code kernel.PostalCode) ([]*partner.Partner, error)

	// TryReserve atomically takes one capacity slot of the partner.
	// It returns false, without error, when the partner is already full.
	//
	// Two concurrent callers can never both take the last slot: the check and
	// the increment are a single conditional update.
	TryReserve(ctx context.Context, id kernel.UUID) (bool, error)

	// Release frees one capacity slot. Releasing an empty counter is a no-op.
	Release(ctx context.Context, id kernel.UUID) error

	// RecountActive recomputes every reservation counter from the timelines
	// and returns the number of partners whose counter changed. It waits for
	// in-flight reservations and releases, so it never undoes one of them.
	RecountActive(ctx context.Context) (int64, error)
}
