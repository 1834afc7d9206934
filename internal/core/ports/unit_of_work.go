package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback is a no-op after a successful Commit, so it is safe to defer.
	Rollback(ctx context.Context) error

	// Repositories are bound to the transaction started by Begin.
	ShipmentRepository() ShipmentRepository
	PartnerRepository() PartnerRepository
	SellerRepository() SellerRepository
	ReviewRepository() ReviewRepository
}
