// Package postgres provides the GORM-based unit of work. Every repository it
// hands out is bound to the transaction opened by Begin, so a shipment insert,
// its timeline seed and the partner reservation commit or roll back together.
//
// Usage:
//
//	uow := NewGormUnitOfWorkFactory(db).Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	reserved, err := uow.PartnerRepository().TryReserve(ctx, partnerID)
//	...
//	if err := uow.ShipmentRepository().Add(ctx, s); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// A UnitOfWork is not safe for concurrent use; create one per request.
package postgres

import (
	"context"

	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/adapters/out/postgres/sellerrepo"
	"fastship/internal/adapters/out/postgres/shipmentrepo"
	"fastship/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. Calling it again while a transaction is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. It fails with gorm.ErrInvalidTransaction
// when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the open transaction. Without one it does nothing, so it
// can be deferred right after Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn())
}

func (uow *GormUnitOfWork) PartnerRepository() ports.PartnerRepository {
	return partnerrepo.NewGormPartnerRepository(uow.conn())
}

func (uow *GormUnitOfWork) SellerRepository() ports.SellerRepository {
	return sellerrepo.NewGormSellerRepository(uow.conn())
}

func (uow *GormUnitOfWork) ReviewRepository() ports.ReviewRepository {
	return reviewrepo.NewGormReviewRepository(uow.conn())
}

// conn returns the open transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
