package shipmentrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShipmentRepository implements ports.ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db *gorm.DB
}

func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Add inserts the shipment row, its seeded events and its tags.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.insertEvents(db, aggregate.ID(), dto.Events); err != nil {
		return err
	}
	if len(dto.Tags) > 0 {
		if err := db.Create(&dto.Tags).Error; err != nil {
			return err
		}
	}

	return nil
}

// Update writes the estimate and cached status, inserts the events appended
// since load and replaces the tag links.
//
// The status write is conditional on the status the aggregate was loaded with,
// so a write based on a stale read fails with *errs.ConcurrentModificationError
// instead of overwriting a newer status.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	query := db.Model(&ShipmentDTO{}).Where("id = ?", dto.ID)
	if stored, ok := aggregate.Timeline().StoredStatus(); ok {
		query = query.Where("status = ?", stored.String())
	}
	result := query.Updates(map[string]any{
		"estimated_delivery": dto.EstimatedDelivery,
		"status":             dto.Status,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(db, aggregate.ID())
	}

	appended := make([]EventDTO, 0)
	for _, e := range aggregate.Timeline().NewEvents() {
		appended = append(appended, eventFromDomain(e))
	}
	if err := r.insertEvents(db, aggregate.ID(), appended); err != nil {
		return err
	}

	return r.replaceTags(db, dto)
}

// Get loads a shipment with its timeline and tags.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("shipment", id.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate loads a shipment like Get after taking a row lock on it. The
// lock is held until the surrounding transaction ends, so concurrent writers
// of the same shipment run one after another.
func (r *GormShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var locked ShipmentDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&locked, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("shipment", id.String())
	}
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes the shipment. Events and tag links go by cascade, the review explicitly.
func (r *GormShipmentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM reviews WHERE shipment_id = ?", id.Bytes()).Error; err != nil {
		return err
	}

	result := db.Delete(&ShipmentDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	return nil
}

// FindByTag returns every shipment carrying tag, newest first.
func (r *GormShipmentRepository) FindByTag(ctx context.Context, tag shipment.TagName) ([]*shipment.Shipment, error) {
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	tagged := r.db.WithContext(ctx).Model(&TagDTO{}).Select("shipment_id").Where("tag_name = ?", tag.String())

	var dtos []ShipmentDTO
	if err := r.preloaded(ctx).
		Where("id IN (?)", tagged).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}

func (r *GormShipmentRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, sequence")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tag_name")
		})
}

// insertEvents never rewrites a stored event. A sequence already taken means
// another writer appended to the timeline first.
func (r *GormShipmentRepository) insertEvents(db *gorm.DB, shipmentID kernel.UUID, events []EventDTO) error {
	if len(events) == 0 {
		return nil
	}
	err := db.Create(&events).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConcurrentModificationErrorWithCause("shipment", shipmentID.String(), err)
	}
	return err
}

func (r *GormShipmentRepository) missingOrStale(db *gorm.DB, id kernel.UUID) error {
	var count int64
	if err := db.Model(&ShipmentDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	return errs.NewConcurrentModificationError("shipment", id.String())
}

func (r *GormShipmentRepository) replaceTags(db *gorm.DB, dto ShipmentDTO) error {
	names := make([]string, 0, len(dto.Tags))
	for _, tag := range dto.Tags {
		names = append(names, tag.TagName)
	}

	stale := db.Where("shipment_id = ?", dto.ID)
	if len(names) > 0 {
		stale = stale.Where("tag_name NOT IN ?", names)
	}
	if err := stale.Delete(&TagDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Tags) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Tags).Error
}
