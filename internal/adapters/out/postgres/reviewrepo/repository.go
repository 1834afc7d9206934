// Package reviewrepo persists client reviews, at most one per shipment.
package reviewrepo

import (
	"context"
	"errors"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Rating     int       `gorm:"type:smallint;not null;check:rating BETWEEN 1 AND 5"`
	Comment    string    `gorm:"type:varchar(500);not null;default:''"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (ReviewDTO) TableName() string {
	return "reviews"
}

// GormReviewRepository implements ports.ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Add fails with shipment.ErrReviewAlreadySubmitted when the shipment already
// has a review, including one committed concurrently.
func (r *GormReviewRepository) Add(ctx context.Context, review *shipment.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}

	dto := ReviewDTO{
		ID:         review.ID().Bytes(),
		ShipmentID: review.ShipmentID().Bytes(),
		Rating:     review.Rating(),
		Comment:    review.Comment(),
		CreatedAt:  review.CreatedAt(),
	}
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shipment.ErrReviewAlreadySubmitted
	}
	return err
}

func (r *GormReviewRepository) ExistsForShipment(ctx context.Context, shipmentID kernel.UUID) (bool, error) {
	if err := shipmentID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&ReviewDTO{}).Where("shipment_id = ?", shipmentID.Bytes()).Count(&count).Error
	return count > 0, err
}
