package sellerrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSellerRepository implements ports.SellerRepository using GORM.
type GormSellerRepository struct {
	db *gorm.DB
}

func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// Add fails with errs.ErrAlreadyExists when the e-mail is taken.
func (r *GormSellerRepository) Add(ctx context.Context, aggregate *seller.Seller) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewAlreadyExistsError("seller email", aggregate.Email())
	}
	return err
}

func (r *GormSellerRepository) Update(ctx context.Context, aggregate *seller.Seller) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SellerDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":           dto.Name,
			"password_hash":  dto.PasswordHash,
			"email_verified": dto.EmailVerified,
			"address":        dto.Address,
			"postal_code":    dto.PostalCode,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("seller", aggregate.ID().String())
	}
	return nil
}

func (r *GormSellerRepository) Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, id.String(), "id = ?", id.Bytes())
}

func (r *GormSellerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*seller.Seller, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, email.String(), "email = ?", email.String())
}

func (r *GormSellerRepository) first(ctx context.Context, key string, query string, arg any) (*seller.Seller, error) {
	var dto SellerDTO
	err := r.db.WithContext(ctx).First(&dto, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("seller", key)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}
