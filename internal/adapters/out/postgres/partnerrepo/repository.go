package partnerrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
)

// recountActiveSQL rebuilds every reservation counter from the newest event
// of each shipment. Only counters that differ are written.
const recountActiveSQL = `
WITH latest AS (
	SELECT DISTINCT ON (e.shipment_id) e.shipment_id, e.status
	FROM shipment_events e
	ORDER BY e.shipment_id, e.created_at DESC, e.sequence DESC
),
counts AS (
	SELECT s.partner_id, COUNT(*) AS active
	FROM shipments s
	JOIN latest l ON l.shipment_id = s.id
	WHERE l.status NOT IN (?, ?)
	GROUP BY s.partner_id
)
UPDATE delivery_partners p
SET active_shipments = COALESCE(c.active, 0)
FROM delivery_partners p2
LEFT JOIN counts c ON c.partner_id = p2.id
WHERE p.id = p2.id
	AND p.active_shipments <> COALESCE(c.active, 0)`

// GormPartnerRepository implements ports.PartnerRepository using GORM.
type GormPartnerRepository struct {
	db *gorm.DB
}

func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Add fails with errs.ErrAlreadyExists when the e-mail is taken.
func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewAlreadyExistsError("partner email", aggregate.Email())
	}
	return err
}

// Update writes the profile and the declared capacity. The row is only
// updated while the stored counter fits the new capacity, so a concurrent
// reservation cannot be squeezed out.
func (r *GormPartnerRepository) Update(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&PartnerDTO{}).
		Where("id = ? AND active_shipments <= ?", dto.ID, dto.MaxHandlingCapacity).
		Updates(map[string]any{
			"name":                     dto.Name,
			"password_hash":            dto.PasswordHash,
			"email_verified":           dto.EmailVerified,
			"serviceable_postal_codes": dto.ServiceablePostalCodes,
			"max_handling_capacity":    dto.MaxHandlingCapacity,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var stored PartnerDTO
	err := db.Select("active_shipments").First(&stored, "id = ?", dto.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("delivery partner", aggregate.ID().String())
	}
	if err != nil {
		return err
	}
	return errs.NewValueIsOutOfRangeError("max handling capacity", dto.MaxHandlingCapacity, stored.ActiveShipments, "unbounded")
}

func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("delivery partner", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormPartnerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*partner.Partner, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	err := r.db.WithContext(ctx).First(&dto, "email = ?", email.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("delivery partner", email.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// FindServing returns the partners covering code, oldest registration first.
func (r *GormPartnerRepository) FindServing(ctx context.Context, code kernel.PostalCode) ([]*partner.Partner, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).
		Where("? = ANY(serviceable_postal_codes)", code.Value()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	partners := make([]*partner.Partner, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, nil
}

// TryReserve takes a slot with one conditional update. Under read committed a
// concurrent update of the same row waits for the row lock and re-checks the
// condition against the committed counter.
func (r *GormPartnerRepository) TryReserve(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(
		`UPDATE delivery_partners
		SET active_shipments = active_shipments + 1
		WHERE id = ? AND active_shipments < max_handling_capacity`,
		id.Bytes(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormPartnerRepository) Release(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(
		`UPDATE delivery_partners
		SET active_shipments = active_shipments - 1
		WHERE id = ? AND active_shipments > 0`,
		id.Bytes(),
	).Error
}

// lockPartnersSQL waits for every transaction holding a reservation or a
// release to finish, so the recount that follows sees their shipments.
const lockPartnersSQL = `SELECT id FROM delivery_partners ORDER BY id FOR UPDATE`

// RecountActive locks all partner rows first and recounts in a later
// statement, which under read committed takes a fresh snapshot.
func (r *GormPartnerRepository) RecountActive(ctx context.Context) (int64, error) {
	var repaired int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(lockPartnersSQL).Error; err != nil {
			return err
		}
		result := tx.Exec(recountActiveSQL, shipment.Delivered.String(), shipment.Cancelled.String())
		repaired = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}
	return repaired, nil
}
