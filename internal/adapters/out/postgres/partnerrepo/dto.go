// Package partnerrepo persists delivery partners and owns the SQL that keeps
// their reservation counters within capacity.
package partnerrepo

import (
	"time"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PartnerDTO struct {
	ID                     uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name                   string        `gorm:"type:varchar(50);not null"`
	Email                  string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash           string        `gorm:"type:varchar(255);not null"`
	EmailVerified          bool          `gorm:"not null;default:false"`
	CreatedAt              time.Time     `gorm:"not null;index"`
	ServiceablePostalCodes pq.Int64Array `gorm:"type:integer[];not null"`
	MaxHandlingCapacity    int           `gorm:"type:int;not null"`
	ActiveShipments        int           `gorm:"type:int;not null;default:0;check:active_shipments >= 0"`
}

func (PartnerDTO) TableName() string {
	return "delivery_partners"
}

func fromDomain(p *partner.Partner) PartnerDTO {
	area := p.ServiceArea()
	codes := make(pq.Int64Array, 0, len(area))
	for _, code := range area {
		codes = append(codes, int64(code.Value()))
	}

	return PartnerDTO{
		ID:                     p.ID().Bytes(),
		Name:                   p.Name(),
		Email:                  p.Email().String(),
		PasswordHash:           p.PasswordHash(),
		EmailVerified:          p.IsVerified(),
		CreatedAt:              p.CreatedAt(),
		ServiceablePostalCodes: codes,
		MaxHandlingCapacity:    p.MaxCapacity(),
		ActiveShipments:        p.ActiveShipments(),
	}
}

func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	acc, err := account.Restore(id, dto.Name, email, dto.PasswordHash, dto.EmailVerified, dto.CreatedAt)
	if err != nil {
		return nil, err
	}

	area := make([]kernel.PostalCode, 0, len(dto.ServiceablePostalCodes))
	for _, value := range dto.ServiceablePostalCodes {
		code, codeErr := kernel.NewPostalCode(int(value))
		if codeErr != nil {
			return nil, codeErr
		}
		area = append(area, code)
	}

	return partner.RestorePartner(acc, area, dto.MaxHandlingCapacity, dto.ActiveShipments)
}
