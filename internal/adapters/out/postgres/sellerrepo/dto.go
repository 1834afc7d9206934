// Package sellerrepo persists seller accounts.
package sellerrepo

import (
	"time"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/seller"

	"github.com/google/uuid"
)

type SellerDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(50);not null"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	EmailVerified bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"not null"`
	Address       string    `gorm:"type:varchar(200);not null;default:''"`
	PostalCode    *int      `gorm:"type:int"`
}

func (SellerDTO) TableName() string {
	return "sellers"
}

func fromDomain(s *seller.Seller) SellerDTO {
	var postalCode *int
	if code := s.PostalCode(); code != nil {
		value := code.Value()
		postalCode = &value
	}

	return SellerDTO{
		ID:            s.ID().Bytes(),
		Name:          s.Name(),
		Email:         s.Email().String(),
		PasswordHash:  s.PasswordHash(),
		EmailVerified: s.IsVerified(),
		CreatedAt:     s.CreatedAt(),
		Address:       s.Address(),
		PostalCode:    postalCode,
	}
}

func toDomain(dto SellerDTO) (*seller.Seller, error) {
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

	var postalCode *kernel.PostalCode
	if dto.PostalCode != nil {
		code, codeErr := kernel.NewPostalCode(*dto.PostalCode)
		if codeErr != nil {
			return nil, codeErr
		}
		postalCode = &code
	}

	return seller.RestoreSeller(acc, dto.Address, postalCode)
}
