package ports

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/seller"
)

type SellerRepository interface {
	Add(ctx context.Context, aggregate *seller.Seller) error
	Update(ctx context.Context, aggregate *seller.Seller) error
	Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error)
	GetByEmail(ctx context.Context, email kernel.Email) (*seller.Seller, error)
}
