package pgtest

import (
	"testing"
	"time"

	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/require"
)

// RegisteredAt is the creation time of fixture accounts.
var RegisteredAt = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func newAccount(t testing.TB, name, domain string, createdAt time.Time) account.Account {
	t.Helper()

	email, err := kernel.NewEmail(name + "@" + domain)
	require.NoError(t, err)
	acc, err := account.Restore(kernel.NewUUID(), name, email, "digest", true, createdAt)
	require.NoError(t, err)
	return acc
}

// NewSeller builds a verified seller. postalCode 0 leaves it unset.
func NewSeller(t testing.TB, name string, postalCode int) *seller.Seller {
	t.Helper()

	var code *kernel.PostalCode
	if postalCode != 0 {
		c := kernel.MustPostalCode(postalCode)
		code = &c
	}
	s, err := seller.NewSeller(newAccount(t, name, "shop.example.com", RegisteredAt), "1 Main St", code)
	require.NoError(t, err)
	return s
}

// NewPartner builds a verified partner registered offset after RegisteredAt.
func NewPartner(t testing.TB, name string, offset time.Duration, capacity int, area ...int) *partner.Partner {
	t.Helper()

	codes := make([]kernel.PostalCode, 0, len(area))
	for _, value := range area {
		codes = append(codes, kernel.MustPostalCode(value))
	}
	p, err := partner.NewPartner(newAccount(t, name, "partners.example.com", RegisteredAt.Add(offset)), codes, capacity)
	require.NoError(t, err)
	return p
}

// NewShipment places a shipment to destination at now.
func NewShipment(t testing.TB, sellerID, partnerID kernel.UUID, destination int, now time.Time) *shipment.Shipment {
	t.Helper()

	email, err := kernel.NewEmail("client@example.com")
	require.NoError(t, err)
	details := shipment.Details{
		Content:      "books",
		WeightKg:     2.5,
		Destination:  kernel.MustPostalCode(destination),
		ContactEmail: email,
	}
	s, err := shipment.NewShipment(kernel.NewUUID(), details, sellerID, partnerID,
		kernel.MustPostalCode(destination), "", now, now.Add(72*time.Hour))
	require.NoError(t, err)
	return s
}
