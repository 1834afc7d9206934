package http

import (
	"time"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

type CreateShipmentRequest struct {
	Content            string  `json:"content"`
	Weight             float64 `json:"weight"`
	Destination        int     `json:"destination"`
	ClientContactEmail string  `json:"client_contact_email"`
	ClientContactPhone string  `json:"client_contact_phone"`
}

// UpdateShipmentRequest fields are optional; at least one must be present.
type UpdateShipmentRequest struct {
	Status            *string    `json:"status"`
	Location          *int       `json:"location"`
	Description       *string    `json:"description"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

type SellerSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	ZipCode  int    `json:"zip_code"`
}

type PartnerSignupRequest struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	ServiceableZipCodes []int  `json:"serviceable_zip_codes"`
	MaxHandlingCapacity int    `json:"max_handling_capacity"`
}

// PartnerUpdateRequest fields are optional; at least one must be present.
type PartnerUpdateRequest struct {
	Name                *string `json:"name"`
	ServiceableZipCodes []int   `json:"serviceable_zip_codes"`
	MaxHandlingCapacity *int    `json:"max_handling_capacity"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AccountResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Verified bool      `json:"verified"`
}

func newAccountResponse(acc account.Account) AccountResponse {
	return AccountResponse{
		ID:       acc.ID().Bytes(),
		Name:     acc.Name(),
		Email:    acc.Email().String(),
		Verified: acc.IsVerified(),
	}
}

type PartnerResponse struct {
	AccountResponse
	ServiceableZipCodes     []int `json:"serviceable_zip_codes"`
	MaxHandlingCapacity     int   `json:"max_handling_capacity"`
	CurrentHandlingCapacity int   `json:"current_handling_capacity"`
}

func newPartnerResponse(p *partner.Partner) PartnerResponse {
	codes := make([]int, 0, len(p.ServiceArea()))
	for _, code := range p.ServiceArea() {
		codes = append(codes, code.Value())
	}
	return PartnerResponse{
		AccountResponse:         newAccountResponse(p.Account),
		ServiceableZipCodes:     codes,
		MaxHandlingCapacity:     p.MaxCapacity(),
		CurrentHandlingCapacity: p.SpareCapacity(),
	}
}

type ShipmentResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Content            string          `json:"content"`
	Weight             float64         `json:"weight"`
	Destination        int             `json:"destination"`
	ClientContactEmail string          `json:"client_contact_email"`
	ClientContactPhone string          `json:"client_contact_phone,omitempty"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	EstimatedDelivery  time.Time       `json:"estimated_delivery"`
	Seller             SellerSummary   `json:"seller"`
	DeliveryPartner    PartnerSummary  `json:"delivery_partner"`
	Timeline           []EventResponse `json:"timeline"`
	Tags               []TagResponse   `json:"tags"`
}

type SellerSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address,omitempty"`
	ZipCode *int      `json:"zip_code,omitempty"`
}

type PartnerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Location    int       `json:"location"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

type TagResponse struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`
}

func newShipmentResponse(m views.ShipmentReadModel) ShipmentResponse {
	timeline := make([]EventResponse, 0, len(m.Timeline))
	for _, e := range m.Timeline {
		timeline = append(timeline, EventResponse{
			ID:          e.ID.Bytes(),
			CreatedAt:   e.CreatedAt,
			Location:    e.Location,
			Status:      e.Status,
			Description: e.Description,
		})
	}

	tags := make([]TagResponse, 0, len(m.Tags))
	for _, tag := range m.Tags {
		tags = append(tags, TagResponse{Name: tag.Name, Instruction: tag.Instruction})
	}

	return ShipmentResponse{
		ID:                 m.ID.Bytes(),
		Content:            m.Content,
		Weight:             m.WeightKg,
		Destination:        m.Destination,
		ClientContactEmail: m.ContactEmail,
		ClientContactPhone: m.ContactPhone,
		Status:             m.Status,
		CreatedAt:          m.CreatedAt,
		EstimatedDelivery:  m.EstimatedDelivery,
		Seller: SellerSummary{
			ID:      m.Seller.ID.Bytes(),
			Name:    m.Seller.Name,
			Email:   m.Seller.Email,
			Address: m.Seller.Address,
			ZipCode: m.Seller.PostalCode,
		},
		DeliveryPartner: PartnerSummary{
			ID:    m.Partner.ID.Bytes(),
			Name:  m.Partner.Name,
			Email: m.Partner.Email,
		},
		Timeline: timeline,
		Tags:     tags,
	}
}

func newShipmentResponses(models []views.ShipmentReadModel) []ShipmentResponse {
	responses := make([]ShipmentResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, newShipmentResponse(m))
	}
	return responses
}
