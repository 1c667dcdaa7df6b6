package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type PropertyResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	PropertyType  string          `json:"propertyType"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	MaxGuests     int             `json:"maxGuests"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     string          `json:"createdAt"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"createdAt"`
	IsDeleted bool      `json:"isDeleted"`
}

type PageResponse[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// ProblemDetail is the application/problem+json error body.
type ProblemDetail struct {
	Type          string            `json:"type"`
	Title         string            `json:"title"`
	Status        int               `json:"status"`
	Detail        string            `json:"detail"`
	Instance      string            `json:"instance"`
	Timestamp     string            `json:"timestamp"`
	InvalidParams map[string]string `json:"invalid_params,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}
