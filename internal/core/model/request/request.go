package request

import (
	"github.com/google/uuid"

	"bookingapp/internal/core/domain"
)

type PropertyCreationRequest struct {
	Name          string              `json:"name" validate:"notblank,max=255"`
	Description   string              `json:"description" validate:"notblank,max=300"`
	Address       string              `json:"address" validate:"notblank,max=255"`
	City          string              `json:"city" validate:"notblank,max=100"`
	Country       string              `json:"country" validate:"notblank,max=100"`
	PropertyType  domain.PropertyType `json:"propertyType" validate:"required"`
	PricePerNight Price               `json:"pricePerNight" validate:"required,gt=0"`
	MaxGuests     int                 `json:"maxGuests" validate:"required,min=1"`
	OwnerID       uuid.UUID           `json:"ownerId" validate:"required"`
}

// PropertyPatchRequest has no owner field; ownership is fixed at creation.
type PropertyPatchRequest struct {
	Name          Optional[string]              `json:"name" validate:"omitempty,notblank,max=255"`
	Description   Optional[string]              `json:"description" validate:"omitempty,notblank,max=300"`
	Address       Optional[string]              `json:"address" validate:"omitempty,notblank,max=255"`
	City          Optional[string]              `json:"city" validate:"omitempty,notblank,max=100"`
	Country       Optional[string]              `json:"country" validate:"omitempty,notblank,max=100"`
	PropertyType  Optional[domain.PropertyType] `json:"propertyType"`
	PricePerNight Optional[Price]               `json:"pricePerNight" validate:"omitempty,gt=0"`
	MaxGuests     Optional[int]                 `json:"maxGuests" validate:"omitempty,min=1"`
}

type UserCreationRequest struct {
	FirstName string `json:"firstName" validate:"notblank,max=255"`
	LastName  string `json:"lastName" validate:"notblank,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

type UserPatchRequest struct {
	FirstName Optional[string] `json:"firstName" validate:"omitempty,notblank,max=255"`
	LastName  Optional[string] `json:"lastName" validate:"omitempty,notblank,max=255"`
	Email     Optional[string] `json:"email" validate:"omitempty,notblank,email,max=255"`
}

// BatchRequest is the body of the batch lookup endpoints.
type BatchRequest []uuid.UUID

// Distinct returns the ids in request order with duplicates removed.
func (b BatchRequest) Distinct() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(b))
	ids := make([]uuid.UUID, 0, len(b))

	for _, id := range b {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

type PageRequest struct {
	Page int `json:"page" form:"page,default=0" validate:"min=0"`
	Size int `json:"size" form:"size,default=20" validate:"min=1,max=100"`
}
