package port

import (
	"context"

	"github.com/google/uuid"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
)

type PropertyRepository interface {
	Create(ctx context.Context, property domain.Property) (domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error)
	GetPage(ctx context.Context, page, size int) ([]domain.Property, int, error)
	// Update loads the row, applies mutate and writes it back in one transaction.
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Property) error) (domain.Property, error)
}

type PropertyService interface {
	Create(ctx context.Context, req request.PropertyCreationRequest) (response.PropertyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (response.PropertyResponse, error)
	Patch(ctx context.Context, id uuid.UUID, req request.PropertyPatchRequest) (response.PropertyResponse, error)
	GetAll(ctx context.Context, page, size int) (response.PageResponse[response.PropertyResponse], error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]response.PropertyResponse, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]response.PropertyResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (response.PropertyResponse, error)
}
