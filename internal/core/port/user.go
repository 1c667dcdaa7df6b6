package port

import (
	"context"

	"github.com/google/uuid"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	GetPage(ctx context.Context, page, size int) ([]domain.User, int, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.User) error) (domain.User, error)
}

type UserService interface {
	Create(ctx context.Context, req request.UserCreationRequest) (response.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (response.UserResponse, error)
	GetByEmail(ctx context.Context, email string) (response.UserResponse, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]response.UserResponse, error)
	GetAll(ctx context.Context, page, size int) (response.PageResponse[response.UserResponse], error)
	Patch(ctx context.Context, id uuid.UUID, req request.UserPatchRequest) (response.UserResponse, error)
	SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) (response.UserResponse, error)
}
