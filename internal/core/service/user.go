package service

import (
	"context"

	"github.com/google/uuid"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/mapper"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
	"bookingapp/internal/core/port"
	tel "bookingapp/internal/core/telemetry"
)

const userServiceName = "UserService"

type UserService struct {
	repo      port.UserRepository
	telemetry port.Telemetry
}

func NewUserService(repo port.UserRepository, telemetry port.Telemetry) *UserService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserService{repo: repo, telemetry: telemetry}
}

func (us *UserService) Create(ctx context.Context, req request.UserCreationRequest) (response.UserResponse, error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "Create", nil)

	saved, err := us.repo.Create(ctx, mapper.UserFromCreation(req))

	if err != nil {
		return response.UserResponse{}, op.End(err)
	}

	us.telemetry.RecordBusinessEvent(ctx, "user_created", "user", saved.ID.String(), nil)

	op.End(nil)
	return mapper.ToUserResponse(saved), nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (response.UserResponse, error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "GetByID", map[string]interface{}{
		"user.id": id.String(),
	})

	user, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return response.UserResponse{}, op.End(err)
	}

	op.End(nil)
	return mapper.ToUserResponse(user), nil
}

func (us *UserService) GetByEmail(ctx context.Context, email string) (response.UserResponse, error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "GetByEmail", nil)

	user, err := us.repo.GetByEmail(ctx, email)

	if err != nil {
		return response.UserResponse{}, op.End(err)
	}

	op.End(nil)
	return mapper.ToUserResponse(user), nil
}

// GetByIDs includes logically deleted users; callers read isDeleted.
func (us *UserService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]response.UserResponse, error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "GetByIDs", map[string]interface{}{
		"batch.size": len(ids),
	})

	users, err := us.repo.GetAllByIDs(ctx, ids)

	if err != nil {
		return nil, op.End(err)
	}

	if len(users) == 0 {
		return nil, op.End(domain.NewUsersNotFound(ids))
	}

	op.End(nil)
	return mapper.ToUserResponses(users), nil
}

func (us *UserService) GetAll(ctx context.Context, page, size int) (response.PageResponse[response.UserResponse], error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "GetAll", map[string]interface{}{
		"pagination.page": page,
		"pagination.size": size,
	})

	users, total, err := us.repo.GetPage(ctx, page, size)

	if err != nil {
		return response.PageResponse[response.UserResponse]{}, op.End(err)
	}

	op.End(nil)
	return mapper.ToPage(users, page, size, total, mapper.ToUserResponse), nil
}

func (us *UserService) Patch(ctx context.Context, id uuid.UUID, req request.UserPatchRequest) (response.UserResponse, error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "Patch", map[string]interface{}{
		"user.id": id.String(),
	})

	updated, err := us.repo.Update(ctx, id, func(u *domain.User) error {
		mapper.ApplyUserPatch(u, req)
		return nil
	})

	if err != nil {
		return response.UserResponse{}, op.End(err)
	}

	us.telemetry.RecordBusinessEvent(ctx, "user_updated", "user", id.String(), nil)

	op.End(nil)
	return mapper.ToUserResponse(updated), nil
}

// SetDeleted flips the logical deletion flag. Rows are never removed.
func (us *UserService) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) (response.UserResponse, error) {
	ctx, op := tel.StartServiceOperation(us.telemetry, ctx, userServiceName, "SetDeleted", map[string]interface{}{
		"user.id":      id.String(),
		"user.deleted": deleted,
	})

	updated, err := us.repo.Update(ctx, id, func(u *domain.User) error {
		u.IsDeleted = deleted
		return nil
	})

	if err != nil {
		return response.UserResponse{}, op.End(err)
	}

	event := "user_restored"

	if deleted {
		event = "user_deleted"
	}

	us.telemetry.RecordBusinessEvent(ctx, event, "user", id.String(), nil)

	op.End(nil)
	return mapper.ToUserResponse(updated), nil
}
