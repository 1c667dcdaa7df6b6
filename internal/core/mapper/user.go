package mapper

import (
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
)

func ToUserResponse(u domain.User) response.UserResponse {
	return response.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: FormatTimestamp(u.CreatedAt),
		IsDeleted: u.IsDeleted,
	}
}

func ToUserResponses(users []domain.User) []response.UserResponse {
	return mapAll(users, ToUserResponse)
}

func UserFromCreation(req request.UserCreationRequest) domain.User {
	return domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsDeleted: false,
	}
}

func ApplyUserPatch(u *domain.User, req request.UserPatchRequest) {
	if req.FirstName.Set {
		u.FirstName = req.FirstName.Value
	}

	if req.LastName.Set {
		u.LastName = req.LastName.Value
	}

	if req.Email.Set {
		u.Email = req.Email.Value
	}
}
