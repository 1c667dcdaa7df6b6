package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	IsDeleted bool
}

func (u *User) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"is_deleted": u.IsDeleted,
	}
}
