package factory

import (
	"fmt"
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
)

// NewUser builds T with random data; customData overrides individual fields.
// Email is always made unique unless overridden.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	defaults := map[string]any{
		"ID":        uuid.New(),
		"Email":     fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		"CreatedAt": time.Now().UTC(),
		"IsDeleted": false,
	}

	return instance.Build(append([]map[string]any{defaults}, customData...)...)
}
