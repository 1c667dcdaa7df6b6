package port

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type RemoteKind int

const (
	RemoteUnknown RemoteKind = iota
	RemoteNotFound
	RemoteUnavailable
)

func (k RemoteKind) String() string {
	switch k {
	case RemoteNotFound:
		return "not_found"
	case RemoteUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RemoteError is the classified outcome of a failed call to another service.
// Callers branch on Kind and never on transport details.
type RemoteError struct {
	Kind   RemoteKind
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote call failed (%s, status %d): %v", e.Kind, e.Status, e.Err)
	}

	return fmt.Sprintf("remote call failed (%s): %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type RemoteUser struct {
	ID        uuid.UUID
	Email     string
	IsDeleted bool
}

// UserDirectory looks users up in the user service.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (RemoteUser, error)
}
