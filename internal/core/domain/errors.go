package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindOwnerNotFound
	KindValidation
	KindConflict
	KindUnavailable
	KindDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindOwnerNotFound:
		return "owner_not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// Error is the tagged error every service operation returns. The HTTP layer
// translates it by Kind only.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	if !ok {
		return false
	}

	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrOwnerNotFound = &Error{Kind: KindOwnerNotFound}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrUnavailable   = &Error{Kind: KindUnavailable}
	ErrDependency    = &Error{Kind: KindDependency}
)

func KindOf(err error) ErrorKind {
	var e *Error

	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

func NewPropertyNotFound(id uuid.UUID) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Property with id %s not found", id)}
}

func NewPropertiesNotFound(ids []uuid.UUID) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Property with ids: %s not found", joinIDs(ids))}
}

func NewUserNotFound(id uuid.UUID) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("User with id %s not found", id)}
}

func NewUsersNotFound(ids []uuid.UUID) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Users with ids: %s not found", joinIDs(ids))}
}

func NewUserEmailNotFound(email string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("User with email %s not found", email)}
}

func NewOwnerNotFound(id uuid.UUID) *Error {
	return &Error{Kind: KindOwnerNotFound, Message: fmt.Sprintf("Owner with id %s not found", id)}
}

func NewUserServiceUnavailable(cause error) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Message: "Failed to validate owner: user-service is unavailable",
		Err:     cause,
	}
}

func NewDependencyError(cause error) *Error {
	return &Error{
		Kind:    KindDependency,
		Message: "Error communicating with dependent service",
		Err:     cause,
	}
}

func NewEmailConflict(email string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("User with email %s already exists", email),
		Err:     cause,
	}
}

func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Invalid request parameters", Fields: fields}
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))

	for _, id := range ids {
		parts = append(parts, id.String())
	}

	return strings.Join(parts, ", ")
}
