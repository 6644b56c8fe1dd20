package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID       uuid.UUID
	Nome         string
	Email        string
	Departamento domain.Departamento
	IsAdmin      bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// InDepartamento checks if the user belongs to one of the given departments.
// Admins pass every department check.
func (u *UserContext) InDepartamento(departamentos ...domain.Departamento) bool {
	if u.IsAdmin || u.Departamento == domain.DepartamentoAdmin {
		return true
	}
	for _, d := range departamentos {
		if u.Departamento == d {
			return true
		}
	}
	return false
}
