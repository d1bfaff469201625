package identity

import (
	"context"

	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// UserRepository persists users
type UserRepository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
}
