package repositories

import (
	"context"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// UserRepositoryFacade looks up back-office logins for authentication.
type UserRepositoryFacade interface {
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
