package services

import (
	"context"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// UserSvcFacade exposes login lookup for the auth handler.
type UserSvcFacade interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
