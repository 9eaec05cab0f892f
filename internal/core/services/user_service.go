package services

import (
	"context"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
	portssvc "github.com/sproutworks/nursery_erp_backend/internal/core/ports/services"
)

// userService is a thin read facade over the users table for authentication.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}
