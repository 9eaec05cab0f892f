package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a repository for back-office logins.
func NewUserRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// FindUserByUsername returns an active user by login name.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var u domain.User
	err := r.Pool.QueryRow(ctx, `
		SELECT user_id, username, name, password_hash, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM users
		WHERE username = $1 AND is_active;
	`, username).Scan(
		&u.UserID,
		&u.Username,
		&u.Name,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+username, err)
	}
	return &u, nil
}
