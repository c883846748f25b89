package auth

import (
	"context"
	"time"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/jwt"
)

// AccountRepository is the part of the account store auth needs.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	ListActive(ctx context.Context) ([]domain.Account, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// TokenRepository stores one auth token row per account.
type TokenRepository interface {
	Create(ctx context.Context, t *domain.AuthToken) error
	GetByJTI(ctx context.Context, jti string) (*domain.AuthToken, error)
	GetByAccount(ctx context.Context, accountID int64) (*domain.AuthToken, error)
	DeleteByAccount(ctx context.Context, accountID int64) (string, error)
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

type tokenSigner interface {
	GenerateToken(sub jwt.Subject) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
