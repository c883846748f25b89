package admin

import (
	"context"

	"equipinspect/internal/domain"
)

type AccountRepository interface {
	List(ctx context.Context) ([]domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, a *domain.Account) error
}

// TokenRevoker deletes an account's API token.
type TokenRevoker interface {
	Revoke(ctx context.Context, accountID int64) error
}
