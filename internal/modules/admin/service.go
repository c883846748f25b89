package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"equipinspect/internal/domain"
	"equipinspect/internal/modules/auth"
	"equipinspect/internal/repository"
)

const msgUsernameTaken = "A user with that username already exists."

// ErrSuperuserRequired is returned when a staff account without superuser
// rights tries to grant them or to change a superuser account.
var ErrSuperuserRequired = errors.New("only superusers can grant superuser status or change superuser accounts")

type Service struct {
	accounts AccountRepository
	tokens   TokenRevoker
	log      *zap.Logger
}

func NewService(accounts AccountRepository, tokens TokenRevoker, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{accounts: accounts, tokens: tokens, log: log}
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// CreateAccount adds an active login. actor is nil for command line use.
func (s *Service) CreateAccount(ctx context.Context, actor *domain.Account, req CreateAccountRequest) (*domain.Account, error) {
	if req.IsSuperuser && !privileged(actor) {
		return nil, ErrSuperuserRequired
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.FieldErrors{"username": "This field may not be blank."}
	}
	taken, err := s.accounts.UsernameTaken(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.FieldErrors{"username": msgUsernameTaken}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &domain.Account{
		Username:     username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      req.IsStaff || req.IsSuperuser,
		IsSuperuser:  req.IsSuperuser,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.FieldErrors{"username": msgUsernameTaken}
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", zap.Int64("account_id", a.ID), zap.String("username", a.Username))
	return a, nil
}

// UpdateAccount applies the given fields. Deactivating an account or
// changing its password revokes its token. Superuser accounts can only be
// changed by a superuser.
func (s *Service) UpdateAccount(ctx context.Context, actor *domain.Account, id int64, req UpdateAccountRequest) (*domain.Account, error) {
	if req.IsSuperuser != nil && *req.IsSuperuser && !privileged(actor) {
		return nil, ErrSuperuserRequired
	}

	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsSuperuser && !privileged(actor) {
		return nil, ErrSuperuserRequired
	}

	revoke := false
	if req.Email != nil {
		a.Email = *req.Email
	}
	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		a.PasswordHash = hash
		revoke = true
	}
	if req.IsActive != nil {
		if a.IsActive && !*req.IsActive {
			revoke = true
		}
		a.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		a.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		a.IsSuperuser = *req.IsSuperuser
	}

	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if revoke {
		if err := s.tokens.Revoke(ctx, a.ID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// RevokeToken deletes the account's token so its holder must log in again.
func (s *Service) RevokeToken(ctx context.Context, actor *domain.Account, id int64) error {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.IsSuperuser && !privileged(actor) {
		return ErrSuperuserRequired
	}
	return s.tokens.Revoke(ctx, id)
}

// privileged reports whether actor may touch superuser accounts. A nil actor
// is the command line.
func privileged(actor *domain.Account) bool {
	return actor == nil || actor.IsSuperuser
}
