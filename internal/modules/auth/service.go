package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/cache"
	"equipinspect/internal/pkg/jwt"
	"equipinspect/internal/repository"
)

// Options tunes token lifetime. A zero TokenTTL issues tokens that live
// until logout.
type Options struct {
	TokenTTL time.Duration
	CacheTTL time.Duration
}

// Service contains all business logic for authentication
type Service struct {
	accounts AccountRepository
	tokens   TokenRepository
	jwt      tokenSigner
	cache    cache.TokenCache
	opts     Options
	log      *zap.Logger
	now      func() time.Time
}

type LoginResult struct {
	Account *domain.Account
	Token   string
}

func NewService(
	accounts AccountRepository,
	tokens TokenRepository,
	signer tokenSigner,
	tokenCache cache.TokenCache,
	opts Options,
	log *zap.Logger,
) *Service {
	if tokenCache == nil {
		tokenCache = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		jwt:      signer,
		cache:    tokenCache,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// Login checks the credentials and returns the account's token, creating
// one when the account has none.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	token, _, err := s.IssueToken(ctx, account)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.log.Warn("failed to record last login", zap.Int64("account_id", account.ID), zap.Error(err))
	} else {
		account.LastLogin = &now
	}
	return &LoginResult{Account: account, Token: token}, nil
}

// IssueToken returns the account's live token, replacing an expired one.
// created reports whether a new token row was written.
func (s *Service) IssueToken(ctx context.Context, account *domain.Account) (token string, created bool, err error) {
	row, err := s.tokens.GetByAccount(ctx, account.ID)
	switch {
	case err == nil && !row.Expired(s.now()):
		token, err = s.sign(account, row)
		return token, false, err
	case err == nil:
		if err := s.Revoke(ctx, account.ID); err != nil {
			return "", false, err
		}
	case !repository.IsNotFound(err):
		return "", false, fmt.Errorf("load token: %w", err)
	}

	now := s.now().UTC().Truncate(time.Second)
	row = &domain.AuthToken{
		AccountID: account.ID,
		JTI:       uuid.NewString(),
		IssuedAt:  now,
	}
	if s.opts.TokenTTL > 0 {
		exp := now.Add(s.opts.TokenTTL)
		row.ExpiresAt = &exp
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		if !repository.IsDuplicate(err) {
			return "", false, fmt.Errorf("create token: %w", err)
		}
		// a concurrent login won the insert
		row, err = s.tokens.GetByAccount(ctx, account.ID)
		if err != nil {
			return "", false, fmt.Errorf("load token: %w", err)
		}
		token, err = s.sign(account, row)
		return token, false, err
	}

	s.log.Info("auth token issued", zap.Int64("account_id", account.ID), zap.String("username", account.Username))
	token, err = s.sign(account, row)
	return token, true, err
}

func (s *Service) sign(account *domain.Account, row *domain.AuthToken) (string, error) {
	return s.jwt.GenerateToken(jwt.Subject{
		AccountID: account.ID,
		Username:  account.Username,
		IsStaff:   account.IsStaff,
		JTI:       row.JTI,
		IssuedAt:  row.IssuedAt,
		ExpiresAt: row.ExpiresAt,
	})
}

// Authenticate resolves a token to its active account. It implements
// middleware.Authenticator.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	accountID, err := s.cache.Get(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("token cache read failed", zap.Error(err))
		}
		accountID, err = s.lookup(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
	}
	if accountID != claims.AccountID {
		return nil, ErrInvalidToken
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrInvalidToken
	}
	return account, nil
}

// lookup reads the token row and caches it for at most CacheTTL.
func (s *Service) lookup(ctx context.Context, jti string) (int64, error) {
	row, err := s.tokens.GetByJTI(ctx, jti)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}
	now := s.now()
	if row.Expired(now) {
		return 0, ErrInvalidToken
	}

	ttl := s.opts.CacheTTL
	if row.ExpiresAt != nil {
		if left := row.ExpiresAt.Sub(now); left < ttl {
			ttl = left
		}
	}
	if ttl > 0 {
		if err := s.cache.Set(ctx, jti, row.AccountID, ttl); err != nil {
			s.log.Warn("token cache write failed", zap.Error(err))
		}
	}
	return row.AccountID, nil
}

// Revoke deletes the account's token. Accounts without one are left alone.
func (s *Service) Revoke(ctx context.Context, accountID int64) error {
	jti, err := s.tokens.DeleteByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if jti == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, jti); err != nil {
		s.log.Warn("token cache evict failed", zap.Error(err))
	}
	s.log.Info("auth token revoked", zap.Int64("account_id", accountID))
	return nil
}

// IssuedToken is one token written by IssueMissing.
type IssuedToken struct {
	Username string
	Token    string
}

// IssueMissing creates a token for every active account that has none.
// It returns the new tokens and the number of accounts holding a token afterwards.
func (s *Service) IssueMissing(ctx context.Context) ([]IssuedToken, int, error) {
	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	var issued []IssuedToken
	for i := range accounts {
		token, created, err := s.IssueToken(ctx, &accounts[i])
		if err != nil {
			return issued, 0, fmt.Errorf("issue token for %s: %w", accounts[i].Username, err)
		}
		if created {
			issued = append(issued, IssuedToken{Username: accounts[i].Username, Token: token})
		}
	}
	return issued, len(accounts), nil
}

// CleanupExpired removes expired tokens and returns how many were deleted.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	jtis, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	if len(jtis) > 0 {
		if err := s.cache.Delete(ctx, jtis...); err != nil {
			s.log.Warn("token cache evict failed", zap.Error(err))
		}
	}
	return len(jtis), nil
}

// HashPassword returns the bcrypt hash stored for an account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
