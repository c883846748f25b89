package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/cache"
	"equipinspect/internal/pkg/jwt"
	"equipinspect/internal/repository"
	"equipinspect/internal/testutil"
)

type mockTokenCache struct {
	mock.Mock
}

func (m *mockTokenCache) Get(ctx context.Context, jti string) (int64, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenCache) Set(ctx context.Context, jti string, accountID int64, ttl time.Duration) error {
	return m.Called(ctx, jti, accountID, ttl).Error(0)
}

func (m *mockTokenCache) Delete(ctx context.Context, jti ...string) error {
	return m.Called(ctx, jti).Error(0)
}

func newTestService(t *testing.T, tc cache.TokenCache, opts Options) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewService(
		repository.NewAccountRepository(db),
		repository.NewTokenRepository(db),
		jwt.New("test-secret"),
		tc,
		opts,
		nil,
	)
	return svc, db
}

func createAccount(t *testing.T, db *gorm.DB, username, password string, active bool) *domain.Account {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	a := &domain.Account{Username: username, Email: username + "@example.com", PasswordHash: hash, IsActive: active}
	require.NoError(t, repository.NewAccountRepository(db).Create(context.Background(), a))
	return a
}

func TestLogin_GetOrCreateToken(t *testing.T) {
	svc, db := newTestService(t, nil, Options{})
	createAccount(t, db, "inspector", "secret1", true)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{Username: "inspector", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.NotNil(t, first.Account.LastLogin)

	second, err := svc.Login(ctx, LoginRequest{Username: "inspector", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)

	account, err := svc.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "inspector", account.Username)
}

func TestLogin_Failures(t *testing.T) {
	svc, db := newTestService(t, nil, Options{})
	createAccount(t, db, "inspector", "secret1", true)
	createAccount(t, db, "retired", "secret1", false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  LoginRequest
		want error
	}{
		{"missing password", LoginRequest{Username: "inspector"}, ErrMissingCredentials},
		{"missing username", LoginRequest{Password: "x"}, ErrMissingCredentials},
		{"unknown user", LoginRequest{Username: "nobody", Password: "x"}, ErrInvalidCredentials},
		{"wrong password", LoginRequest{Username: "inspector", Password: "nope"}, ErrInvalidCredentials},
		{"inactive", LoginRequest{Username: "retired", Password: "secret1"}, ErrAccountDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRevoke_InvalidatesToken(t *testing.T) {
	svc, db := newTestService(t, nil, Options{})
	account := createAccount(t, db, "inspector", "secret1", true)
	ctx := context.Background()

	token, created, err := svc.IssueToken(ctx, account)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, svc.Revoke(ctx, account.ID))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	fresh, created, err := svc.IssueToken(ctx, account)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, token, fresh)
}

func TestAuthenticate_RejectsGarbageAndInactive(t *testing.T) {
	svc, db := newTestService(t, nil, Options{})
	account := createAccount(t, db, "inspector", "secret1", true)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, _, err := svc.IssueToken(ctx, account)
	require.NoError(t, err)

	account.IsActive = false
	require.NoError(t, repository.NewAccountRepository(db).Update(ctx, account))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueToken_ReplacesExpired(t *testing.T) {
	svc, db := newTestService(t, nil, Options{TokenTTL: time.Hour})
	account := createAccount(t, db, "inspector", "secret1", true)
	ctx := context.Background()

	start := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	old, _, err := svc.IssueToken(ctx, account)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	fresh, created, err := svc.IssueToken(ctx, account)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, old, fresh)
}

func TestAuthenticate_UsesCache(t *testing.T) {
	tc := new(mockTokenCache)
	svc, db := newTestService(t, tc, Options{CacheTTL: time.Minute})
	account := createAccount(t, db, "inspector", "secret1", true)
	ctx := context.Background()

	token, _, err := svc.IssueToken(ctx, account)
	require.NoError(t, err)
	row, err := repository.NewTokenRepository(db).GetByAccount(ctx, account.ID)
	require.NoError(t, err)

	tc.On("Get", mock.Anything, row.JTI).Return(int64(0), cache.ErrMiss).Once()
	tc.On("Set", mock.Anything, row.JTI, account.ID, time.Minute).Return(nil).Once()
	_, err = svc.Authenticate(ctx, token)
	require.NoError(t, err)

	tc.On("Get", mock.Anything, row.JTI).Return(account.ID, nil).Once()
	_, err = svc.Authenticate(ctx, token)
	require.NoError(t, err)

	tc.On("Delete", mock.Anything, []string{row.JTI}).Return(nil).Once()
	require.NoError(t, svc.Revoke(ctx, account.ID))
	tc.AssertExpectations(t)
}

func TestIssueMissingAndCleanup(t *testing.T) {
	svc, db := newTestService(t, nil, Options{TokenTTL: time.Hour})
	createAccount(t, db, "a", "pw", true)
	createAccount(t, db, "b", "pw", true)
	createAccount(t, db, "c", "pw", false)
	ctx := context.Background()

	issued, total, err := svc.IssueMissing(ctx)
	require.NoError(t, err)
	assert.Len(t, issued, 2)
	assert.Equal(t, 2, total)

	issued, _, err = svc.IssueMissing(ctx)
	require.NoError(t, err)
	assert.Empty(t, issued)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
