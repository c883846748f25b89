package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret []byte
}

type Claims struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	IsStaff   bool   `json:"is_staff"`
	jwtlib.RegisteredClaims
}

// Subject is what a token is issued for.
type Subject struct {
	AccountID int64
	Username  string
	IsStaff   bool
	JTI       string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

func New(secret string) *Service {
	return &Service{
		secret: []byte(secret),
	}
}

// GenerateToken signs the subject. Equal subjects always produce the same
// string, so a stored token row can be turned back into its token.
func (s *Service) GenerateToken(sub Subject) (string, error) {
	claims := Claims{
		AccountID: sub.AccountID,
		Username:  sub.Username,
		IsStaff:   sub.IsStaff,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:       sub.JTI,
			IssuedAt: jwtlib.NewNumericDate(sub.IssuedAt),
		},
	}
	if sub.ExpiresAt != nil {
		claims.ExpiresAt = jwtlib.NewNumericDate(*sub.ExpiresAt)
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ID == "" || claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
