package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"equipinspect/internal/domain"
)

// TokenRepository provides DB access for API auth tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.AuthToken) error {
	return r.db.WithContext(ctx).Omit("Account").Create(t).Error
}

func (r *TokenRepository) GetByJTI(ctx context.Context, jti string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) GetByAccount(ctx context.Context, accountID int64) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteByAccount removes the account's token and returns its jti, empty
// when the account had none.
func (r *TokenRepository) DeleteByAccount(ctx context.Context, accountID int64) (string, error) {
	var jti string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t domain.AuthToken
		if err := tx.Where("account_id = ?", accountID).First(&t).Error; err != nil {
			if IsNotFound(err) {
				return nil
			}
			return err
		}
		jti = t.JTI
		return tx.Delete(&domain.AuthToken{}, "id = ?", t.ID).Error
	})
	return jti, err
}

// DeleteExpired removes tokens past their expiry and returns their jtis.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	var jtis []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.AuthToken{}).
			Where("expires_at IS NOT NULL AND expires_at <= ?", now).
			Pluck("jti", &jtis).Error; err != nil {
			return err
		}
		if len(jtis) == 0 {
			return nil
		}
		return tx.Where("jti IN ?", jtis).Delete(&domain.AuthToken{}).Error
	})
	return jtis, err
}
