package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"equipinspect/internal/domain"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	a.Username = strings.TrimSpace(a.Username)
	a.Email = strings.TrimSpace(strings.ToLower(a.Email))
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account
	tx := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&a)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.db, &domain.Account{}, "username = ?", strings.TrimSpace(username))
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).Order("username ASC").Find(&accounts).Error
	return accounts, err
}

// ListActive returns active accounts in id order.
func (r *AccountRepository) ListActive(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.Email = strings.TrimSpace(strings.ToLower(a.Email))
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}
