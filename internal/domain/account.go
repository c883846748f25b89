package domain

import "time"

// Account is a system login. Personnel records are separate.
type Account struct {
	ID           int64      `gorm:"column:id;primaryKey" json:"id"`
	Username     string     `gorm:"column:username;size:150;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"column:email;size:254" json:"email"`
	FirstName    string     `gorm:"column:first_name;size:150" json:"first_name"`
	LastName     string     `gorm:"column:last_name;size:150" json:"last_name"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	IsActive     bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"column:is_superuser;not null;default:false" json:"is_superuser"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Account) TableName() string { return "accounts" }

// AuthToken is the single live API token of an account. The token string
// handed to clients is derived from JTI and IssuedAt.
type AuthToken struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	AccountID int64      `gorm:"column:account_id;not null;uniqueIndex"`
	JTI       string     `gorm:"column:jti;size:64;not null;uniqueIndex"`
	IssuedAt  time.Time  `gorm:"column:issued_at;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (AuthToken) TableName() string { return "auth_tokens" }

func (t AuthToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
