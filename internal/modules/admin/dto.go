package admin

import (
	"time"

	"equipinspect/internal/domain"
)

type CreateAccountRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"omitempty,email,max=254"`
	FirstName   string `json:"first_name" binding:"max=150"`
	LastName    string `json:"last_name" binding:"max=150"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UpdateAccountRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type AccountDTO struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewAccountDTO(a domain.Account) AccountDTO {
	return AccountDTO{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		IsActive:    a.IsActive,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
		LastLogin:   a.LastLogin,
		CreatedAt:   a.CreatedAt,
	}
}
