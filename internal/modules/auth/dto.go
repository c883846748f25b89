package auth

import "equipinspect/internal/domain"

// LoginRequest arrives as JSON or as a form.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// UserResponse is the account as shown to its owner.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func NewUserResponse(a *domain.Account) UserResponse {
	return UserResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
	}
}
