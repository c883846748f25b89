package auth

import (
	"errors"

	"equipinspect/internal/middleware"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = middleware.ErrInvalidToken
)

const (
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid username or password"
	msgAccountDisabled    = "User account is disabled"
	msgInvalidJSON        = "Invalid JSON data"
	msgLoginSuccessful    = "Login successful"
	msgLogoutSuccessful   = "Logout successful"
)
