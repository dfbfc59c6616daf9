package util

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidPoints     = errors.New("points must not be negative")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrModuleNotFound    = errors.New("module not found")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrGenerationFailed  = errors.New("session generation failed")
	ErrAIUnavailable     = errors.New("AI service not configured")
)
