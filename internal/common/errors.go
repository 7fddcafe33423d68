package common

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid subscription status transition")
	ErrPlanNotConfigured    = errors.New("subscription plan not configured")
	ErrPlanInactive         = errors.New("subscription plan is not active")
	ErrInsufficientBalance  = errors.New("insufficient account balance")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrValidation           = errors.New("validation failed")
)
