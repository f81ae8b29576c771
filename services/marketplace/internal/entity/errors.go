package entity

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthRequired  = errors.New("sign-in required")
	ErrForbidden     = errors.New("not the owner of this ad")
	ErrAdNotFound    = errors.New("ad not found")
	ErrQuotaExceeded = errors.New("weekly ad limit reached")
	ErrVerification  = errors.New("invalid verification code")
	ErrPlanNotFound  = errors.New("plan not found")
)
