package models

import "errors"

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrPaymentCompleted     = errors.New("payment already completed")
	ErrInvalidSignature     = errors.New("invalid payment signature")
)
