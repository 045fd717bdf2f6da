package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrNotesTooLong        = errors.New("notes exceed maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrBackupNotFound      = errors.New("backup not found")
)

// Validation constants
const (
	MinPasswordLength = 8
	MaxEmailLength    = 320
)
