package domain

import "errors"

var (
	// ErrAccountNotFound is returned when an account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserNotFound is returned when a user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrTransferLimit is returned when an amount exceeds the transfer ceiling.
	ErrTransferLimit = errors.New("amount exceeds maximum transfer limit")
)
