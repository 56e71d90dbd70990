package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Account errors
	ErrMsgAccountAlreadyExists  = "account already exists"
	ErrMsgNoAccount             = "no account"
	ErrMsgSameSenderAndReceiver = "sender and receiver are the same"

	// Item errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgInvalidItem  = "invalid item"

	// Duel errors
	ErrMsgMissingWeapon = "no weapon equipped"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Storage errors
	ErrMsgPersistence = "failed to persist registry"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Account errors
	ErrAccountAlreadyExists  = errors.New(ErrMsgAccountAlreadyExists)
	ErrNoAccount             = errors.New(ErrMsgNoAccount)
	ErrSameSenderAndReceiver = errors.New(ErrMsgSameSenderAndReceiver)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrInvalidItem  = errors.New(ErrMsgInvalidItem)

	// Duel errors
	ErrMissingWeapon = errors.New(ErrMsgMissingWeapon)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Storage errors. Only this class is fatal for the operation that hit it.
	ErrPersistence = errors.New(ErrMsgPersistence)
)
