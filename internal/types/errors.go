package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Round state errors
	ErrInvalidState      ErrorCode = "INVALID_STATE"
	ErrTiebreakerDecided ErrorCode = "TIEBREAKER_DECIDED"
	ErrNotEnoughPlayers  ErrorCode = "NOT_ENOUGH_PLAYERS"

	// Player errors
	ErrPlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"
	ErrNotPlayerTurn  ErrorCode = "NOT_PLAYER_TURN"
	ErrDuplicateName  ErrorCode = "DUPLICATE_NAME"
	ErrReservedName   ErrorCode = "RESERVED_NAME"

	// Betting errors
	ErrInvalidBet                 ErrorCode = "INVALID_BET"
	ErrInsufficientChipsForDouble ErrorCode = "INSUFFICIENT_CHIPS_FOR_DOUBLE"
	ErrInsuranceUnavailable       ErrorCode = "INSURANCE_UNAVAILABLE"

	// Action errors
	ErrInvalidAction   ErrorCode = "INVALID_ACTION"
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// System errors
	ErrEmptyShoe     ErrorCode = "EMPTY_SHOE"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a GameError with the same code, so sentinel
// errors match wrapped copies through errors.Is.
func (e *GameError) Is(target error) bool {
	var other *GameError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if err == nil {
		return false
	}
	if ok := As(err, &gameErr); !ok {
		return false
	}
	return gameErr.Code == code
}

// As finds the first GameError in err's chain
func As(err error, target **GameError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}
