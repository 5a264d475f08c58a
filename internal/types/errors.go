package types

import "fmt"

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Session construction errors
	ErrInvalidOptions   ErrorCode = "INVALID_OPTIONS"
	ErrTooManyPlayers   ErrorCode = "TOO_MANY_PLAYERS"
	ErrNotEnoughPlayers ErrorCode = "NOT_ENOUGH_PLAYERS"
	ErrTooManyBots      ErrorCode = "TOO_MANY_BOTS"
	ErrNotEnoughBots    ErrorCode = "NOT_ENOUGH_BOTS"
	ErrNoGameplayTokens ErrorCode = "NO_GAMEPLAY_TOKENS"

	// Session runtime errors
	ErrSessionClosed  ErrorCode = "SESSION_CLOSED"
	ErrSessionNotSent ErrorCode = "SESSION_NOT_SENT"
	ErrNotPlayerTurn  ErrorCode = "NOT_PLAYER_TURN"
	ErrInvalidMove    ErrorCode = "INVALID_MOVE"
	ErrGameNotFound   ErrorCode = "GAME_NOT_FOUND"
	ErrGameInProgress ErrorCode = "GAME_IN_PROGRESS"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrNetworkError  ErrorCode = "NETWORK_ERROR"
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

// As is a helper function to safely type assert an error to a GameError
func As(err error, target **GameError) bool {
	if target == nil {
		return false
	}
	if gameErr, ok := err.(*GameError); ok {
		*target = gameErr
		return true
	}
	return false
}
