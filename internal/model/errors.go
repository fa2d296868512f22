package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email belongs to another user")

	// Coin errors
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrBalanceLimit      = errors.New("balance would exceed the maximum")

	// Round errors
	ErrRoundNotFound   = errors.New("round not found")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrRoundOver       = errors.New("round is already over")
	ErrNotYourTurn     = errors.New("not the player's turn")
	ErrDeckEmpty       = errors.New("draw pile is empty")
	ErrCardNotInHand   = errors.New("card is not in hand")

	// Access errors
	ErrForbidden = errors.New("admin role required")
)
