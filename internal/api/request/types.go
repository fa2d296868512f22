package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DiscardRequest is the request body for discarding a card
type DiscardRequest struct {
	CardID string `json:"card_id" validate:"required"`
}

// CoinAdjustmentRequest is the request body for admin give/take
type CoinAdjustmentRequest struct {
	Amount int `json:"amount" validate:"required,gt=0,lte=1000000000"`
}
