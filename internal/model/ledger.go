package model

import "time"

// LedgerKind describes why a user's balance changed
type LedgerKind string

const (
	LedgerSignupBonus LedgerKind = "signup_bonus"
	LedgerEntryFee    LedgerKind = "entry_fee"
	LedgerWinnings    LedgerKind = "winnings"
	LedgerAdminGrant  LedgerKind = "admin_grant"
	LedgerAdminDeduct LedgerKind = "admin_deduct"
)

// LedgerEntry records a single change to a user's coin balance
type LedgerEntry struct {
	ID           string
	UserID       UserID
	Kind         LedgerKind
	Amount       int // signed: negative for debits
	BalanceAfter int
	RoundID      RoundID // set for entry fees and winnings
	CreatedAt    time.Time
}
