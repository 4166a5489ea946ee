package ports

import "context"

// WalletUpdate represents a single coin change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing table stakes.
type EconomyPort interface {
	// GetBalance retrieves the current coin balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes atomically.
	// This is used at game complete to settle the table stakes.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
