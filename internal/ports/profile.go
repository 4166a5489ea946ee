package ports

import (
	"context"
	"errors"
)

// Profile is the persistent player record, keyed by email.
type Profile struct {
	Email  string `json:"email_id"`
	Name   string `json:"user_name"`
	Phone  int64  `json:"phone_no"`
	Gender string `json:"gender"`
	Coins  int64  `json:"coins"`
	Image  string `json:"image"`
}

var (
	// ErrProfileNotFound is returned when no profile exists for the email.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned on create when the email is taken.
	ErrProfileExists = errors.New("profile already exists")
)

// ProfilePort defines the interface to the player profile store.
type ProfilePort interface {
	// Fetch returns the profile for the email, or ErrProfileNotFound.
	Fetch(ctx context.Context, email string) (Profile, error)

	// Create stores a new profile, or ErrProfileExists when the email is
	// already registered.
	Create(ctx context.Context, profile Profile) error

	// Update replaces every field of an existing profile, or
	// ErrProfileNotFound.
	Update(ctx context.Context, profile Profile) error

	// AddCoins adjusts the balance by delta and returns the new balance,
	// or ErrProfileNotFound.
	AddCoins(ctx context.Context, email string, delta int64) (int64, error)
}
