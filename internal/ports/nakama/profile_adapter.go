package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mindikot/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	profileCollection = "profiles"
)

// NakamaProfileAdapter implements ports.ProfilePort on Nakama's storage
// engine. Records are system-owned and keyed by email so a profile survives
// device reauthentication.
type NakamaProfileAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaProfileAdapter creates a new profile adapter.
func NewNakamaProfileAdapter(nk runtime.NakamaModule) *NakamaProfileAdapter {
	return &NakamaProfileAdapter{nk: nk}
}

// Fetch returns the stored profile for the email.
func (a *NakamaProfileAdapter) Fetch(ctx context.Context, email string) (ports.Profile, error) {
	profile, _, err := a.read(ctx, email)
	return profile, err
}

// Create stores a new profile, failing when the email is already registered.
func (a *NakamaProfileAdapter) Create(ctx context.Context, profile ports.Profile) error {
	if profile.Email == "" {
		return fmt.Errorf("profile email is required")
	}
	// Version "*" only succeeds when no record exists yet.
	if err := a.write(ctx, profile, "*"); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return ports.ErrProfileExists
		}
		return err
	}
	return nil
}

// Update replaces an existing profile, using the stored version so a
// concurrent writer loses cleanly instead of silently clobbering.
func (a *NakamaProfileAdapter) Update(ctx context.Context, profile ports.Profile) error {
	_, version, err := a.read(ctx, profile.Email)
	if err != nil {
		return err
	}
	return a.write(ctx, profile, version)
}

// AddCoins adjusts the balance by delta and returns the new balance.
func (a *NakamaProfileAdapter) AddCoins(ctx context.Context, email string, delta int64) (int64, error) {
	profile, version, err := a.read(ctx, email)
	if err != nil {
		return 0, err
	}
	profile.Coins += delta
	if err := a.write(ctx, profile, version); err != nil {
		return 0, err
	}
	return profile.Coins, nil
}

func (a *NakamaProfileAdapter) read(ctx context.Context, email string) (ports.Profile, string, error) {
	if email == "" {
		return ports.Profile{}, "", fmt.Errorf("profile email is required")
	}
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: profileCollection,
		Key:        email,
	}})
	if err != nil {
		return ports.Profile{}, "", fmt.Errorf("failed to read profile: %w", err)
	}
	if len(objects) == 0 {
		return ports.Profile{}, "", ports.ErrProfileNotFound
	}

	var profile ports.Profile
	if err := json.Unmarshal([]byte(objects[0].Value), &profile); err != nil {
		return ports.Profile{}, "", fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, objects[0].Version, nil
}

func (a *NakamaProfileAdapter) write(ctx context.Context, profile ports.Profile, version string) error {
	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      profileCollection,
		Key:             profile.Email,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return err
		}
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

var _ ports.ProfilePort = (*NakamaProfileAdapter)(nil)
