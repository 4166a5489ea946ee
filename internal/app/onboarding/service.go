package onboarding

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"mindikot/internal/ports"
)

const (
	defaultStartingCoins = 10000
)

// Result captures the outcome of ensuring a profile exists.
type Result struct {
	// Created is true when a fresh profile was stored for this email.
	Created bool
	// Profile is the stored profile, whether fresh or pre-existing.
	Profile ports.Profile
}

// Service handles post-auth onboarding for players.
type Service struct {
	profiles      ports.ProfilePort
	rng           *rand.Rand
	startingCoins int64
}

// NewService constructs an onboarding service with required ports.
// profiles must be non-nil; rng may be nil to use a time-seeded default;
// startingCoins <= 0 uses the default grant.
func NewService(profiles ports.ProfilePort, rng *rand.Rand, startingCoins int64) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if startingCoins <= 0 {
		startingCoins = defaultStartingCoins
	}
	return &Service{
		profiles:      profiles,
		rng:           rng,
		startingCoins: startingCoins,
	}
}

// EnsureProfile returns the profile for email, creating one with the
// starting coin grant when none exists. name may be empty, in which case a
// generated friendly name is used for new profiles.
// Returns an error when the store cannot be read or written.
func (s *Service) EnsureProfile(ctx context.Context, email, name string) (Result, error) {
	if s.profiles == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	existing, err := s.profiles.Fetch(ctx, email)
	if err == nil {
		return Result{Profile: existing}, nil
	}
	if !errors.Is(err, ports.ErrProfileNotFound) {
		return Result{}, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if name == "" {
		name = s.generateFriendlyName()
	}
	profile := ports.Profile{
		Email: email,
		Name:  name,
		Coins: s.startingCoins,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		// Another session may have created the profile between the fetch
		// and the create.
		if errors.Is(err, ports.ErrProfileExists) {
			existing, fetchErr := s.profiles.Fetch(ctx, email)
			if fetchErr != nil {
				return Result{}, fmt.Errorf("failed to fetch profile: %w", fetchErr)
			}
			return Result{Profile: existing}, nil
		}
		return Result{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return Result{Created: true, Profile: profile}, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
