package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type StakeTier struct {
	ID        string `json:"id"`
	BaseStake int64  `json:"base_stake"`
}

type GameConfig struct {
	DefaultTier string      `json:"default_tier"`
	Tiers       []StakeTier `json:"tiers"`
	// UserWaitSeconds is how long a table waits for humans before filling
	// the remaining seats with bots.
	UserWaitSeconds int `json:"user_wait_seconds"`
	// ReconnectGraceSeconds is how long a disconnected player keeps their
	// seat before a bot takes over.
	ReconnectGraceSeconds int `json:"reconnect_grace_seconds"`
	// TurnPacingSeconds is the delay between a play landing and the table
	// advancing to the next turn.
	TurnPacingSeconds int `json:"turn_pacing_seconds"`
	// BotThinkMinMillis and BotThinkMaxMillis bound the pause before a bot
	// plays its card.
	BotThinkMinMillis int `json:"bot_think_min_millis"`
	BotThinkMaxMillis int `json:"bot_think_max_millis"`
	// StartingCoins is the coin grant for freshly created profiles.
	StartingCoins int64 `json:"starting_coins"`
	// TokenSecret signs table tokens. The MINDIKOT_TOKEN_SECRET
	// environment variable overrides the file value.
	TokenSecret string `json:"token_secret"`
	TokenIssuer string `json:"token_issuer"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		applyDefaults(&c)
		if secret := os.Getenv("MINDIKOT_TOKEN_SECRET"); secret != "" {
			c.TokenSecret = secret
		}
		cfg = &c
	})
	return loadErr
}

func applyDefaults(c *GameConfig) {
	if c.UserWaitSeconds <= 0 {
		c.UserWaitSeconds = 30
	}
	if c.ReconnectGraceSeconds <= 0 {
		c.ReconnectGraceSeconds = 20
	}
	if c.TurnPacingSeconds <= 0 {
		c.TurnPacingSeconds = 2
	}
	if c.BotThinkMinMillis <= 0 {
		c.BotThinkMinMillis = 500
	}
	if c.BotThinkMaxMillis < c.BotThinkMinMillis {
		c.BotThinkMaxMillis = c.BotThinkMinMillis + 1000
	}
	if c.StartingCoins <= 0 {
		c.StartingCoins = 10000
	}
	if c.TokenIssuer == "" {
		c.TokenIssuer = "mindikot"
	}
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBaseStake returns the base stake for a given tier ID, or the default if not found.
func GetBaseStake(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.BaseStake
		}
	}

	// Fallback to default tier if specific ID not found
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.BaseStake
		}
	}

	return 100
}
