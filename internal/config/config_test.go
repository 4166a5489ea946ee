package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// The loader is once-per-process, so a single test drives the full surface:
// file parsing, defaulting, the env secret override, and tier lookup.
func TestLoadGameConfig(t *testing.T) {
	t.Setenv("MINDIKOT_TOKEN_SECRET", "env-secret")

	raw := `{
		"default_tier": "casual",
		"tiers": [
			{"id": "casual", "base_stake": 100},
			{"id": "high", "base_stake": 1000}
		],
		"user_wait_seconds": 15,
		"turn_pacing_seconds": 3,
		"starting_coins": 5000,
		"token_secret": "file-secret"
	}`
	path := filepath.Join(t.TempDir(), "game_config.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	require.NoError(t, LoadGameConfig(path))
	cfg := GetGameConfig()
	require.NotNil(t, cfg)

	require.Equal(t, 15, cfg.UserWaitSeconds)
	require.Equal(t, 3, cfg.TurnPacingSeconds)
	require.Equal(t, int64(5000), cfg.StartingCoins)

	// Unset values fall back to defaults.
	require.Equal(t, 20, cfg.ReconnectGraceSeconds)
	require.Equal(t, 500, cfg.BotThinkMinMillis)
	require.Equal(t, 1500, cfg.BotThinkMaxMillis)
	require.Equal(t, "mindikot", cfg.TokenIssuer)

	// The environment wins over the file for the signing secret.
	require.Equal(t, "env-secret", cfg.TokenSecret)

	require.Equal(t, int64(1000), GetBaseStake("high"))
	require.Equal(t, int64(100), GetBaseStake(""))
	require.Equal(t, int64(100), GetBaseStake("unknown"))
}
