package bot

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Identity is one entry of the bot-name pool used when seats are backfilled.
type Identity struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identities []Identity
	loadOnce   sync.Once
	loadErr    error
)

// LoadIdentities loads the bot name pool from the given path. Safe to call
// more than once; only the first call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
		}
	})
	return loadErr
}

// GetIdentity returns a pool identity by index, wrapping around the pool
// size. A fallback name is produced when no pool was loaded.
func GetIdentity(index int) Identity {
	if len(identities) == 0 {
		return Identity{
			Name:        fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("Player %d", index+1),
		}
	}
	return identities[index%len(identities)]
}

const sessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MakeSessionID generates a random session identifier for a bot-controlled
// seat, distinguishable from real client session ids only by bookkeeping.
func MakeSessionID(rng *rand.Rand, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = sessionIDAlphabet[rng.Intn(len(sessionIDAlphabet))]
	}
	return string(b)
}
