package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"mindikot/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
)

// GetProfileRequest identifies the profile to read.
type GetProfileRequest struct {
	Email string `json:"email_id"`
}

// GetProfileResponse pairs the stored profile with the caller's Nakama
// account, serialized with protojson so clients see the canonical shape.
type GetProfileResponse struct {
	Profile ports.Profile   `json:"profile"`
	Account json.RawMessage `json:"account,omitempty"`
}

// AddCoinsRequest adjusts a profile balance.
type AddCoinsRequest struct {
	Email string `json:"email_id"`
	Coins int64  `json:"coins"`
}

// AddCoinsResponse reports the balance after the adjustment.
type AddCoinsResponse struct {
	Coins int64 `json:"coins"`
}

func rpcGetProfile(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req GetProfileRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Email == "" {
		return "", runtime.NewError("email_id is required", 3)
	}

	profile, err := NewNakamaProfileAdapter(nk).Fetch(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ports.ErrProfileNotFound) {
			return "", runtime.NewError("profile not found", 5)
		}
		logger.Error("rpcGetProfile: %v", err)
		return "", runtime.NewError("failed to fetch profile", 13)
	}

	resp := GetProfileResponse{Profile: profile}
	if userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); userID != "" {
		if account, err := nk.AccountGetId(ctx, userID); err == nil {
			if raw, err := protojson.Marshal(account); err == nil {
				resp.Account = raw
			} else {
				logger.Warn("rpcGetProfile: Failed to marshal account: %v", err)
			}
		} else {
			logger.Warn("rpcGetProfile: Failed to load account %s: %v", userID, err)
		}
	}

	b, _ := json.Marshal(resp)
	return string(b), nil
}

func rpcCreateProfile(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var profile ports.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil || profile.Email == "" {
		return "", runtime.NewError("email_id is required", 3)
	}

	if err := NewNakamaProfileAdapter(nk).Create(ctx, profile); err != nil {
		if errors.Is(err, ports.ErrProfileExists) {
			return "", runtime.NewError("profile already exists", 6)
		}
		logger.Error("rpcCreateProfile: %v", err)
		return "", runtime.NewError("failed to create profile", 13)
	}

	b, _ := json.Marshal(profile)
	return string(b), nil
}

func rpcUpdateProfile(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var profile ports.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil || profile.Email == "" {
		return "", runtime.NewError("email_id is required", 3)
	}

	if err := NewNakamaProfileAdapter(nk).Update(ctx, profile); err != nil {
		if errors.Is(err, ports.ErrProfileNotFound) {
			return "", runtime.NewError("profile not found", 5)
		}
		logger.Error("rpcUpdateProfile: %v", err)
		return "", runtime.NewError("failed to update profile", 13)
	}

	b, _ := json.Marshal(profile)
	return string(b), nil
}

func rpcAddCoins(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req AddCoinsRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Email == "" {
		return "", runtime.NewError("email_id is required", 3)
	}

	coins, err := NewNakamaProfileAdapter(nk).AddCoins(ctx, req.Email, req.Coins)
	if err != nil {
		if errors.Is(err, ports.ErrProfileNotFound) {
			return "", runtime.NewError("profile not found", 5)
		}
		logger.Error("rpcAddCoins: %v", err)
		return "", runtime.NewError("failed to update coins", 13)
	}

	b, _ := json.Marshal(AddCoinsResponse{Coins: coins})
	return string(b), nil
}
