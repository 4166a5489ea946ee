package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"mindikot/internal/app/tabletoken"
	"mindikot/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// TableTokenRequest asks for a signed observe or resume token.
type TableTokenRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"match_id"`
	Seat    int    `json:"seat"`
}

// TableTokenResponse carries the signed token back to the client.
type TableTokenResponse struct {
	Token string `json:"token"`
}

// rpcTableToken issues a table token for the authenticated user.
func rpcTableToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	var req TableTokenRequest
	req.Seat = -1
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid table_token payload", 3)
	}

	cfg := config.GetGameConfig()
	if cfg == nil || cfg.TokenSecret == "" {
		logger.Error("rpcTableToken: Token config missing.")
		return "", runtime.NewError("table tokens not configured", 13)
	}

	svc := tabletoken.NewService(cfg.TokenSecret, cfg.TokenIssuer, time.Hour)
	token, err := svc.GenerateToken(userID, req.Action, req.MatchID, req.Seat)
	if err != nil {
		logger.Warn("rpcTableToken [User:%s]: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3)
	}

	b, _ := json.Marshal(TableTokenResponse{Token: token})
	return string(b), nil
}
