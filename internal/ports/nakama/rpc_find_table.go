package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mindikot/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FindTableRequest selects the rule set the client wants to sit down at.
type FindTableRequest struct {
	DeckCount int    `json:"deck_count"`
	TrumpMode string `json:"trump_mode"`
	Joker     bool   `json:"joker"`
	Tier      string `json:"tier"`
}

// FindTableResponse is the payload returned to clients requesting a table.
type FindTableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// rpcFindTable searches for a lobby-phase table matching the requested rule
// set and creates one when none is open.
func rpcFindTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	req := FindTableRequest{DeckCount: 1, TrumpMode: string(domain.TrumpModeNone)}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid find_table payload", 3)
		}
	}
	if _, err := domain.SeatsForDeckCount(req.DeckCount); err != nil {
		return "", runtime.NewError(err.Error(), 3)
	}
	if _, err := domain.ParseTrumpMode(req.TrumpMode); err != nil {
		return "", runtime.NewError(err.Error(), 3)
	}

	query := fmt.Sprintf(
		"+label.game:mindikot +label.phase:lobby +label.%s:>=1 +label.deck_count:%d +label.trump_mode:%s",
		MatchLabelKey_OpenSeats, req.DeckCount, req.TrumpMode,
	)

	limit := 1
	authoritative := true
	minSize := 0
	seats, _ := domain.SeatsForDeckCount(req.DeckCount)
	maxSize := seats

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcFindTable [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		resp := FindTableResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		logger.Info("rpcFindTable [User:%s]: Found existing table %s", userID, resp.MatchID)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameMindikot, map[string]interface{}{
		"deck_count": req.DeckCount,
		"trump_mode": req.TrumpMode,
		"joker":      req.Joker,
		"tier":       req.Tier,
	})
	if err != nil {
		logger.Error("rpcFindTable [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	resp := FindTableResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	logger.Info("rpcFindTable [User:%s]: Created new table %s", userID, matchID)
	return string(b), nil
}
