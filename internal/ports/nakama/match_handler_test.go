package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mindikot/internal/domain"
	"mindikot/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// fakePresence is a minimal runtime.Presence for driving the handler.
type fakePresence struct {
	userID   string
	username string
}

func (p fakePresence) GetUserId() string                 { return p.userID }
func (p fakePresence) GetSessionId() string              { return "session-" + p.userID }
func (p fakePresence) GetNodeId() string                 { return "node" }
func (p fakePresence) GetHidden() bool                   { return false }
func (p fakePresence) GetPersistence() bool              { return false }
func (p fakePresence) GetUsername() string               { return p.username }
func (p fakePresence) GetStatus() string                 { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }

// fakeMatchData wraps a presence with an opcode and payload.
type fakeMatchData struct {
	fakePresence
	opCode int64
	data   []byte
}

func (m fakeMatchData) GetOpCode() int64      { return m.opCode }
func (m fakeMatchData) GetData() []byte       { return m.data }
func (m fakeMatchData) GetReliable() bool     { return true }
func (m fakeMatchData) GetReceiveTime() int64 { return 0 }

type broadcast struct {
	opCode     int64
	data       []byte
	recipients int
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcasts   []broadcast
	labelUpdates int
	kicked       []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcasts = append(md.broadcasts, broadcast{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: len(presences),
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	for _, p := range presences {
		md.kicked = append(md.kicked, p.GetUserId())
	}
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, b := range md.broadcasts {
		if b.opCode == opCode {
			n++
		}
	}
	return n
}

func (md *mockDispatcher) last(opCode int64) (broadcast, bool) {
	for i := len(md.broadcasts) - 1; i >= 0; i-- {
		if md.broadcasts[i].opCode == opCode {
			return md.broadcasts[i], true
		}
	}
	return broadcast{}, false
}

type mockEconomy struct {
	updates [][]ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	return 0, errors.New("balance not found")
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates)
	return nil
}

func newTestState(t *testing.T, deckCount int, trumpMode string) (*matchHandler, *MatchState) {
	t.Helper()
	handler := newMatchHandler()
	params := map[string]interface{}{
		"deck_count": deckCount,
		"trump_mode": trumpMode,
	}
	stateI, tickRate, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, params)
	if stateI == nil {
		t.Fatal("MatchInit returned nil state")
	}
	if tickRate != 1 {
		t.Fatalf("Expected tick rate 1, got %d", tickRate)
	}
	var parsed MatchLabel
	if err := json.Unmarshal([]byte(label), &parsed); err != nil {
		t.Fatalf("Label is not valid JSON: %v", err)
	}
	if parsed.Game != "mindikot" || parsed.Phase != "lobby" {
		t.Fatalf("Unexpected initial label: %+v", parsed)
	}

	state := stateI.(*MatchState)
	state.Economy = &mockEconomy{}
	// Deterministic, short timers keep the tests compact.
	state.UserWait = 3
	state.Grace = 2
	state.Pacing = 1
	state.ThinkMin = 1
	state.ThinkMax = 1
	return handler, state
}

func joinHuman(handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, tick int64, userID string) {
	p := fakePresence{userID: userID, username: userID}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, tick, state, []runtime.Presence{p})
}

// tickUntil runs the match loop until the condition holds or the guard trips.
func tickUntil(t *testing.T, handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, from int64, guard int64, cond func() bool) int64 {
	t.Helper()
	tick := from
	for !cond() {
		tick++
		if tick-from > guard {
			t.Fatalf("Condition not reached within %d ticks", guard)
		}
		handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, tick, state, nil)
	}
	return tick
}

func TestMatchInitLabel(t *testing.T) {
	_, state := newTestState(t, 2, "none")
	if state.Game.SeatCount() != 4 {
		t.Fatalf("Expected 4 seats for 2 decks, got %d", state.Game.SeatCount())
	}
	if state.GetOpenSeatsCount() != 4 {
		t.Fatalf("Expected 4 open seats, got %d", state.GetOpenSeatsCount())
	}
}

func TestLobbyBackfillStartsGame(t *testing.T) {
	handler, state := newTestState(t, 2, "none")
	dispatcher := &mockDispatcher{}

	joinHuman(handler, state, dispatcher, 1, "user-1")
	if state.FillBotsAt == 0 {
		t.Fatal("Expected backfill timer to be armed after first human join")
	}
	if got := dispatcher.count(OpPlayerJoined); got != 1 {
		t.Fatalf("Expected 1 player_joined broadcast, got %d", got)
	}
	waiting, ok := dispatcher.last(OpWaiting)
	if !ok || waiting.recipients != 1 {
		t.Fatalf("Expected a targeted waiting message, got %+v", waiting)
	}

	tickUntil(t, handler, state, dispatcher, 1, 10, func() bool {
		return state.Game.Phase == domain.PhasePlaying
	})

	if state.humanSeatCount() != 1 {
		t.Fatalf("Expected 1 human seat after backfill, got %d", state.humanSeatCount())
	}
	// Only the human is connected; targeted bot hands are dropped rather
	// than broadcast, so exactly one hand message goes out.
	if got := dispatcher.count(OpHandDealt); got != 1 {
		t.Fatalf("Expected 1 hand_dealt message, got %d", got)
	}
	hand, _ := dispatcher.last(OpHandDealt)
	if hand.recipients != 1 {
		t.Fatalf("Expected targeted hand delivery, got %d recipients", hand.recipients)
	}
}

func TestDistributeThenStartFullTable(t *testing.T) {
	handler, state := newTestState(t, 2, "none")
	dispatcher := &mockDispatcher{}

	// A long lobby wait keeps the deadline from starting the game on its own.
	state.UserWait = 100

	joinHuman(handler, state, dispatcher, 1, "user-1")
	distribute := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpDistribute}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{distribute})
	if got := dispatcher.count(OpGameError); got != 1 {
		t.Fatalf("Expected distribute at a short table to be rejected, got %d errors", got)
	}

	joinHuman(handler, state, dispatcher, 2, "user-2")
	joinHuman(handler, state, dispatcher, 2, "user-3")
	joinHuman(handler, state, dispatcher, 2, "user-4")
	if state.Game.Phase != domain.PhaseWaiting {
		t.Fatalf("Expected a full lobby to wait for distribute, got phase %s", state.Game.Phase)
	}

	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.MatchData{distribute})
	if state.Game.Phase != domain.PhaseDealt {
		t.Fatalf("Expected distribute to deal the table, got phase %s", state.Game.Phase)
	}
	if got := dispatcher.count(OpHandDealt); got != 4 {
		t.Fatalf("Expected 4 hand_dealt messages, got %d", got)
	}
	hand, _ := dispatcher.last(OpHandDealt)
	if hand.recipients != 1 {
		t.Fatalf("Expected targeted hand delivery, got %d recipients", hand.recipients)
	}

	// Repeating distribute once dealt is an error, not a re-deal.
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 4, state, []runtime.MatchData{distribute})
	if got := dispatcher.count(OpGameError); got != 2 {
		t.Fatalf("Expected double distribute to be rejected, got %d errors", got)
	}

	start := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpStart}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state, []runtime.MatchData{start})
	if state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("Expected start to open play, got phase %s", state.Game.Phase)
	}
	if state.Game.ActiveSeat != 0 {
		t.Fatalf("Expected seat 0 to lead, got %d", state.Game.ActiveSeat)
	}
	if state.BotActAt != 0 {
		t.Fatal("No bot timer expected at an all-human table")
	}
}

func TestHumanTurnValidationAndAdvance(t *testing.T) {
	handler, state := newTestState(t, 2, "none")
	dispatcher := &mockDispatcher{}

	joinHuman(handler, state, dispatcher, 1, "user-1")
	start := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpStart}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{start})

	if state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("Expected explicit start to open play, got phase %s", state.Game.Phase)
	}
	if state.Game.ActiveSeat != 0 {
		t.Fatalf("Expected seat 0 to lead, got %d", state.Game.ActiveSeat)
	}

	// A card the player does not hold is rejected without touching the trick.
	bogus, _ := json.Marshal(turnMessage{Card: cardPayload{Number: 1, Suit: string(domain.Heart)}})
	msg := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpTurn, data: bogus}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.MatchData{msg})
	if got := dispatcher.count(OpGameError); got != 1 {
		t.Fatalf("Expected 1 error message, got %d", got)
	}
	if len(state.Game.Trick) != 0 {
		t.Fatalf("Expected empty trick after rejected play, got %d cards", len(state.Game.Trick))
	}

	// A held card is accepted and the pacing timer armed.
	held := state.Game.PlayerAtSeat(0).Hand.Cards()[0]
	valid, _ := json.Marshal(turnMessage{Card: cardPayload{Number: held.Number, Suit: string(held.Suit)}})
	msg = fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpTurn, data: valid}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 4, state, []runtime.MatchData{msg})
	if len(state.Game.Trick) != 1 {
		t.Fatalf("Expected 1 card in trick, got %d", len(state.Game.Trick))
	}
	if state.AdvanceAt == 0 {
		t.Fatal("Expected pacing timer to be armed after a play")
	}

	tickUntil(t, handler, state, dispatcher, 4, 10, func() bool {
		return state.Game.ActiveSeat == 1
	})
	if state.BotActAt == 0 {
		t.Fatal("Expected bot timer armed once a bot seat became active")
	}
}

func TestLeaveTableHandsSeatToBotAndGameCompletes(t *testing.T) {
	handler, state := newTestState(t, 1, "katte")
	dispatcher := &mockDispatcher{}

	joinHuman(handler, state, dispatcher, 1, "user-1")
	start := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpStart}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{start})

	leave := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpLeaveTable}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.MatchData{leave})

	if !state.isBotControlled("user-1") {
		t.Fatal("Expected the leaver's seat to pass to a bot")
	}
	if len(dispatcher.kicked) != 1 || dispatcher.kicked[0] != "user-1" {
		t.Fatalf("Expected the leaver to be kicked, got %v", dispatcher.kicked)
	}

	tickUntil(t, handler, state, dispatcher, 3, 3000, func() bool {
		return state.Game.Phase == domain.PhaseComplete
	})

	if got := dispatcher.count(OpGameComplete); got != 1 {
		t.Fatalf("Expected 1 game_complete broadcast, got %d", got)
	}
	complete, _ := dispatcher.last(OpGameComplete)
	var payload struct {
		Team       int    `json:"team"`
		TeamTricks [2]int `json:"teamTricks"`
	}
	if err := json.Unmarshal(complete.data, &payload); err != nil {
		t.Fatalf("Failed to unmarshal game_complete payload: %v", err)
	}
	if payload.TeamTricks[0]+payload.TeamTricks[1] != state.Game.TricksCompleted {
		t.Fatalf("Trick totals %v do not match completed tricks %d", payload.TeamTricks, state.Game.TricksCompleted)
	}

	// Every seat ended up bot-controlled, so settlement had nothing to move.
	economy := state.Economy.(*mockEconomy)
	for _, batch := range economy.updates {
		if len(batch) != 0 {
			t.Fatalf("Expected no wallet updates for an all-bot table, got %+v", batch)
		}
	}
}

func TestDisconnectGraceAndRejoin(t *testing.T) {
	handler, state := newTestState(t, 2, "none")
	dispatcher := &mockDispatcher{}

	joinHuman(handler, state, dispatcher, 1, "user-1")
	joinHuman(handler, state, dispatcher, 1, "user-2")
	start := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpStart}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{start})

	leaver := fakePresence{userID: "user-2", username: "user-2"}
	handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.Presence{leaver})

	if _, ok := state.Disconnected["user-2"]; !ok {
		t.Fatal("Expected a grace deadline for the disconnected player")
	}
	if state.isBotControlled("user-2") {
		t.Fatal("Seat must stay frozen during the grace window")
	}

	// Rejoining inside the window restores the seat and resends the hand.
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 4, state, []runtime.Presence{leaver})
	if _, ok := state.Disconnected["user-2"]; ok {
		t.Fatal("Expected the grace deadline to clear on rejoin")
	}
	if state.isBotControlled("user-2") {
		t.Fatal("Expected rejoin within the window to keep the seat human")
	}
	hand, ok := dispatcher.last(OpHandDealt)
	if !ok || hand.recipients != 1 {
		t.Fatalf("Expected the rejoiner's hand to be resent privately, got %+v", hand)
	}

	// A second disconnect that outlives the window hands the seat to the
	// engine for good; a late return only gets the spectator view.
	handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state, []runtime.Presence{leaver})
	tickUntil(t, handler, state, dispatcher, 5, 10, func() bool {
		return state.isBotControlled("user-2")
	})

	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 9, state, []runtime.Presence{leaver})
	if !state.isBotControlled("user-2") {
		t.Fatal("Expected a late rejoin to leave the seat with the bot")
	}
	snapshot, ok := dispatcher.last(OpPlayerJoined)
	if !ok || snapshot.recipients != 1 {
		t.Fatalf("Expected the late rejoiner to get a targeted table snapshot, got %+v", snapshot)
	}
}

func TestLastHumanDisconnectKeepsGraceWindow(t *testing.T) {
	handler, state := newTestState(t, 2, "none")
	dispatcher := &mockDispatcher{}

	joinHuman(handler, state, dispatcher, 1, "user-1")
	start := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpStart}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{start})
	if state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("Expected play to open, got phase %s", state.Game.Phase)
	}

	leaver := fakePresence{userID: "user-1", username: "user-1"}
	got := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.Presence{leaver})
	if got == nil {
		t.Fatal("Expected the match to outlive its only human's grace window")
	}
	if _, ok := state.Disconnected["user-1"]; !ok {
		t.Fatal("Expected a grace deadline for the last human")
	}

	// Coming back inside the window picks the game up where it stopped.
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 4, state, []runtime.Presence{leaver})
	if len(state.Disconnected) != 0 || state.isBotControlled("user-1") {
		t.Fatal("Expected the rejoin to restore the seat")
	}

	// Leaving again and letting the window lapse ends the match.
	handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state, []runtime.Presence{leaver})
	ended := false
	for tick := int64(6); tick <= 12; tick++ {
		if handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, tick, state, nil) == nil {
			ended = true
			break
		}
	}
	if !ended {
		t.Fatal("Expected the match to terminate once the last grace window lapsed")
	}
}

func TestMatchJoinAttemptRejectsMidGameStrangers(t *testing.T) {
	handler, state := newTestState(t, 2, "none")
	dispatcher := &mockDispatcher{}

	joinHuman(handler, state, dispatcher, 1, "user-1")
	start := fakeMatchData{fakePresence: fakePresence{userID: "user-1"}, opCode: OpStart}
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{start})

	stranger := fakePresence{userID: "stranger"}
	_, allowed, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, stranger, nil)
	if allowed {
		t.Fatal("Expected mid-game join without a token to be rejected")
	}
	if reason == "" {
		t.Fatal("Expected a rejection reason")
	}

	_, allowed, _ = handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, fakePresence{userID: "user-1"}, nil)
	if !allowed {
		t.Fatal("Expected a seated player to be allowed back in")
	}
}
