package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"mindikot/internal/app"
	"mindikot/internal/app/tabletoken"
	"mindikot/internal/bot"
	"mindikot/internal/config"
	"mindikot/internal/domain"
	"mindikot/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Tick  int64 `json:"tick"`
	Epoch int64 `json:"epoch"` // Bumped whenever scheduled deadlines become stale

	Game   *domain.Game                `json:"-"` // Authoritative table state
	App    *app.Service                `json:"-"` // Mindi-Kot use-cases
	Engine *bot.Engine                 `json:"-"` // Bot decision engine sharing the app's knowledge base
	Rng    *rand.Rand                  `json:"-"`
	Tokens *tabletoken.Service         `json:"-"`
	Presences map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging

	Bots         map[string]bool  `json:"bots"`         // Session ids under bot control
	Disconnected map[string]int64 `json:"disconnected"` // Session id -> grace deadline tick

	FillBotsAt   int64 `json:"fill_bots_at"`  // Tick when empty seats are backfilled; 0 = not armed
	AdvanceAt    int64 `json:"advance_at"`    // Tick when the pending play resolves; 0 = none
	AdvanceEpoch int64 `json:"advance_epoch"`
	BotActAt     int64 `json:"bot_act_at"`    // Tick when the active bot plays; 0 = none
	BotActEpoch  int64 `json:"bot_act_epoch"`

	UserWait int   `json:"user_wait"` // Seconds before bots backfill a part-filled lobby
	Grace    int   `json:"grace"`     // Seconds a disconnected seat stays frozen
	Pacing   int   `json:"pacing"`    // Seconds between a play and its resolution
	ThinkMin int   `json:"think_min"`
	ThinkMax int   `json:"think_max"`

	Tier      string            `json:"tier"`
	BaseStake int64             `json:"base_stake"`
	Economy   ports.EconomyPort `json:"-"`

	BotsAdded int `json:"bots_added"` // Cursor into the bot identity pool
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, id := range ms.Game.Seats {
		if id == "" {
			count++
		}
	}
	return count
}

// seatOf returns the seat index occupied by the session id, or -1.
func (ms *MatchState) seatOf(sessionID string) int {
	for i, id := range ms.Game.Seats {
		if id == sessionID && id != "" {
			return i
		}
	}
	return -1
}

// isBotControlled reports whether the seat's occupant is played by the engine.
func (ms *MatchState) isBotControlled(sessionID string) bool {
	return ms.Bots[sessionID]
}

// findBotSeat returns the first seat under bot control, or -1.
func (ms *MatchState) findBotSeat() int {
	for i, id := range ms.Game.Seats {
		if id != "" && ms.Bots[id] {
			return i
		}
	}
	return -1
}

// humanSeatCount counts seats whose occupant is not bot-controlled.
func (ms *MatchState) humanSeatCount() int {
	count := 0
	for _, id := range ms.Game.Seats {
		if id != "" && !ms.Bots[id] {
			count++
		}
	}
	return count
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	deckCount := paramInt(params, "deck_count", 1)
	trumpMode, err := domain.ParseTrumpMode(paramString(params, "trump_mode", string(domain.TrumpModeNone)))
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}
	jokerEnabled := paramBool(params, "joker", false)
	tier := paramString(params, "tier", "")

	game, err := domain.NewGame(domain.MatchConfig{
		DeckCount:    deckCount,
		JokerEnabled: jokerEnabled,
		TrumpMode:    trumpMode,
	})
	if err != nil {
		logger.Error("MatchInit: Failed to create game: %v", err)
		return nil, 0, ""
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := app.NewService(rng)

	state := &MatchState{
		Game:         game,
		App:          svc,
		Engine:       bot.NewEngine(rng, svc.Knowledge()),
		Rng:          rng,
		Presences:    make(map[string]runtime.Presence),
		Bots:         make(map[string]bool),
		Disconnected: make(map[string]int64),
		Tier:         tier,
		BaseStake:    config.GetBaseStake(tier),
		Economy:      NewNakamaEconomyAdapter(nk),
		UserWait:     30,
		Grace:        20,
		Pacing:       2,
		ThinkMin:     1,
		ThinkMax:     3,
	}
	if cfg := config.GetGameConfig(); cfg != nil {
		state.UserWait = cfg.UserWaitSeconds
		state.Grace = cfg.ReconnectGraceSeconds
		state.Pacing = cfg.TurnPacingSeconds
		state.ThinkMin = (cfg.BotThinkMinMillis + 999) / 1000
		state.ThinkMax = (cfg.BotThinkMaxMillis + 999) / 1000
		state.Tokens = tabletoken.NewService(cfg.TokenSecret, cfg.TokenIssuer, time.Hour)
	}
	if state.ThinkMin < 1 {
		state.ThinkMin = 1
	}
	if state.ThinkMax < state.ThinkMin {
		state.ThinkMax = state.ThinkMin
	}

	labelBytes, err := json.Marshal(mh.buildLabel(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always return to their seat.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	// Observers carry a signed table token instead of taking a seat.
	if token := metadata["token"]; token != "" && matchState.Tokens != nil {
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		claims, err := matchState.Tokens.Verify(token)
		if err != nil {
			return state, false, "invalid table token"
		}
		if claims["act"] != tabletoken.ActionObserve || claims["mid"] != matchID {
			return state, false, "token not valid for this table"
		}
		return state, true, ""
	}

	if matchState.Game.Phase != domain.PhaseWaiting {
		return state, false, "game in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 && matchState.findBotSeat() < 0 {
		return state, false, "match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Tick = tick

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat := matchState.seatOf(userID); seat >= 0 {
			if matchState.Bots[userID] {
				// The seat passed to the engine for good when its grace
				// window lapsed; the returning player only watches.
				mh.sendObserverSnapshot(matchState, dispatcher, logger, userID)
				continue
			}
			mh.handleRejoin(matchState, dispatcher, logger, userID, seat)
			continue
		}

		if matchState.Game.Phase != domain.PhaseWaiting {
			mh.sendObserverSnapshot(matchState, dispatcher, logger, userID)
			continue
		}

		if matchState.GetOpenSeatsCount() > 0 {
			events, err := matchState.App.Seat(matchState.Game, userID, p.GetUsername(), false)
			if err != nil {
				logger.Error("MatchJoin: Failed to seat %s: %v", userID, err)
				continue
			}
			mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
		} else if botSeat := matchState.findBotSeat(); botSeat >= 0 {
			mh.replaceBotWithHuman(matchState, dispatcher, logger, botSeat, userID, p.GetUsername())
		} else {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
			continue
		}

		// Arm the lobby backfill timer on the first human.
		if matchState.FillBotsAt == 0 && matchState.humanSeatCount() > 0 {
			matchState.FillBotsAt = tick + int64(matchState.UserWait)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

// handleRejoin returns control of a seat to its human. Only reachable
// inside the grace window; once it lapses the seat belongs to the engine.
func (mh *matchHandler) handleRejoin(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, seat int) {
	delete(state.Disconnected, userID)
	logger.Info("MatchJoin: %s resumed seat %d.", userID, seat)

	mh.broadcastConnState(state, dispatcher, logger, userID, seat, true)

	// Resend the private hand and current prompt so the client can redraw.
	g := state.Game
	if p := g.PlayerAtSeat(seat); p != nil && g.Phase != domain.PhaseWaiting {
		events := []app.Event{{
			Kind:       app.EventHandDealt,
			Payload:    app.HandDealtPayload{SessionID: userID, Hand: p.Hand.Cards()},
			Recipients: []string{userID},
		}}
		if g.Phase == domain.PhasePlaying && g.ActiveSeat >= 0 {
			events = append(events, app.Event{
				Kind:       app.EventPlay,
				Payload:    app.TurnPayload{SessionID: g.Seats[g.ActiveSeat], Seat: g.ActiveSeat},
				Recipients: []string{userID},
			})
		} else if g.Phase == domain.PhaseTrumpSelection {
			events = append(events, app.Event{
				Kind:       app.EventChooseTrump,
				Payload:    app.TurnPayload{SessionID: g.Seats[g.ActiveSeat], Seat: g.ActiveSeat},
				Recipients: []string{userID},
			})
		}
		mh.dispatchEvents(context.Background(), state, dispatcher, logger, events)
	}
}

// replaceBotWithHuman hands a lobby bot's seat to a joining human.
func (mh *matchHandler) replaceBotWithHuman(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, userID, name string) {
	g := state.Game
	botID := g.Seats[seat]
	logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", botID, userID, seat)

	delete(state.Bots, botID)
	player := g.Players[botID]
	delete(g.Players, botID)
	player.SessionID = userID
	player.Name = name
	g.Players[userID] = player
	g.Seats[seat] = userID

	mh.dispatchEvents(context.Background(), state, dispatcher, logger, []app.Event{{
		Kind:    app.EventPlayerJoined,
		Payload: app.PlayerJoinedPayload{SessionID: userID, Name: name, Seat: seat, IsBot: false},
	}})
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	matchState.Tick = tick
	g := matchState.Game

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue // observer
		}

		if g.Phase == domain.PhaseWaiting {
			g.Seats[seat] = ""
			delete(g.Players, userID)
			logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
			continue
		}

		// A consented leave already handed the seat over; no window to keep.
		if matchState.Bots[userID] {
			continue
		}

		// Mid-game the seat freezes for the reconnect grace window; a bot
		// takes over when it lapses.
		matchState.Disconnected[userID] = tick + int64(matchState.Grace)
		mh.broadcastConnState(matchState, dispatcher, logger, userID, seat, false)
		logger.Info("MatchLeave: User %s disconnected mid-game, grace until tick %d.", userID, matchState.Disconnected[userID])
	}

	// A pending grace deadline keeps the match alive even with nobody
	// connected, so the last human can still reconnect in time.
	if len(matchState.Presences) == 0 && len(matchState.Disconnected) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		return nil
	}

	if matchState.Game.Phase == domain.PhaseWaiting && matchState.humanSeatCount() == 0 {
		matchState.FillBotsAt = 0
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStart:
			mh.handleStart(ctx, matchState, dispatcher, logger, msg)
		case OpDistribute:
			mh.handleDistribute(ctx, matchState, dispatcher, logger, msg)
		case OpTurn:
			mh.handleTurn(ctx, matchState, dispatcher, logger, msg)
		case OpHideCard:
			mh.handleHideCard(ctx, matchState, dispatcher, logger, msg)
		case OpOpenHideCard:
			mh.handleOpenHideCard(ctx, matchState, dispatcher, logger, msg)
		case OpNextRound:
			mh.handleNextRound(ctx, matchState, dispatcher, logger, msg)
		case OpLeaveTable:
			mh.handleLeaveTable(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processTimers(ctx, matchState, dispatcher, logger)

	if matchState.Game.Phase != domain.PhaseWaiting &&
		len(matchState.Presences) == 0 && len(matchState.Disconnected) == 0 {
		logger.Info("MatchLoop: No connected humans and no reconnects pending, terminating.")
		return nil
	}

	return matchState
}

// processTimers drives everything scheduled against the tick clock: lobby
// backfill, reconnect grace, the pacing delay after a play, and bot turns.
func (mh *matchHandler) processTimers(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := state.Game

	if state.FillBotsAt > 0 && state.Tick >= state.FillBotsAt &&
		(g.Phase == domain.PhaseWaiting || g.Phase == domain.PhaseDealt) {
		state.FillBotsAt = 0
		if state.humanSeatCount() > 0 {
			if g.Phase == domain.PhaseWaiting && state.App.Seated(g) < g.SeatCount() {
				mh.fillWithBots(ctx, state, dispatcher, logger)
				mh.updateLabel(state, dispatcher, logger)
			}
			if state.App.Seated(g) == g.SeatCount() {
				mh.startGame(ctx, state, dispatcher, logger)
			}
		}
	}

	for userID, deadline := range state.Disconnected {
		if state.Tick < deadline {
			continue
		}
		delete(state.Disconnected, userID)
		seat := state.seatOf(userID)
		if seat < 0 {
			continue
		}
		state.Bots[userID] = true
		logger.Info("processTimers: Grace lapsed for %s, bot takes seat %d.", userID, seat)
		mh.broadcastConnState(state, dispatcher, logger, userID, seat, false)
		if state.AdvanceAt == 0 {
			mh.scheduleActor(state)
		}
	}

	if state.AdvanceAt > 0 && state.Tick >= state.AdvanceAt {
		due := state.AdvanceEpoch == state.Epoch
		state.AdvanceAt = 0
		if due {
			mh.runAdvance(ctx, state, dispatcher, logger)
		}
	}

	if state.BotActAt > 0 && state.Tick >= state.BotActAt {
		due := state.BotActEpoch == state.Epoch
		state.BotActAt = 0
		if due {
			mh.runBotTurn(ctx, state, dispatcher, logger)
		}
	}
}

// fillWithBots seats engine-controlled players in every remaining open seat.
func (mh *matchHandler) fillWithBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := state.Game
	for state.App.Seated(g) < g.SeatCount() {
		identity := bot.GetIdentity(state.BotsAdded)
		state.BotsAdded++
		botID := bot.MakeSessionID(state.Rng, app.BotSessionIDLength)

		events, err := state.App.Seat(g, botID, identity.DisplayName, true)
		if err != nil {
			logger.Error("fillWithBots: Failed to seat bot: %v", err)
			return
		}
		state.Bots[botID] = true
		logger.Info("fillWithBots: Added bot %s (%s).", identity.DisplayName, botID)
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}
}

// startGame deals (unless a distribute message already did) and opens play,
// then schedules whoever acts first.
func (mh *matchHandler) startGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game.Phase == domain.PhaseWaiting {
		events, err := state.App.Deal(state.Game)
		if err != nil {
			logger.Error("startGame: Deal failed: %v", err)
			return
		}
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}

	events, err := state.App.Start(state.Game)
	if err != nil {
		logger.Error("startGame: Start failed: %v", err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	mh.updateLabel(state, dispatcher, logger)
	mh.scheduleActor(state)
	logger.Info("startGame: Game started with %d seats.", state.Game.SeatCount())
}

// scheduleActor arms the bot timer when the seat expected to act is under
// engine control. Human seats act on their own messages; a disconnected seat
// stays frozen until its grace lapses.
func (mh *matchHandler) scheduleActor(state *MatchState) {
	g := state.Game
	if g.ActiveSeat < 0 {
		return
	}
	if g.Phase != domain.PhasePlaying && g.Phase != domain.PhaseTrumpSelection {
		return
	}
	actorID := g.Seats[g.ActiveSeat]
	if !state.isBotControlled(actorID) {
		return
	}
	think := state.ThinkMin
	if state.ThinkMax > state.ThinkMin {
		think += state.Rng.Intn(state.ThinkMax - state.ThinkMin + 1)
	}
	state.BotActAt = state.Tick + int64(think)
	state.BotActEpoch = state.Epoch
}

// scheduleAdvance arms the pacing timer that resolves the play just made.
func (mh *matchHandler) scheduleAdvance(state *MatchState) {
	state.AdvanceAt = state.Tick + int64(state.Pacing)
	state.AdvanceEpoch = state.Epoch
	state.BotActAt = 0
}

// runAdvance resolves the pending play: turn handoff or trick scoring plus
// the win check.
func (mh *matchHandler) runAdvance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := state.App.Advance(state.Game)
	if err != nil {
		logger.Error("runAdvance: %v", err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	if state.Game.Phase == domain.PhaseComplete {
		mh.updateLabel(state, dispatcher, logger)
		return
	}
	mh.scheduleActor(state)
}

// runBotTurn plays for the engine-controlled active seat.
func (mh *matchHandler) runBotTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := state.Game
	if g.ActiveSeat < 0 {
		return
	}
	actorID := g.Seats[g.ActiveSeat]
	if !state.isBotControlled(actorID) {
		return
	}

	if g.Phase == domain.PhaseTrumpSelection {
		card := state.Engine.ChooseHideCard(g, g.ActiveSeat)
		events, err := state.App.PlayHideCard(g, actorID, card)
		if err != nil {
			logger.Error("runBotTurn: Hide selection failed for %s: %v", actorID, err)
			return
		}
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		mh.scheduleActor(state)
		return
	}

	if g.Phase != domain.PhasePlaying {
		return
	}
	decision := state.Engine.ChooseCard(g, g.ActiveSeat)
	events, err := state.App.PlayCard(g, actorID, decision.Card, decision.ClaimTrump)
	if err != nil {
		logger.Error("runBotTurn: Bot %s failed to play: %v", actorID, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.scheduleAdvance(state)
}

// handleDistribute deals the hands of a full lobby without opening play. A
// start message (or the lobby deadline) moves the table into play afterwards.
func (mh *matchHandler) handleDistribute(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) < 0 {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not seated at this table")
		return
	}
	g := state.Game
	if g.Phase != domain.PhaseWaiting {
		mh.sendError(state, dispatcher, logger, senderID, 400, app.ErrWrongPhase.Error())
		return
	}
	events, err := state.App.Deal(g)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleStart(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) < 0 {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not seated at this table")
		return
	}

	switch state.Game.Phase {
	case domain.PhaseDealt:
		events, err := state.App.Start(state.Game)
		if err != nil {
			mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
			return
		}
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		mh.updateLabel(state, dispatcher, logger)
		mh.scheduleActor(state)
	case domain.PhaseWaiting:
		// An explicit start skips the remaining lobby wait.
		state.FillBotsAt = 0
		mh.fillWithBots(ctx, state, dispatcher, logger)
		mh.updateLabel(state, dispatcher, logger)
		if state.App.Seated(state.Game) == state.Game.SeatCount() {
			mh.startGame(ctx, state, dispatcher, logger)
		}
	default:
		mh.sendError(state, dispatcher, logger, senderID, 400, app.ErrWrongPhase.Error())
	}
}

func (mh *matchHandler) handleTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var req turnMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleTurn: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid turn payload")
		return
	}
	if state.isBotControlled(senderID) {
		mh.sendError(state, dispatcher, logger, senderID, 403, "seat is bot controlled")
		return
	}

	events, err := state.App.PlayCard(state.Game, senderID, req.Card.toDomain(), req.ClaimTrump)
	if err != nil {
		logger.Warn("handleTurn: User %s failed to play %+v: %v", senderID, req.Card, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.scheduleAdvance(state)
}

func (mh *matchHandler) handleHideCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var req hideCardMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleHideCard: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid hide card payload")
		return
	}

	events, err := state.App.PlayHideCard(state.Game, senderID, req.Card.toDomain())
	if err != nil {
		logger.Warn("handleHideCard: User %s failed: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.scheduleActor(state)
}

func (mh *matchHandler) handleOpenHideCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	events, err := state.App.OpenHideCard(state.Game, senderID)
	if err != nil {
		logger.Warn("handleOpenHideCard: User %s failed: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleNextRound(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) < 0 {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not seated at this table")
		return
	}

	if err := state.App.Reset(state.Game); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	state.Epoch++
	state.AdvanceAt = 0
	state.BotActAt = 0
	logger.Info("handleNextRound: Rematch requested by %s.", senderID)
	mh.startGame(ctx, state, dispatcher, logger)
}

// handleLeaveTable hands the sender's seat to a bot immediately, without the
// reconnect grace, then kicks the presence.
func (mh *matchHandler) handleLeaveTable(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	seat := state.seatOf(senderID)
	if seat < 0 {
		return
	}

	if state.Game.Phase != domain.PhaseWaiting {
		state.Bots[senderID] = true
		delete(state.Disconnected, senderID)
		mh.broadcastConnState(state, dispatcher, logger, senderID, seat, false)
		if state.AdvanceAt == 0 {
			mh.scheduleActor(state)
		}
	}

	if p, ok := state.Presences[senderID]; ok {
		if err := dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
			logger.Error("handleLeaveTable: Failed to kick %s: %v", senderID, err)
		}
	}
}

// sendObserverSnapshot gives a spectator enough state to render the table.
func (mh *matchHandler) sendObserverSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	g := state.Game
	snapshot := map[string]interface{}{
		"seats":           g.Seats,
		"phase":           string(g.Phase),
		"activeSeat":      g.ActiveSeat,
		"trick":           g.Trick,
		"trump":           string(g.Trump),
		"trumpActive":     g.TrumpActive,
		"teams":           g.Teams,
		"tricksCompleted": g.TricksCompleted,
		"ledger":          g.Ledger,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("sendObserverSnapshot: %v", err)
		return
	}
	p, ok := state.Presences[userID]
	if !ok {
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, data, []runtime.Presence{p}, nil, true)
}

func (mh *matchHandler) broadcastConnState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, seat int, connected bool) {
	payload := connStatePayload{
		SessionID: userID,
		Seat:      seat,
		Connected: connected,
		BotActive: state.Bots[userID],
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastConnState: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerConnState, data, nil, nil, true)
}

// eventOpCodes maps app event kinds to outbound op codes.
var eventOpCodes = map[app.EventKind]int64{
	app.EventPlayerJoined: OpPlayerJoined,
	app.EventWaiting:      OpWaiting,
	app.EventAddPlayers:   OpAddPlayers,
	app.EventHandDealt:    OpHandDealt,
	app.EventPlay:         OpPlay,
	app.EventChooseTrump:  OpChooseTrump,
	app.EventTurnCard:     OpTurnCard,
	app.EventHideCard:     OpHideCardEvent,
	app.EventOpenHideCard: OpOpenHideEvent,
	app.EventTrickWon:     OpRoundComplete,
	app.EventMindikot:     OpMindikot,
	app.EventGameComplete: OpGameComplete,
}

// dispatchEvents converts app events to opcode broadcasts, honoring targeted
// recipients and settling stakes on game completion.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, ok := eventOpCodes[ev.Kind]
		if !ok {
			logger.Warn("dispatchEvents: Unknown event kind: %v", ev.Kind)
			continue
		}

		if ev.Kind == app.EventGameComplete {
			if payload, ok := ev.Payload.(app.GameCompletePayload); ok {
				mh.settleStakes(ctx, state, logger, payload)
			}
		}

		data, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("dispatchEvents: Failed to marshal %v payload: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events whose recipients are all bots or offline must
			// not fall back to a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}

		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
	}
}

// settleStakes moves the table stake between the two teams' human players.
func (mh *matchHandler) settleStakes(ctx context.Context, state *MatchState, logger runtime.Logger, payload app.GameCompletePayload) {
	if state.Economy == nil || state.BaseStake <= 0 {
		return
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	var updates []ports.WalletUpdate
	for seat, userID := range state.Game.Seats {
		if userID == "" || state.isBotControlled(userID) {
			continue
		}
		amount := state.BaseStake
		if domain.TeamOfSeat(seat) != payload.Team {
			amount = -amount
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "table_settlement",
			},
		})
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settleStakes: Failed to update balances: %v", err)
	}
}

// sendError sends an error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := json.Marshal(errorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) buildLabel(state *MatchState) *MatchLabel {
	phase := "lobby"
	if state.Game.Phase != domain.PhaseWaiting {
		phase = "playing"
	}
	open := state.GetOpenSeatsCount()
	if phase != "lobby" {
		open = 0
	}
	return &MatchLabel{
		Open:      open,
		Game:      "mindikot",
		Phase:     phase,
		DeckCount: state.Game.Config.DeckCount,
		TrumpMode: string(state.Game.Config.TrumpMode),
		Tier:      state.Tier,
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(mh.buildLabel(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

func paramInt(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func paramString(params map[string]interface{}, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func paramBool(params map[string]interface{}, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}
