package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"memorygarden/internal/app"
	"memorygarden/internal/app/garden"
	"memorygarden/internal/app/stats"
	"memorygarden/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultTickRate = 5

	// MatchParamOwner is the MatchCreate param naming the only user allowed to join.
	MatchParamOwner = "owner"

	phaseLobby   = "lobby"
	phasePlaying = "playing"
)

// MatchState holds the authoritative runtime state of one player's memory match.
type MatchState struct {
	OwnerID  string           // User allowed to play; set on first join when empty
	Presence runtime.Presence // Connected player, nil until joined
	TickRate int              // Match loop ticks per second
	Tick     int64            // Last loop tick
	App      *app.Service     // Game use-cases
	Game     *domain.Game     // Current game, nil before the first start
	Stats    *stats.Tracker   // Player statistics as of the last load, nil when loading failed
	Garden   *garden.Garden   // Player garden as of the last load, nil when loading failed
}

type matchHandler struct {
	stats    *stats.Service
	gardens  *garden.Service
	tickRate int
}

func newMatchHandler(statsSvc *stats.Service, gardens *garden.Service, tickRate int) *matchHandler {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return &matchHandler{stats: statsSvc, gardens: gardens, tickRate: tickRate}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	owner, _ := params[MatchParamOwner].(string)
	logger.Debug("MatchInit: Initializing memory match (owner=%q, tick_rate=%d).", owner, mh.tickRate)

	state := &MatchState{
		OwnerID:  owner,
		TickRate: mh.tickRate,
		App:      app.NewService(nil),
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, state.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	userID := presence.GetUserId()
	if matchState.OwnerID != "" && userID != matchState.OwnerID {
		return state, false, "Match is private"
	}
	if matchState.Presence != nil && matchState.Presence.GetUserId() != userID {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.OwnerID == "" {
			matchState.OwnerID = p.GetUserId()
		}
		if p.GetUserId() != matchState.OwnerID {
			logger.Warn("MatchJoin: Ignoring presence %s, match belongs to %s", p.GetUserId(), matchState.OwnerID)
			continue
		}
		matchState.Presence = p
		logger.Info("MatchJoin: Player %s joined.", p.GetUserId())
	}

	mh.loadProgress(ctx, matchState, logger)
	return matchState
}

// loadProgress opens the player's statistics and garden when they join. Failures are
// logged and leave the match playable without persistence.
func (mh *matchHandler) loadProgress(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.OwnerID == "" {
		return
	}
	if state.Stats == nil {
		state.Stats = mh.openStats(ctx, state.OwnerID, logger, "MatchJoin")
	}
	if state.Garden == nil {
		state.Garden = mh.openGarden(ctx, state.OwnerID, logger, "MatchJoin")
	}
}

func (mh *matchHandler) openStats(ctx context.Context, userID string, logger runtime.Logger, caller string) *stats.Tracker {
	if mh.stats == nil {
		return nil
	}
	tracker, result, err := mh.stats.Open(ctx, userID)
	if err != nil {
		logger.Error("%s: Failed to load stats for %s: %v", caller, userID, err)
		return nil
	}
	if result.Recovered != nil {
		logger.Warn("%s: Using empty stats for %s: %v", caller, userID, result.Recovered)
	}
	return tracker
}

func (mh *matchHandler) openGarden(ctx context.Context, userID string, logger runtime.Logger, caller string) *garden.Garden {
	if mh.gardens == nil {
		return nil
	}
	g, result, err := mh.gardens.Open(ctx, userID)
	if err != nil {
		logger.Error("%s: Failed to load garden for %s: %v", caller, userID, err)
		return nil
	}
	if result.Recovered != nil {
		logger.Warn("%s: Using the starter garden for %s: %v", caller, userID, result.Recovered)
	}
	return g
}

// MatchLeave ends the match when its player leaves; an unfinished game is discarded.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.OwnerID {
			logger.Info("MatchLeave: Player %s left, terminating match.", p.GetUserId())
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.OwnerID {
			logger.Warn("MatchLoop: Dropping message from non-owner %s", msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpFlipCard:
			mh.handleFlipCard(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Game != nil && matchState.Game.Outcome == domain.OutcomePlaying {
		elapsed := time.Second / time.Duration(matchState.TickRate)
		events := matchState.App.Advance(matchState.Game, elapsed)
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
	}

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request := &StartGameRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Warn("StartGame: Invalid request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, 400, "invalid start game request")
		return
	}

	difficulty, err := domain.ParseDifficulty(request.Difficulty)
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	game, events, err := state.App.StartGame(difficulty)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, 500, "failed to start game")
		return
	}

	// A restart replaces the old game along with anything it still had pending.
	state.Game = game
	mh.updateLabel(state, dispatcher, logger)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: %s started a %s game.", state.OwnerID, difficulty)
}

func (mh *matchHandler) handleFlipCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, 409, "game not started")
		return
	}

	request := &FlipCardRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Warn("FlipCard: Invalid request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, 400, "invalid flip request")
		return
	}

	mh.dispatchEvents(ctx, state, dispatcher, logger, state.App.Flip(state.Game, request.Index))
}

// dispatchEvents persists the result of a won game and sends every event to the player.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventGameWon:
			mh.recordWin(ctx, state, logger)
			mh.updateLabel(state, dispatcher, logger)
		case app.EventGameLost:
			mh.updateLabel(state, dispatcher, logger)
		}

		opCode, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("Failed to encode event %s: %v", ev.Kind, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil {
			logger.Error("Failed to broadcast event %s: %v", ev.Kind, err)
		}
	}
}

// recordWin reopens stats and garden from the store before writing, so changes made
// through RPCs while the match was open are kept.
func (mh *matchHandler) recordWin(ctx context.Context, state *MatchState, logger runtime.Logger) {
	game := state.Game
	rating := domain.RateGame(game)

	state.Stats = mh.openStats(ctx, state.OwnerID, logger, "GameWon")
	if state.Stats != nil {
		rec, err := state.Stats.RecordGame(ctx, game)
		if err != nil {
			logger.Error("GameWon: Failed to record stats for %s: %v", state.OwnerID, err)
		} else {
			logger.Info("GameWon: Recorded %s game %s for %s (score=%d, stars=%d).", rec.Difficulty, rec.ID, state.OwnerID, rec.Score, rec.Stars)
		}
	}

	state.Garden = mh.openGarden(ctx, state.OwnerID, logger, "GameWon")
	if state.Garden != nil {
		if _, err := state.Garden.CompleteMission(ctx, domain.MissionMemory, rating.Total); err != nil {
			logger.Error("GameWon: Failed to complete garden mission for %s: %v", state.OwnerID, err)
		}
	}
}

// sendError sends a GameErrorMessage to the player.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	if state.Presence == nil {
		logger.Warn("Cannot send error %q: player not connected", message)
		return
	}

	data, err := json.Marshal(GameErrorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorMessage: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{state.Presence}, nil, true)
}

// matchLabel renders the listing label, e.g. {"difficulty":"easy","game":"memory","phase":"playing"}.
func matchLabel(state *MatchState) (string, error) {
	difficulty, phase := "", phaseLobby
	if state.Game != nil {
		difficulty = string(state.Game.Config.Difficulty)
		phase = phasePlaying
		if state.Game.Outcome != domain.OutcomePlaying {
			phase = string(state.Game.Outcome)
		}
	}

	label, err := structpb.NewStruct(map[string]interface{}{
		"game":       "memory",
		"difficulty": difficulty,
		"phase":      phase,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated (grace %ds)", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
