package app

import "memorygarden/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventCardRevealed   EventKind = "card_revealed"
	EventPairMatched    EventKind = "pair_matched"
	EventPairMismatched EventKind = "pair_mismatched"
	EventTimerTick      EventKind = "timer_tick"
	EventGameWon        EventKind = "game_won"
	EventGameLost       EventKind = "game_lost"
)

// Event is a domain/app event produced by a use-case.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameStartedPayload struct {
	Difficulty domain.Difficulty
	CardCount  int
	PairCount  int
	TimeLimit  int
	Board      []domain.CardView
}

type CardRevealedPayload struct {
	Index int
	Face  string
	Moves int
}

type PairResolvedPayload struct {
	First        int
	Second       int
	MatchedCount int
}

type TimerTickPayload struct {
	Remaining int
}

type GameEndedPayload struct {
	Outcome  domain.Outcome
	Moves    int
	TimeUsed int
	Rating   domain.Rating
}
