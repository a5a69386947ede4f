package nakama

import (
	"encoding/json"
	"fmt"

	"memorygarden/internal/app"
	"memorygarden/internal/domain"
)

// StartGameRequest is the OpStartGame message body.
type StartGameRequest struct {
	Difficulty string `json:"difficulty"`
}

// FlipCardRequest is the OpFlipCard message body.
type FlipCardRequest struct {
	Index int `json:"index"`
}

type gameStartedMessage struct {
	Difficulty string            `json:"difficulty"`
	CardCount  int               `json:"card_count"`
	PairCount  int               `json:"pair_count"`
	TimeLimit  int               `json:"time_limit"`
	Board      []domain.CardView `json:"board"`
}

type cardRevealedMessage struct {
	Index int    `json:"index"`
	Face  string `json:"face"`
	Moves int    `json:"moves"`
}

type pairResolvedMessage struct {
	First        int `json:"first"`
	Second       int `json:"second"`
	MatchedCount int `json:"matched_count"`
}

type timerTickMessage struct {
	Remaining int `json:"remaining"`
}

type gameEndedMessage struct {
	Outcome  string        `json:"outcome"`
	Moves    int           `json:"moves"`
	TimeUsed int           `json:"time_used"`
	Rating   domain.Rating `json:"rating"`
	Stars    [3]bool       `json:"stars"`
}

// GameErrorMessage is the OpGameError body.
type GameErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// encodeEvent maps an app event to its op code and wire payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var opCode int64
	var msg any

	switch ev.Kind {
	case app.EventGameStarted:
		p := ev.Payload.(app.GameStartedPayload)
		opCode = OpGameStarted
		msg = gameStartedMessage{
			Difficulty: string(p.Difficulty),
			CardCount:  p.CardCount,
			PairCount:  p.PairCount,
			TimeLimit:  p.TimeLimit,
			Board:      p.Board,
		}
	case app.EventCardRevealed:
		p := ev.Payload.(app.CardRevealedPayload)
		opCode = OpCardRevealed
		msg = cardRevealedMessage{Index: p.Index, Face: p.Face, Moves: p.Moves}
	case app.EventPairMatched, app.EventPairMismatched:
		p := ev.Payload.(app.PairResolvedPayload)
		opCode = OpPairMismatched
		if ev.Kind == app.EventPairMatched {
			opCode = OpPairMatched
		}
		msg = pairResolvedMessage{First: p.First, Second: p.Second, MatchedCount: p.MatchedCount}
	case app.EventTimerTick:
		p := ev.Payload.(app.TimerTickPayload)
		opCode = OpTimerTick
		msg = timerTickMessage{Remaining: p.Remaining}
	case app.EventGameWon, app.EventGameLost:
		p := ev.Payload.(app.GameEndedPayload)
		opCode = OpGameLost
		if ev.Kind == app.EventGameWon {
			opCode = OpGameWon
		}
		msg = gameEndedMessage{
			Outcome:  string(p.Outcome),
			Moves:    p.Moves,
			TimeUsed: p.TimeUsed,
			Rating:   p.Rating,
			Stars:    domain.StarArray(p.Rating.Stars),
		}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal %s: %w", ev.Kind, err)
	}
	return opCode, data, nil
}
