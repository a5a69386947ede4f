package app

import (
	"math/rand"
	"time"

	"memorygarden/internal/domain"
)

// Service contains memory-game use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// StartGame deals a fresh game for the tier. The returned game replaces any previous
// one wholesale, so nothing scheduled by an older game can fire on it.
func (s *Service) StartGame(difficulty domain.Difficulty) (*domain.Game, []Event, error) {
	cfg, ok := domain.ConfigFor(difficulty)
	if !ok {
		return nil, nil, domain.ErrUnknownDifficulty
	}

	game := domain.NewGame(cfg, s.rng)
	events := []Event{
		{
			Kind: EventGameStarted,
			Payload: GameStartedPayload{
				Difficulty: cfg.Difficulty,
				CardCount:  cfg.CardCount,
				PairCount:  cfg.PairCount,
				TimeLimit:  cfg.TimeLimit,
				Board:      game.Board(),
			},
		},
	}
	return game, events, nil
}

// Flip processes a card click. Ignored clicks produce no events.
func (s *Service) Flip(game *domain.Game, index int) []Event {
	if game == nil {
		return nil
	}
	res := game.Flip(index)
	if !res.Accepted {
		return nil
	}
	return []Event{
		{
			Kind: EventCardRevealed,
			Payload: CardRevealedPayload{
				Index: res.Index,
				Face:  res.Face,
				Moves: game.Moves,
			},
		},
	}
}

// Advance moves the game clock and converts every timed transition into events.
// The final event of a finished game is EventGameWon or EventGameLost.
func (s *Service) Advance(game *domain.Game, elapsed time.Duration) []Event {
	if game == nil {
		return nil
	}

	var events []Event
	for _, step := range game.Advance(elapsed) {
		switch step.Kind {
		case domain.StepResolve:
			kind := EventPairMismatched
			if step.Resolution.Matched {
				kind = EventPairMatched
			}
			events = append(events, Event{
				Kind: kind,
				Payload: PairResolvedPayload{
					First:        step.Resolution.First,
					Second:       step.Resolution.Second,
					MatchedCount: game.MatchedCount,
				},
			})
		case domain.StepTick:
			events = append(events, Event{
				Kind:    EventTimerTick,
				Payload: TimerTickPayload{Remaining: step.Remaining},
			})
		}

		if step.Outcome != domain.OutcomePlaying {
			events = append(events, gameEndedEvent(game))
		}
	}
	return events
}

func gameEndedEvent(game *domain.Game) Event {
	kind := EventGameLost
	if game.Outcome == domain.OutcomeWon {
		kind = EventGameWon
	}
	return Event{
		Kind: kind,
		Payload: GameEndedPayload{
			Outcome:  game.Outcome,
			Moves:    game.Moves,
			TimeUsed: game.TimeUsed(),
			Rating:   domain.RateGame(game),
		},
	}
}
