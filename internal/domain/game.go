package domain

import (
	"math/rand"
	"time"
)

// Outcome is the result state of a game.
type Outcome string

const (
	// OutcomePlaying means the game is still undecided.
	OutcomePlaying Outcome = "playing"
	// OutcomeWon means every pair was matched before the countdown ran out.
	OutcomeWon Outcome = "won"
	// OutcomeLost means the countdown reached zero first.
	OutcomeLost Outcome = "lost"
)

// noCard marks an empty slot in the selection buffer.
const noCard = -1

// Game is the authoritative state of one memory game.
//
// Time only moves through Advance; Game never reads the wall clock, so a host can
// drive it from a match loop and tests can drive it synthetically.
type Game struct {
	Config       DifficultyConfig
	Deck         []Card
	First        int
	Second       int
	MatchedCount int
	Moves        int
	Remaining    int // seconds left on the countdown
	Active       bool
	Processing   bool
	Outcome      Outcome

	// Elapsed is the virtual clock, measured from NewGame.
	Elapsed   time.Duration
	ticks     int
	resolveAt time.Duration
}

// FlipResult describes an accepted flip. Accepted is false for ignored flips.
type FlipResult struct {
	Accepted     bool
	Index        int
	Face         string
	PairComplete bool // true when this flip filled the second slot
}

// Resolution is the outcome of comparing a selected pair.
type Resolution struct {
	First   int
	Second  int
	Matched bool
}

// StepKind distinguishes what happened at a point on the virtual clock.
type StepKind int

const (
	StepTick StepKind = iota
	StepResolve
)

// Step is one timed transition produced by Advance, in chronological order.
type Step struct {
	Kind       StepKind
	At         time.Duration
	Remaining  int
	Resolution Resolution
	Outcome    Outcome // outcome after this step
}

// NewGame deals a shuffled deck for the tier and starts the countdown.
func NewGame(cfg DifficultyConfig, rng *rand.Rand) *Game {
	deck := NewDeck(cfg.PairCount)
	ShuffleDeck(deck, rng)

	return &Game{
		Config:    cfg,
		Deck:      deck,
		First:     noCard,
		Second:    noCard,
		Remaining: cfg.TimeLimit,
		Active:    true,
		Outcome:   OutcomePlaying,
	}
}

// Flip turns a card face up. Ineligible flips are ignored.
func (g *Game) Flip(index int) FlipResult {
	if !g.Active || g.Processing {
		return FlipResult{}
	}
	if index < 0 || index >= len(g.Deck) {
		return FlipResult{}
	}
	card := &g.Deck[index]
	if card.Revealed || card.Matched {
		return FlipResult{}
	}

	card.Revealed = true
	if g.First == noCard {
		g.First = index
		return FlipResult{Accepted: true, Index: index, Face: card.Face}
	}

	// The first card is revealed, so index cannot equal First here.
	g.Second = index
	g.Moves++
	g.Processing = true
	g.resolveAt = g.Elapsed + ResolutionDelay
	return FlipResult{Accepted: true, Index: index, Face: card.Face, PairComplete: true}
}

// Advance moves the virtual clock forward, firing due resolutions and countdown
// ticks in order. A resolution due at the same instant as a tick fires first.
func (g *Game) Advance(elapsed time.Duration) []Step {
	if elapsed <= 0 {
		return nil
	}
	target := g.Elapsed + elapsed

	var steps []Step
	for g.Active {
		next := g.nextTick()
		resolving := g.Processing && g.resolveAt <= next
		due := next
		if resolving {
			due = g.resolveAt
		}
		if due > target {
			break
		}
		g.Elapsed = due

		if resolving {
			res := g.resolve()
			steps = append(steps, Step{Kind: StepResolve, At: due, Remaining: g.Remaining, Resolution: res, Outcome: g.Outcome})
			continue
		}

		g.tick()
		steps = append(steps, Step{Kind: StepTick, At: due, Remaining: g.Remaining, Outcome: g.Outcome})
	}

	g.Elapsed = target
	return steps
}

// TimeUsed is the number of countdown seconds consumed so far.
func (g *Game) TimeUsed() int {
	return g.Config.TimeLimit - g.Remaining
}

// PendingResolution reports whether a selected pair is waiting to be resolved.
func (g *Game) PendingResolution() bool {
	return g.Processing
}

func (g *Game) nextTick() time.Duration {
	return time.Duration(g.ticks+1) * TickInterval
}

func (g *Game) tick() {
	g.ticks++
	g.Remaining--
	if g.Remaining > 0 {
		return
	}
	g.Remaining = 0
	g.end(OutcomeLost)
}

func (g *Game) resolve() Resolution {
	first, second := &g.Deck[g.First], &g.Deck[g.Second]
	res := Resolution{First: g.First, Second: g.Second}

	if first.Face == second.Face {
		first.Matched, second.Matched = true, true
		g.MatchedCount++
		res.Matched = true
	} else {
		first.Revealed, second.Revealed = false, false
	}

	g.clearSelection()
	if res.Matched && g.MatchedCount == g.Config.PairCount {
		g.end(OutcomeWon)
	}
	return res
}

// end stops the game; anything still pending is dropped.
func (g *Game) end(outcome Outcome) {
	g.Outcome = outcome
	g.Active = false
	g.clearSelection()
}

func (g *Game) clearSelection() {
	g.First, g.Second = noCard, noCard
	g.Processing = false
	g.resolveAt = 0
}

// CardView is the client-visible projection of a card; faces stay hidden until revealed.
type CardView struct {
	ID       int    `json:"id"`
	Face     string `json:"face,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// Board returns the client-visible view of the deck.
func (g *Game) Board() []CardView {
	out := make([]CardView, len(g.Deck))
	for i, c := range g.Deck {
		view := CardView{ID: c.ID, Revealed: c.Revealed, Matched: c.Matched}
		if c.Revealed || c.Matched {
			view.Face = c.Face
		}
		out[i] = view
	}
	return out
}
