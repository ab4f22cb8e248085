package engine

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

// EventKind names a moment worth pausing on when presenting a round.
type EventKind string

const (
	EventShuffle     EventKind = "shuffle"
	EventCardDealt   EventKind = "card_dealt"
	EventHoleReveal  EventKind = "hole_reveal"
	EventDealerDraw  EventKind = "dealer_draw"
	EventSideBetPaid EventKind = "side_bet_paid"
	EventSettled     EventKind = "settled"
)

// Event is emitted by Reduce. HandID 0 refers to the dealer.
type Event struct {
	Kind   EventKind
	HandID int
	Card   deck.Card
	Hidden bool
	Amount int
}

// Pacing holds the pause after each kind of event. Zero disables a pause.
type Pacing struct {
	Shuffle    time.Duration
	Card       time.Duration
	HoleReveal time.Duration
	DealerDraw time.Duration
	SideBet    time.Duration
	Settle     time.Duration
}

// DefaultPacing is tuned for a person watching the table.
func DefaultPacing() Pacing {
	return Pacing{
		Shuffle:    time.Second,
		Card:       250 * time.Millisecond,
		HoleReveal: 500 * time.Millisecond,
		DealerDraw: 800 * time.Millisecond,
		SideBet:    1500 * time.Millisecond,
	}
}

func (p Pacing) delay(k EventKind) time.Duration {
	switch k {
	case EventShuffle:
		return p.Shuffle
	case EventCardDealt:
		return p.Card
	case EventHoleReveal:
		return p.HoleReveal
	case EventDealerDraw:
		return p.DealerDraw
	case EventSideBetPaid:
		return p.SideBet
	case EventSettled:
		return p.Settle
	default:
		return 0
	}
}

// Pacer turns events into pauses on a clock. The pauses carry no
// synchronisation meaning; with zero pacing Play returns immediately.
type Pacer struct {
	clock  quartz.Clock
	pacing Pacing
}

// NewPacer returns a pacer on clock.
func NewPacer(clock quartz.Clock, pacing Pacing) *Pacer {
	return &Pacer{clock: clock, pacing: pacing}
}

// Play pauses for each event in turn, calling observe (if set) before each
// pause. It stops early when ctx is cancelled.
func (p *Pacer) Play(ctx context.Context, events []Event, observe func(Event)) error {
	for _, ev := range events {
		if observe != nil {
			observe(ev)
		}
		if err := p.wait(ctx, p.pacing.delay(ev.Kind), string(ev.Kind)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pacer) wait(ctx context.Context, d time.Duration, tag string) error {
	if d <= 0 {
		return ctx.Err()
	}
	fired := make(chan struct{})
	timer := p.clock.AfterFunc(d, func() { close(fired) }, "pacer", tag)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-fired:
		return nil
	}
}
