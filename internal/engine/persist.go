package engine

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/store"
)

// Keys written to the store.
const (
	KeySeats         = "bj_seats"
	KeyLastDaily     = "bj_last_daily"
	KeyStrategyStats = "bj_strategy_stats"
	KeyJackpot       = "bj_jackpot"
)

// restore loads persisted seats, jackpot, daily bonus time and drill stats
// into s. Missing keys keep the defaults.
func restore(ctx context.Context, st store.Store, s *State) error {
	var seats []ledger.Seat
	ok, err := store.GetJSON(ctx, st, KeySeats, &seats)
	if err != nil {
		return err
	}
	if ok && len(seats) > 0 && len(seats) <= ledger.NumSpots {
		want := len(s.Book.Seats)
		s.Book.Seats = seats
		s.Book.Resize(want)
	}

	var cents int64
	if ok, err = store.GetJSON(ctx, st, KeyJackpot, &cents); err != nil {
		return err
	} else if ok && cents >= ledger.JackpotSeedCents {
		s.Book.JackpotCents = cents
	}

	var last time.Time
	if ok, err = store.GetJSON(ctx, st, KeyLastDaily, &last); err != nil {
		return err
	} else if ok {
		s.Book.LastDaily = last
	}

	stats := drill.Stats{}
	if ok, err = store.GetJSON(ctx, st, KeyStrategyStats, &stats); err != nil {
		return err
	} else if ok {
		s.Stats = stats
	}
	return nil
}

// save writes the keys whose values differ between prev and next.
func save(ctx context.Context, st store.Store, prev, next State) error {
	if !slices.Equal(prev.Book.Seats, next.Book.Seats) {
		if err := store.SetJSON(ctx, st, KeySeats, next.Book.Seats); err != nil {
			return err
		}
	}
	if prev.Book.JackpotCents != next.Book.JackpotCents {
		if err := store.SetJSON(ctx, st, KeyJackpot, next.Book.JackpotCents); err != nil {
			return err
		}
	}
	if !prev.Book.LastDaily.Equal(next.Book.LastDaily) {
		if err := store.SetJSON(ctx, st, KeyLastDaily, next.Book.LastDaily); err != nil {
			return err
		}
	}
	if !maps.Equal(prev.Stats, next.Stats) {
		if err := store.SetJSON(ctx, st, KeyStrategyStats, next.Stats); err != nil {
			return err
		}
	}
	return nil
}
