package engine

import (
	"testing"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectedActionLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		action  Action
		wantErr error
		wantMsg string
	}{
		{"hit while betting", Hit{}, ErrInvalidAction, "Cannot hit during betting"},
		{"insurance while betting", ResolveInsurance{Buy: true}, ErrInvalidAction, "Cannot answer insurance during betting"},
		{"bet over bankroll", bet(2000, 0), ErrInsufficientFunds, ""},
		{"bet over table max", bet(501, 0), ErrTableLimitExceeded, ""},
		{"rebet without history", ReBet{}, ErrIncompatibleHistory, ""},
		{"unknown mode", SetGameMode{Mode: "tournament"}, ErrInvalidAction, `Unknown game mode "tournament"`},
		{"nil action", nil, ErrInvalidAction, "No action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := apply(t, NewState(3, DefaultRules(), 1), bet(50, 1))

			next, err := Reduce(s, tt.action)
			require.ErrorIs(t, err, tt.wantErr)
			require.NotEmpty(t, next.Message)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, next.Message)
			}

			next.Message = ""
			assert.Equal(t, s, next)
		})
	}
}

func TestMinimumBet(t *testing.T) {
	t.Parallel()

	s := apply(t, NewState(1, DefaultRules(), 1), bet(5, 0))
	next, err := Reduce(s, DealGame{})
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, "Minimum bet is $10", next.Message)
	assert.Equal(t, PhaseBetting, next.Phase)
	assert.Equal(t, 5, next.Book.Spots[0].Bet)
	assert.Equal(t, s.Shoe.Remaining(), next.Shoe.Remaining())
}

func TestReBetRestoresSnapshot(t *testing.T) {
	t.Parallel()

	s := NewState(11, DefaultRules(), 1)
	s = apply(t, s,
		bet(25, 0), bet(10, 0), bet(40, 2),
		PlaceBet{Amount: 5, Type: ledger.Pairs},
		DealGame{})
	s = playOut(t, s)

	before := power(s, 0)
	s = apply(t, s, ResetGame{}, ReBet{})

	assert.Equal(t, 35, s.Book.Spots[0].Bet)
	assert.Equal(t, []int{25, 10}, s.Book.Spots[0].Chips)
	assert.Zero(t, s.Book.Spots[1].Bet)
	assert.Equal(t, 40, s.Book.Spots[2].Bet)
	assert.Equal(t, 5, s.Book.Side.Pairs)
	assert.Equal(t, before-80, power(s, 0))
}

func TestDealFromResolvingReplaysWager(t *testing.T) {
	t.Parallel()

	s := apply(t, NewState(12, DefaultRules(), 1), bet(30, 1), DealGame{})
	s = playOut(t, s)
	settled := s.Round
	before := power(s, 0)

	s = apply(t, s, DealGame{RoundID: "second"})
	assert.Equal(t, "second", s.RoundID)
	require.NotEmpty(t, s.Hands)
	assert.Equal(t, 1, s.Hands[0].Spot)

	if s.Phase == PhaseResolving {
		assert.Equal(t, settled+1, s.Round)
	} else {
		assert.Equal(t, before-30, power(s, 0))
	}
}

func TestReBetFailsAfterSeatChange(t *testing.T) {
	t.Parallel()

	s := apply(t, NewState(13, DefaultRules(), 1), bet(30, 0), DealGame{})
	s = playOut(t, s)
	s = apply(t, s, SetPlayerCount{N: 2})

	_, err := Reduce(s, ReBet{})
	assert.ErrorIs(t, err, ErrIncompatibleHistory)
}

func TestReplayedWagerRespectsTableLimit(t *testing.T) {
	t.Parallel()

	s := apply(t, stacked(t, "Ts9hTc7d"), bet(500, 0), DealGame{}, Stand{})
	require.Equal(t, PhaseResolving, s.Phase)
	require.Equal(t, 1500, power(s, 0))

	limit := 100
	s = apply(t, s, UpdateRules{Patch: RulesPatch{MaxBet: &limit}})

	next, err := Reduce(s, DealGame{})
	require.ErrorIs(t, err, ErrTableLimitExceeded)
	assert.Equal(t, PhaseResolving, next.Phase)
	assert.Equal(t, 1500, power(next, 0))
	assert.Zero(t, next.Book.TotalBet())
	assert.Equal(t, s.Hands, next.Hands)

	s = apply(t, s, ResetGame{})
	next, err = Reduce(s, ReBet{})
	require.ErrorIs(t, err, ErrTableLimitExceeded)
	assert.Zero(t, next.Book.TotalBet())
	assert.Equal(t, 1500, power(next, 0))
}

func TestHandIDGuard(t *testing.T) {
	t.Parallel()

	s := apply(t, stacked(t, "Ts6hTc7d"), bet(100, 0), DealGame{})
	next, err := Reduce(s, Hit{HandID: 99})
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Len(t, next.Hands[0].Cards, 2)

	s = apply(t, s, Stand{HandID: s.Hands[0].ID})
	assert.Equal(t, PhaseResolving, s.Phase)
}

func TestStackedShoeExhausted(t *testing.T) {
	t.Parallel()

	s := apply(t, stacked(t, "2s3hTc7d"), bet(100, 0), DealGame{})
	next, err := Reduce(s, Hit{})
	require.ErrorIs(t, err, ErrShoeExhausted)
	assert.Len(t, next.Hands[0].Cards, 2)
	assert.Equal(t, PhasePlayerTurn, next.Phase)
}

func TestResetGame(t *testing.T) {
	t.Parallel()

	t.Run("refunds bets while betting", func(t *testing.T) {
		t.Parallel()
		s := apply(t, NewState(1, DefaultRules(), 1), bet(50, 0), ResetGame{})
		assert.Equal(t, 1000, power(s, 0))
		assert.Zero(t, s.Book.TotalBet())
	})

	t.Run("voids a round in progress", func(t *testing.T) {
		t.Parallel()
		s := apply(t, stacked(t, "8s8hTc7d3c"), bet(100, 0), DealGame{}, Split{})
		require.Equal(t, 800, power(s, 0))

		s = apply(t, s, ResetGame{})
		assert.Equal(t, PhaseBetting, s.Phase)
		assert.Empty(t, s.Hands)
		assert.Empty(t, s.Dealer)
		assert.Equal(t, 1000, power(s, 0))
	})

	t.Run("keeps a lost insurance stake", func(t *testing.T) {
		t.Parallel()
		s := apply(t, stacked(t, "Ts9hAc6d"), bet(100, 0), DealGame{})
		require.Equal(t, PhaseInsurance, s.Phase)

		s = apply(t, s, ResolveInsurance{Buy: true})
		require.Equal(t, PhasePlayerTurn, s.Phase)
		require.Equal(t, "Insurance lost", s.Message)
		require.Equal(t, 850, power(s, 0))

		s = apply(t, s, ResetGame{})
		assert.Equal(t, PhaseBetting, s.Phase)
		assert.Equal(t, 950, power(s, 0), "the main bet comes back, the insurance does not")
	})

	t.Run("after settlement", func(t *testing.T) {
		t.Parallel()
		s := apply(t, stacked(t, "Ts9hTc7d"), bet(100, 0), DealGame{}, Stand{})
		s = apply(t, s, ResetGame{})
		assert.Equal(t, PhaseBetting, s.Phase)
		assert.Equal(t, 1100, power(s, 0))
		assert.Equal(t, 1, s.Round)
	})
}

func TestUpdateRules(t *testing.T) {
	t.Parallel()

	s := NewState(1, DefaultRules(), 1)
	two := 2
	s.Count.Observe(deck.MustParseCards("2s3s")...)

	s = apply(t, s, UpdateRules{Patch: RulesPatch{Decks: &two}})
	assert.Equal(t, 2, s.Rules.Decks)
	assert.Equal(t, 104, s.Shoe.Remaining())
	assert.Zero(t, s.Count.Running)
	assert.Equal(t, EventShuffle, s.Events[0].Kind)

	three := 3
	_, err := Reduce(s, UpdateRules{Patch: RulesPatch{Decks: &three}})
	assert.ErrorIs(t, err, ErrInvalidAction)

	low := 5
	s = apply(t, s, UpdateRules{Patch: RulesPatch{MinBet: &low}})
	assert.Equal(t, 5, s.Rules.MinBet)
	assert.Equal(t, 104, s.Shoe.Remaining(), "shoe is kept when the deck count is unchanged")

	s = apply(t, stacked(t, "Ts6hTc7d"), bet(100, 0), DealGame{})
	_, err = Reduce(s, UpdateRules{Patch: RulesPatch{MinBet: &low}})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestReshuffleBeforeDeal(t *testing.T) {
	t.Parallel()

	s := NewState(21, DefaultRules(), 1)
	s.Shoe.Cards = s.Shoe.Cards[:19]
	s.Count.Observe(deck.MustParseCards("2s2h2c")...)

	s = apply(t, s, bet(10, 0), DealGame{})
	assert.Equal(t, EventShuffle, s.Events[0].Kind)
	assert.Equal(t, uint64(2), s.Shuffles)
	assert.Greater(t, s.Shoe.Remaining(), 6*deck.CardsPerDeck-20)

	visible := 0
	for _, ev := range s.Events {
		if ev.Kind == EventShuffle || ev.Hidden || ev.Kind == EventSettled || ev.Kind == EventSideBetPaid {
			continue
		}
		visible++
	}
	assert.Equal(t, visible, s.Count.Seen, "count restarts with the new shoe")
}

func TestShufflesAreReproducible(t *testing.T) {
	t.Parallel()

	a := NewState(77, DefaultRules(), 1)
	b := NewState(77, DefaultRules(), 1)
	assert.Equal(t, a.Shoe.Cards, b.Shoe.Cards)
	assert.NotEqual(t, a.Shoe.Cards, NewState(78, DefaultRules(), 1).Shoe.Cards)
}

func TestHistoryIsCapped(t *testing.T) {
	t.Parallel()

	s := NewState(5, DefaultRules(), 1)
	s = apply(t, s, bet(10, 0))
	for range HistoryLimit + 3 {
		s = apply(t, s, DealGame{})
		s = playOut(t, s)
		s.Book.Seats[0].SpendingPower = 1000
	}
	assert.Len(t, s.SeatHistory(0), HistoryLimit)
	assert.Equal(t, HistoryLimit+3, s.History[0].Round)
}

func TestClaimDailyBonus(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	s := apply(t, NewState(1, DefaultRules(), 1), ClaimDailyBonus{Now: now})
	assert.Equal(t, 1500, power(s, 0))
	assert.Equal(t, "Daily bonus: +500", s.Message)

	_, err := Reduce(s, ClaimDailyBonus{Now: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidAction)

	s = apply(t, s, ClaimDailyBonus{Now: now.Add(25 * time.Hour)})
	assert.Equal(t, 2000, power(s, 0))
}

func TestDrillMode(t *testing.T) {
	t.Parallel()

	s := apply(t, NewState(31, DefaultRules(), 1), bet(50, 0))
	s = apply(t, s, SetGameMode{Mode: ModeDrill}, SetDrillType{Kind: drill.KindPairs})
	assert.Equal(t, 1000, power(s, 0), "switching to drills refunds the felt")

	book, count, shoe := s.Book.Clone(), s.Count, s.Shoe.Remaining()

	s = apply(t, s, DealGame{})
	require.Equal(t, PhasePlayerTurn, s.Phase)
	h := s.Hands[0]
	assert.Equal(t, h.Cards[0].Rank, h.Cards[1].Rank)
	assert.Zero(t, h.Bet)

	up := s.Dealer[0]
	key := drill.KeyFor(h.Cards, up)
	s = apply(t, s, Stand{})
	require.Equal(t, PhaseResolving, s.Phase)

	assert.Equal(t, 1, s.Stats[key].Total)
	assert.Equal(t, book, s.Book)
	assert.Equal(t, count, s.Count)
	assert.Equal(t, shoe, s.Shoe.Remaining())
	assert.Zero(t, s.Round)
	assert.Empty(t, s.History)

	_, err := Reduce(s, bet(10, 0))
	assert.ErrorIs(t, err, ErrInvalidAction)

	s = apply(t, s, DealGame{})
	assert.Equal(t, PhasePlayerTurn, s.Phase)
}

func TestDrillDealsAreDeterministic(t *testing.T) {
	t.Parallel()

	run := func() []deck.Card {
		s := apply(t, NewState(32, DefaultRules(), 1), SetGameMode{Mode: ModeDrill}, DealGame{}, Hit{})
		return append(s.Hands[0].Cards, s.Dealer...)
	}
	assert.Equal(t, run(), run())
}

func TestDrillRecordsEveryDecision(t *testing.T) {
	t.Parallel()

	s := apply(t, NewState(33, DefaultRules(), 1), SetGameMode{Mode: ModeDrill}, SetDrillType{Kind: drill.KindHard})
	rng := randutil.New(33)
	decisions := 0
	for range 25 {
		s = apply(t, s, DealGame{})
		for s.Phase == PhasePlayerTurn {
			var a Action = Stand{}
			if rng.IntN(2) == 0 {
				a = Hit{}
			}
			s = apply(t, s, a)
			decisions++
		}
	}
	assert.Equal(t, decisions, s.Stats.Totals().Total)
}

func TestMistakeFeedback(t *testing.T) {
	t.Parallel()

	s := apply(t, stacked(t, "As7hTc9d5c"), bet(100, 0), DealGame{}, Stand{})
	assert.Equal(t, "Basic strategy says HIT", s.Mistake)
}

func TestAdvice(t *testing.T) {
	t.Parallel()

	s := apply(t, stacked(t, "8s8hTc7d"), bet(100, 0), DealGame{})
	m, ok := s.Advice()
	require.True(t, ok)
	assert.Equal(t, "split", m.String())

	_, ok = NewState(1, DefaultRules(), 1).Advice()
	assert.False(t, ok)
}
