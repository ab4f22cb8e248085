package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/strategy"
)

// drillStream keeps drill randomness apart from shoe shuffles.
const drillStream = 1 << 63

func (s *State) dealGame(a DealGame) error {
	if s.Mode == ModeDrill {
		if err := s.betweenRounds("deal"); err != nil {
			return err
		}
		return s.dealDrill(a.RoundID)
	}

	switch s.Phase {
	case PhaseBetting:
	case PhaseResolving:
		s.resetRound()
		if err := s.Book.ReBet(s.Rules.MaxBet); err != nil {
			return err
		}
	default:
		return invalid("Cannot deal during %s", s.Phase)
	}

	if s.Book.TotalBet() < s.Rules.MinBet {
		return invalid("Minimum bet is $%d", s.Rules.MinBet)
	}
	return s.deal(a.RoundID)
}

func (s *State) deal(roundID string) error {
	s.resetRound()
	s.RoundID = roundID
	if s.Shoe.NeedsReshuffle() {
		s.reshuffle()
	}
	s.Phase = PhaseDealing

	s.Book.TakeSnapshot()
	for i, spot := range s.Book.TakeSpots() {
		if spot.Bet == 0 {
			continue
		}
		s.Hands = append(s.Hands, Hand{
			ID:     s.newHandID(),
			Bet:    spot.Bet,
			Status: StatusPlaying,
			Spot:   i,
			Seat:   spot.Seat,
		})
	}

	for i := range s.Hands {
		for range 2 {
			if err := s.dealTo(i); err != nil {
				return err
			}
		}
	}
	for range 2 {
		c, err := s.draw()
		if err != nil {
			return err
		}
		s.Dealer = append(s.Dealer, c)
	}
	up := s.Dealer[0]
	s.observe(up)
	s.emit(Event{Kind: EventCardDealt, Card: up})
	s.emit(Event{Kind: EventCardDealt, Hidden: true})

	if s.Book.Side.Total() > 0 {
		s.SideBets = s.Book.SettleSideBets(s.Hands[0].Cards, up)
		if s.SideBets.Paid > 0 {
			s.emit(Event{Kind: EventSideBetPaid, Amount: s.SideBets.Paid})
			s.Message = fmt.Sprintf("Side bets pay %d", s.SideBets.Paid)
		}
	}

	for i := range s.Hands {
		if deck.IsBlackjack(s.Hands[i].Cards) {
			s.Hands[i].Status = StatusBlackjack
		}
	}

	if up.IsAce() {
		s.Phase = PhaseInsurance
		return nil
	}
	if deck.IsBlackjack(s.Dealer) {
		return s.settle(ReasonDealerBJ)
	}
	return s.startPlay()
}

// dealDrill deals one generated hand against a generated dealer hand. There
// is no money, no insurance offer and no dealer peek.
func (s *State) dealDrill(roundID string) error {
	s.resetRound()
	s.RoundID = roundID
	s.Phase = PhaseDealing

	rng := s.drillRand()
	h := Hand{ID: s.newHandID(), Cards: drill.Generate(rng, s.Drill), Status: StatusPlaying}
	s.Hands = []Hand{h}
	s.Dealer = drill.DealerHand(rng)

	for _, c := range h.Cards {
		s.emit(Event{Kind: EventCardDealt, HandID: h.ID, Card: c})
	}
	s.emit(Event{Kind: EventCardDealt, Card: s.Dealer[0]})
	s.emit(Event{Kind: EventCardDealt, Hidden: true})
	return s.startPlay()
}

func (s *State) resolveInsurance(buy bool) error {
	if err := s.requirePhase("answer insurance", PhaseInsurance); err != nil {
		return err
	}

	if buy {
		total := 0
		for _, h := range s.Hands {
			total += h.Bet
		}
		if stake := ledger.InsuranceCost(total); stake > 0 {
			if err := s.Book.Seats[0].Deduct(stake); err != nil {
				return err
			}
			s.Insurance = stake
		}
	}

	if deck.IsBlackjack(s.Dealer) {
		if s.Insurance > 0 {
			s.Book.Seats[0].Credit(ledger.InsurancePayout(s.Insurance))
			s.Message = "Insurance pays!"
		}
		return s.settle(ReasonDealerBJ)
	}
	if s.Insurance > 0 {
		s.Message = "Insurance lost"
	}
	return s.startPlay()
}

func (s *State) startPlay() error {
	s.Phase = PhasePlayerTurn
	s.Current = -1
	return s.advance()
}

// advance moves to the next hand still in play, completing split hands as
// they become active. Past the last hand the dealer plays.
func (s *State) advance() error {
	for s.Current++; s.Current < len(s.Hands); s.Current++ {
		if len(s.Hands[s.Current].Cards) == 1 {
			if err := s.dealTo(s.Current); err != nil {
				return err
			}
			if s.Hands[s.Current].Score() == 21 {
				s.Hands[s.Current].Status = StatusStand
			}
		}
		if !s.Hands[s.Current].Done() {
			return nil
		}
	}
	return s.playDealer()
}

func (s *State) play(handID int, m strategy.Move) error {
	if err := s.requirePhase(m.String(), PhasePlayerTurn); err != nil {
		return err
	}
	h := s.Hands[s.Current]
	if handID != 0 && handID != h.ID {
		return invalid("Hand %d is not the active hand", handID)
	}
	if h.Done() {
		return invalid("Hand %d is already %s", h.ID, h.Status)
	}

	s.judge(h, m)

	switch m {
	case strategy.Hit:
		return s.hit()
	case strategy.Stand:
		s.Hands[s.Current].Status = StatusStand
		return s.advance()
	case strategy.Double:
		return s.doubleDown()
	case strategy.Split:
		return s.split()
	case strategy.Surrender:
		return s.surrender()
	default:
		return invalid("Unknown move %s", m)
	}
}

// judge compares the move with basic strategy. Drills record every decision.
func (s *State) judge(h Hand, taken strategy.Move) {
	up := s.Dealer[0]
	rec := strategy.Recommend(h.Cards, up)
	ok := strategy.IsCorrect(rec, taken)
	if s.Mode == ModeDrill {
		s.Stats.Record(drill.KeyFor(h.Cards, up), ok)
	}
	s.Mistake = ""
	if !ok {
		s.Mistake = "Basic strategy says " + strings.ToUpper(rec.String())
	}
}

func (s *State) hit() error {
	if err := s.dealTo(s.Current); err != nil {
		return err
	}
	h := &s.Hands[s.Current]
	switch score := h.Score(); {
	case score > 21:
		h.Status = StatusBust
	case score == 21:
		h.Status = StatusStand
	default:
		return nil
	}
	return s.advance()
}

func (s *State) doubleDown() error {
	h := &s.Hands[s.Current]
	if len(h.Cards) != 2 {
		return invalid("Double down needs exactly two cards")
	}
	if err := s.stake(h.Seat, h.Bet); err != nil {
		return err
	}
	h.Bet *= 2
	h.Doubled = true

	if err := s.dealTo(s.Current); err != nil {
		return err
	}
	h = &s.Hands[s.Current]
	if h.Score() > 21 {
		h.Status = StatusBust
	} else {
		h.Status = StatusStand
	}
	return s.advance()
}

func (s *State) split() error {
	h := &s.Hands[s.Current]
	if !deck.IsPair(h.Cards) {
		return invalid("Split needs two cards of equal value")
	}
	if err := s.stake(h.Seat, h.Bet); err != nil {
		return err
	}

	second := h.Cards[1]
	h.Cards = h.Cards[:1:1]
	h.Split = true
	s.Hands = slices.Insert(s.Hands, s.Current+1, Hand{
		ID:     s.newHandID(),
		Cards:  []deck.Card{second},
		Bet:    h.Bet,
		Status: StatusPlaying,
		Spot:   h.Spot,
		Seat:   h.Seat,
		Split:  true,
	})

	if err := s.dealTo(s.Current); err != nil {
		return err
	}
	if s.Hands[s.Current].Score() == 21 {
		s.Hands[s.Current].Status = StatusStand
		return s.advance()
	}
	return nil
}

func (s *State) surrender() error {
	if !s.Rules.SurrenderAllowed {
		return invalid("Surrender is not allowed at this table")
	}
	h := &s.Hands[s.Current]
	if len(h.Cards) != 2 {
		return invalid("Surrender is only allowed on the first two cards")
	}

	refund := ledger.SurrenderRefund(h.Bet)
	if s.Mode == ModeStandard {
		seat, err := s.Book.Seat(h.Seat)
		if err != nil {
			return err
		}
		seat.Credit(refund)
	}
	h.Status = StatusSurrender
	h.Result = ResultLoss
	h.Payout = refund
	h.Message = "Surrendered"
	return s.advance()
}

// stake charges a seat for a double or split. Drills play for nothing.
func (s *State) stake(seatIdx, amount int) error {
	if s.Mode != ModeStandard {
		return nil
	}
	seat, err := s.Book.Seat(seatIdx)
	if err != nil {
		return err
	}
	return seat.Deduct(amount)
}

func (s *State) playDealer() error {
	s.Phase = PhaseDealerTurn
	s.revealHole()

	// A table of naturals is settled on the dealer's two cards.
	naturals := !slices.ContainsFunc(s.Hands, func(h Hand) bool { return h.Status != StatusBlackjack })
	for !naturals && s.dealerHits() {
		c, err := s.draw()
		if err != nil {
			return err
		}
		s.Dealer = append(s.Dealer, c)
		s.observe(c)
		s.emit(Event{Kind: EventDealerDraw, Card: c})
	}
	return s.settle(ReasonNone)
}

func (s *State) dealerHits() bool {
	score := deck.Score(s.Dealer)
	return score < 17 || (score == 17 && s.Rules.DealerHitsSoft17 && deck.IsSoft(s.Dealer))
}

func (s *State) revealHole() {
	if s.HoleRevealed || len(s.Dealer) < 2 {
		return
	}
	s.HoleRevealed = true
	s.observe(s.Dealer[1])
	s.emit(Event{Kind: EventHoleReveal, Card: s.Dealer[1]})
}

func (s *State) settle(reason SettleReason) error {
	s.revealHole()
	s.Phase = PhaseResolving
	s.Reason = reason

	dealer := deck.Score(s.Dealer)
	dealerBJ := deck.IsBlackjack(s.Dealer)

	wagered := make(map[int]int)
	returned := make(map[int]int)
	anyWin, anyLoss, allLoss := false, false, len(s.Hands) > 0
	for i := range s.Hands {
		h := &s.Hands[i]
		if h.Status != StatusSurrender {
			h.Result, h.Payout, h.Message = outcome(*h, dealer, dealerBJ, s.Rules.BlackjackPayout)
		}
		anyWin = anyWin || h.Result == ResultWin
		anyLoss = anyLoss || h.Result == ResultLoss
		allLoss = allLoss && h.Result == ResultLoss
		wagered[h.Seat] += h.Bet
		returned[h.Seat] += h.Payout
	}

	if s.Mode == ModeDrill {
		s.emit(Event{Kind: EventSettled})
		return nil
	}

	for _, h := range s.Hands {
		if h.Status == StatusSurrender {
			continue
		}
		if seat, err := s.Book.Seat(h.Seat); err == nil {
			seat.Credit(h.Payout)
		}
	}

	if s.Book.ConsumeRiskFree(allLoss) {
		for seatIdx, lost := range wagered {
			lost -= returned[seatIdx]
			if seat, err := s.Book.Seat(seatIdx); err == nil && lost > 0 {
				seat.Credit(lost)
				returned[seatIdx] += lost
				s.RiskFreePaid += lost
			}
		}
		s.Message = "Risk-free bet refunded!"
	}

	if s.Insurance > 0 {
		wagered[0] += s.Insurance
		if reason == ReasonDealerBJ {
			returned[0] += ledger.InsurancePayout(s.Insurance)
		}
	}

	s.NetPayout = 0
	for seatIdx := range wagered {
		s.NetPayout += returned[seatIdx] - wagered[seatIdx]
	}
	s.StreakPaid = s.Book.RecordRound(anyWin, anyLoss)
	s.Round++
	s.recordHistory(wagered, returned)
	s.emit(Event{Kind: EventSettled, Amount: s.NetPayout})
	return nil
}

// outcome settles one hand against the dealer. A natural is paid before the
// dealer's total is considered, so a natural never pushes against a
// three-card 21.
func outcome(h Hand, dealer int, dealerBJ bool, ratio float64) (Result, int, string) {
	natural := h.Status == StatusBlackjack
	score := h.Score()
	switch {
	case h.Status == StatusBust:
		return ResultLoss, 0, "Bust"
	case dealerBJ && natural:
		return ResultPush, ledger.Payout(h.Bet, ledger.Push, ratio), "Push"
	case dealerBJ:
		return ResultLoss, 0, "Dealer blackjack"
	case natural:
		return ResultWin, ledger.Payout(h.Bet, ledger.Natural, ratio), "Blackjack"
	case dealer > 21:
		return ResultWin, ledger.Payout(h.Bet, ledger.Win, ratio), "Dealer bust"
	case score > dealer:
		return ResultWin, ledger.Payout(h.Bet, ledger.Win, ratio), "Win"
	case score < dealer:
		return ResultLoss, 0, "Lose"
	default:
		return ResultPush, ledger.Payout(h.Bet, ledger.Push, ratio), "Push"
	}
}

func (s *State) recordHistory(wagered, returned map[int]int) {
	var entries []HistoryEntry
	for seat := range len(s.Book.Seats) {
		w, ok := wagered[seat]
		if !ok {
			continue
		}
		e := HistoryEntry{
			RoundID:  s.RoundID,
			Round:    s.Round,
			Seat:     seat,
			Wagered:  w,
			Returned: returned[seat],
		}
		switch {
		case e.Net() > 0:
			e.Result = ResultWin
		case e.Net() < 0:
			e.Result = ResultLoss
		default:
			e.Result = ResultPush
		}
		entries = append(entries, e)
	}

	kept := make(map[int]int)
	history := make([]HistoryEntry, 0, len(entries)+len(s.History))
	for _, e := range slices.Concat(entries, s.History) {
		if kept[e.Seat] < HistoryLimit {
			kept[e.Seat]++
			history = append(history, e)
		}
	}
	s.History = history
}

func (s *State) newHandID() int {
	s.NextHandID++
	return s.NextHandID
}

// dealTo draws a card onto hand i.
func (s *State) dealTo(i int) error {
	c, err := s.draw()
	if err != nil {
		return err
	}
	s.Hands[i].Cards = append(s.Hands[i].Cards, c)
	s.observe(c)
	s.emit(Event{Kind: EventCardDealt, HandID: s.Hands[i].ID, Card: c})
	return nil
}

// draw takes the next card from the shoe, or from the unlimited drill
// source in drill mode. An empty shoe mid-round is rebuilt unless it is a
// stacked shoe.
func (s *State) draw() (deck.Card, error) {
	if s.Mode == ModeDrill {
		return drill.NewSource(s.drillRand()).Draw(), nil
	}
	if s.Shoe.Remaining() == 0 && !s.Shoe.Stacked() {
		s.reshuffle()
	}
	c, err := s.Shoe.Draw()
	if err != nil {
		return deck.Card{}, fmt.Errorf("draw: %w", err)
	}
	return c, nil
}

// observe counts a revealed card. Drills do not touch the count.
func (s *State) observe(c deck.Card) {
	if s.Mode == ModeStandard {
		s.Count.Observe(c)
	}
}

func (s *State) drillRand() *rand.Rand {
	rng := randutil.Derive(s.Seed, drillStream|s.DrillDraws)
	s.DrillDraws++
	return rng
}
