// Package display renders table state and drill statistics for a terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/engine"
)

// Card renders a card in compact notation, red suits in red.
func Card(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.Code())
	}
	return BlackCardStyle.Render(c.Code())
}

// Cards renders cards separated by spaces.
func Cards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = Card(c)
	}
	return strings.Join(parts, " ")
}

// Table renders the whole table: header, dealer, hands, seats and any
// message for the player.
func Table(s engine.State) string {
	var b strings.Builder

	header := fmt.Sprintf("Round %d • %s • %s", s.Round+1, s.Mode, s.Phase)
	if s.Mode == engine.ModeStandard {
		header += fmt.Sprintf(" • shoe %d • count %+d (true %+d)", s.Shoe.Remaining(), s.Count.Running, s.TrueCount())
	} else {
		header += fmt.Sprintf(" • %s drill", s.Drill)
	}
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")

	if len(s.Dealer) > 0 {
		dealer := Cards(s.VisibleDealer())
		if !s.HoleRevealed && len(s.Dealer) > 1 {
			dealer += " " + InfoStyle.Render("??")
		}
		fmt.Fprintf(&b, "Dealer: %s (%d)\n", dealer, s.DealerScore())
	}

	active, playing := s.Active()
	for _, h := range s.Hands {
		marker := "  "
		if playing && h.ID == active.ID {
			marker = ActiveStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%sHand %d (spot %d): %s (%d)", marker, h.ID, h.Spot+1, Cards(h.Cards), h.Score())
		if s.Mode == engine.ModeStandard {
			fmt.Fprintf(&b, " bet %d", h.Bet)
		}
		if h.Status != engine.StatusPlaying {
			fmt.Fprintf(&b, " [%s]", h.Status)
		}
		if h.Result != engine.ResultNone {
			b.WriteString(" " + resultStyle(h.Result).Render(h.Message))
		}
		b.WriteString("\n")
	}

	if s.Mode == engine.ModeStandard {
		for i, seat := range s.Book.Seats {
			fmt.Fprintf(&b, "%s: %d", seat.Name, seat.SpendingPower)
			if i == 0 && s.Book.RiskFree {
				b.WriteString(InfoStyle.Render(" (risk-free round)"))
			}
			b.WriteString("\n")
		}
		for i, spot := range s.Book.Spots {
			if spot.Bet > 0 {
				fmt.Fprintf(&b, "Spot %d: %d\n", i+1, spot.Bet)
			}
		}
		if side := s.Book.Side; side.Total() > 0 {
			fmt.Fprintf(&b, "Side bets: pairs %d, 21+3 %d\n", side.Pairs, side.Poker)
		}
		fmt.Fprintf(&b, "%s\n", InfoStyle.Render(fmt.Sprintf("Jackpot %.2f", s.Book.Jackpot())))
	}

	if s.Phase == engine.PhaseResolving && s.Mode == engine.ModeStandard {
		net := fmt.Sprintf("Net %+d", s.NetPayout)
		if s.NetPayout >= 0 {
			b.WriteString(SuccessStyle.Render(net))
		} else {
			b.WriteString(ErrorStyle.Render(net))
		}
		b.WriteString("\n")
	}
	if s.Mistake != "" {
		b.WriteString(WarningStyle.Render(s.Mistake) + "\n")
	}
	if s.Message != "" {
		b.WriteString(s.Message + "\n")
	}
	return b.String()
}

func resultStyle(r engine.Result) lipgloss.Style {
	switch r {
	case engine.ResultWin:
		return SuccessStyle
	case engine.ResultLoss:
		return ErrorStyle
	default:
		return InfoStyle
	}
}
