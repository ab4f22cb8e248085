package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/drill"
	"github.com/lox/blackjack/internal/strategy"
)

// AdviseCmd looks up the basic-strategy move for a hand.
type AdviseCmd struct {
	Hand   string `arg:"" help:"Player cards, e.g. AsTd or 8h8c"`
	Upcard string `arg:"" help:"Dealer upcard, e.g. 6c"`
}

func (cmd *AdviseCmd) Run(g *Globals) error {
	hand, err := deck.ParseCards(cmd.Hand)
	if err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	up, err := deck.ParseCard(cmd.Upcard)
	if err != nil {
		return fmt.Errorf("upcard: %w", err)
	}
	return advise(os.Stdout, hand, up)
}

func advise(w io.Writer, hand []deck.Card, up deck.Card) error {
	if len(hand) < 2 {
		return fmt.Errorf("hand needs at least two cards, got %d", len(hand))
	}
	move := strategy.Recommend(hand, up)
	key := drill.KeyFor(hand, up)
	fmt.Fprintf(w, "%s (%d) vs %s: %s\n", display.Cards(hand), deck.Score(hand), display.Card(up),
		display.ActiveStyle.Render(move.String()))
	fmt.Fprintf(w, "Scenario %s\n", key)
	return nil
}
