package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/history"
)

// HistoryCmd prints the rounds in a session file.
type HistoryCmd struct {
	File  string `arg:"" name:"file" type:"existingfile" help:"Path to a session history file"`
	Limit int    `help:"Maximum number of rounds to print (0 = all)"`
}

func (cmd *HistoryCmd) Run(g *Globals) error {
	f, err := history.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	if len(f.Rounds) == 0 {
		return fmt.Errorf("no rounds found in %s", cmd.File)
	}
	printHistory(os.Stdout, f, cmd.Limit)
	return nil
}

func printHistory(w io.Writer, f *history.File, limit int) {
	if limit <= 0 || limit > len(f.Rounds) {
		limit = len(f.Rounds)
	}
	for _, r := range f.Rounds[:limit] {
		fmt.Fprintf(w, "%s #%d  dealer %s (%d)  net %+d\n",
			r.ID, r.Number, display.Cards(r.Dealer), r.DealerSum, r.Net)
		for _, h := range r.Hands {
			fmt.Fprintf(w, "  spot %d seat %d: %s (%d) bet %d %s\n",
				h.Spot+1, h.Seat+1, display.Cards(h.Cards), h.Total, h.Bet, h.Result)
		}
	}

	sum := f.Summarise()
	fmt.Fprintf(w, "\n%d rounds, %d hands: %d won, %d lost, %d pushed, net %+d\n",
		sum.Rounds, sum.Hands, sum.Wins, sum.Losses, sum.Pushes, sum.Net)
}
