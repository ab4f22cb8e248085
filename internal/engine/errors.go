package engine

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/ledger"
)

// Errors returned by Reduce. Money errors originate in the ledger and the
// exhausted shoe in the deck package; they are re-exported here so callers
// only need one import.
var (
	ErrInsufficientFunds   = ledger.ErrInsufficientFunds
	ErrTableLimitExceeded  = ledger.ErrTableLimitExceeded
	ErrIncompatibleHistory = ledger.ErrIncompatibleHistory
	ErrShoeExhausted       = deck.ErrShoeExhausted
	ErrInvalidAction       = errors.New("invalid action")
)

// rejection carries the text shown to the player alongside the sentinel the
// caller can test with errors.Is.
type rejection struct {
	err error
	msg string
}

func (r *rejection) Error() string { return r.err.Error() + ": " + r.msg }
func (r *rejection) Unwrap() error { return r.err }

func reject(err error, format string, args ...any) error {
	return &rejection{err: err, msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return reject(ErrInvalidAction, format, args...)
}

// userMessage renders err for State.Message.
func userMessage(err error) string {
	var r *rejection
	if errors.As(err, &r) {
		return r.msg
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && errors.Is(err, ledger.ErrInvalidBet) {
		msg = msg[i+2:]
	}
	return capitalise(msg)
}

func capitalise(msg string) string {
	if msg == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(first)) + msg[size:]
}
