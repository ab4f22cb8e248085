package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is a session log: one [[round]] table per settled round.
type File struct {
	Rounds []Round `toml:"round"`
}

// Encode writes a single round as a [[round]] table. Encoded rounds can be
// concatenated and decoded together as a File.
func Encode(w io.Writer, round *Round) error {
	if round == nil {
		return errors.New("history: round is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(File{Rounds: []Round{*round}})
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(round *Round) ([]byte, error) {
	var buf strings.Builder
	if err := Encode(&buf, round); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// Decode reads a session log.
func Decode(r io.Reader) (*File, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	return &f, nil
}

// ReadFile decodes the session log at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Writer appends rounds to a session log on disk.
type Writer struct {
	f *os.File
}

// OpenWriter opens path for appending, creating it when missing.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// Append writes one round followed by a blank line.
func (w *Writer) Append(round *Round) error {
	data, err := EncodeToBytes(round)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.f.Close()
}

// Summary totals a session.
type Summary struct {
	Rounds int
	Hands  int
	Wins   int
	Losses int
	Pushes int
	Net    int
}

// Summarise totals every round in f.
func (f *File) Summarise() Summary {
	var s Summary
	for _, r := range f.Rounds {
		s.Rounds++
		s.Net += r.Net
		for _, h := range r.Hands {
			s.Hands++
			switch h.Result {
			case "win":
				s.Wins++
			case "loss":
				s.Losses++
			case "push":
				s.Pushes++
			}
		}
	}
	return s
}
