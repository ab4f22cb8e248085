// Package roundid issues identifiers for dealt rounds: a UUIDv7 rendered as
// 26 lowercase Crockford base32 characters, so IDs sort by deal time.
package roundid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	// Length of an encoded ID.
	Length = 26
)

// RandSource supplies randomness; *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator issues round IDs.
type Generator struct {
	clock quartz.Clock
	rand  RandSource
}

// NewGenerator returns a generator reading time from clock. A nil clock uses
// the wall clock and a nil source uses crypto/rand.
func NewGenerator(clock quartz.Clock, source RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rand: source}
}

// New returns an ID from the wall clock and crypto/rand.
func New() string {
	return NewGenerator(nil, nil).Next()
}

// Next returns a fresh ID.
func (g *Generator) Next() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var u [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	for i := range 6 {
		u[i] = byte(ms >> (40 - 8*i))
	}

	if g.rand != nil {
		for i := 6; i < 16; i++ {
			u[i] = byte(g.rand.IntN(256))
		}
	} else if _, err := rand.Read(u[6:]); err != nil {
		panic("roundid: reading random bytes: " + err.Error())
	}

	u[6] = (u[6] & 0x0f) | 0x70 // version 7
	u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant
	return u
}

// encode writes the 128-bit value as 130 bits with two leading zero bits, so
// the first character is always 0-7.
func encode(u [16]byte) string {
	hi := binary.BigEndian.Uint64(u[:8])
	lo := binary.BigEndian.Uint64(u[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

func decode(id string) ([16]byte, error) {
	var u [16]byte
	if len(id) != Length {
		return u, fmt.Errorf("round id %q: want %d characters, got %d", id, Length, len(id))
	}
	if id[0] > '7' {
		return u, fmt.Errorf("round id %q: value overflows 128 bits", id)
	}

	var hi, lo uint64
	for i := range Length {
		v := strings.IndexByte(alphabet, id[i])
		if v < 0 {
			return u, fmt.Errorf("round id %q: invalid character %q", id, id[i])
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}
	binary.BigEndian.PutUint64(u[:8], hi)
	binary.BigEndian.PutUint64(u[8:], lo)
	return u, nil
}

// Time extracts the millisecond timestamp embedded in an ID.
func Time(id string) (time.Time, error) {
	u, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	var ms uint64
	for i := range 6 {
		ms = ms<<8 | uint64(u[i])
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// Valid reports whether id is a well-formed version 7 round ID.
func Valid(id string) bool {
	u, err := decode(id)
	return err == nil && u[6]>>4 == 7 && u[8]>>6 == 2
}
