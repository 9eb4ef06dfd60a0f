package move

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/boop/board"
)

// Symbol is the one-byte encoding of a board cell. It labels trie edges and
// makes up the lines of the sequence log.
type Symbol byte

const (
	firstSymbol = Symbol('A')
	lastSymbol  = firstSymbol + board.Dim*board.Dim - 1
)

var ErrBadSymbol = errors.New("symbol outside of board range")

// Encode maps (x, y) to 'A' + Dim*x + y.
func Encode(x, y int) Symbol {
	return firstSymbol + Symbol(board.Dim*x+y)
}

// Decode is the inverse of Encode.
func Decode(s Symbol) (x, y int, err error) {
	if !s.Valid() {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSymbol, byte(s))
	}
	v := int(s - firstSymbol)
	return v / board.Dim, v % board.Dim, nil
}

func (s Symbol) Valid() bool {
	return s >= firstSymbol && s <= lastSymbol
}

// Sequence is an ordered list of placements, both sides interleaved,
// starting with side A.
type Sequence []Symbol

// ParseSequence validates every byte of a sequence log line.
func ParseSequence(line string) (Sequence, error) {
	seq := make(Sequence, len(line))
	for i := 0; i < len(line); i++ {
		s := Symbol(line[i])
		if !s.Valid() {
			return nil, fmt.Errorf("%w: %q at index %d", ErrBadSymbol, line[i], i)
		}
		seq[i] = s
	}
	return seq, nil
}

func (s Sequence) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, sym := range s {
		sb.WriteByte(byte(sym))
	}
	return sb.String()
}

// Mover returns the side that made the move at the given index.
func (s Sequence) Mover(i int) board.Side {
	return board.Side(i % 2)
}
