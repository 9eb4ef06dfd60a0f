package move

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/boop/board"
)

// Move places a piece of the given kind at (X, Y). The side is implied by
// whoever is on turn.
type Move struct {
	X    int
	Y    int
	Kind board.Kind
}

var ErrBadMove = errors.New("could not parse move")

func New(x, y int, kind board.Kind) *Move {
	return &Move{X: x, Y: y, Kind: kind}
}

// Symbol returns the encoded position of the move's cell.
func (m *Move) Symbol() Symbol {
	return Encode(m.X, m.Y)
}

// ShortDescription looks like "minor 2,3".
func (m *Move) ShortDescription() string {
	return fmt.Sprintf("%v %d,%d", m.Kind, m.X, m.Y)
}

func (m *Move) String() string {
	return fmt.Sprintf("<move %v (%c)>", m.ShortDescription(), m.Symbol())
}

func (m *Move) Equals(o *Move) bool {
	return m.X == o.X && m.Y == o.Y && m.Kind == o.Kind
}

// ParseMove parses fields of the form `<minor|major> <x> <y>`. The kind may
// be abbreviated to its first letter.
func ParseMove(fields []string) (*Move, error) {
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: expected kind x y", ErrBadMove)
	}
	var kind board.Kind
	switch fields[0] {
	case "m":
		kind = board.Minor
	case "M":
		kind = board.Major
	default:
		switch strings.ToLower(fields[0]) {
		case "minor", "kitten":
			kind = board.Minor
		case "major", "cat":
			kind = board.Major
		default:
			return nil, fmt.Errorf("%w: unknown piece kind %q", ErrBadMove, fields[0])
		}
	}
	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMove, err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMove, err)
	}
	if !board.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) is off the board", ErrBadMove, x, y)
	}
	return New(x, y, kind), nil
}
