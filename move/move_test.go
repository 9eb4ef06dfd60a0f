package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/boop/board"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	is := is.New(t)
	seen := map[Symbol]bool{}
	for x := 0; x < board.Dim; x++ {
		for y := 0; y < board.Dim; y++ {
			s := Encode(x, y)
			is.True(s.Valid())
			is.True(!seen[s])
			seen[s] = true
			dx, dy, err := Decode(s)
			is.NoErr(err)
			is.Equal(dx, x)
			is.Equal(dy, y)
		}
	}
	is.Equal(len(seen), board.Dim*board.Dim)
}

func TestEncodingMatchesLogFormat(t *testing.T) {
	is := is.New(t)
	is.Equal(Encode(0, 0), Symbol('A'))
	is.Equal(Encode(0, 5), Symbol('F'))
	is.Equal(Encode(1, 0), Symbol('G'))
	is.Equal(Encode(5, 5), Symbol('d'))
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	is := is.New(t)
	for _, b := range []byte{'@', 'e', '\n', ' ', 'z', 0} {
		_, _, err := Decode(Symbol(b))
		is.True(errors.Is(err, ErrBadSymbol))
	}
}

func TestParseSequence(t *testing.T) {
	is := is.New(t)
	seq, err := ParseSequence("AHOV")
	is.NoErr(err)
	is.Equal(seq.String(), "AHOV")
	is.Equal(seq.Mover(0), board.SideA)
	is.Equal(seq.Mover(3), board.SideB)

	_, err = ParseSequence("AH#V")
	is.True(errors.Is(err, ErrBadSymbol))
}

func TestParseMove(t *testing.T) {
	is := is.New(t)
	m, err := ParseMove([]string{"minor", "2", "3"})
	is.NoErr(err)
	is.Equal(*m, Move{X: 2, Y: 3, Kind: board.Minor})

	m, err = ParseMove([]string{"M", "0", "5"})
	is.NoErr(err)
	is.Equal(m.Kind, board.Major)

	m, err = ParseMove([]string{"m", "0", "5"})
	is.NoErr(err)
	is.Equal(m.Kind, board.Minor)

	_, err = ParseMove([]string{"minor", "6", "0"})
	is.True(errors.Is(err, ErrBadMove))
	_, err = ParseMove([]string{"rook", "1", "1"})
	is.True(errors.Is(err, ErrBadMove))
	_, err = ParseMove([]string{"minor", "1"})
	is.True(errors.Is(err, ErrBadMove))
}
