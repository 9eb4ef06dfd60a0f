// Package board contains the pieces and the playing grid.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Dim is the width and height of the board.
const Dim = 6

// Side is one of the two players. SideA always moves first.
type Side uint8

const (
	SideA Side = iota
	SideB
)

func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Kind is the tier of a piece.
type Kind uint8

const (
	Minor Kind = iota
	Major
)

func (k Kind) String() string {
	if k == Major {
		return "major"
	}
	return "minor"
}

// Piece is an immutable (kind, side) pair.
type Piece struct {
	Kind Kind
	Side Side
}

func (p Piece) String() string {
	return fmt.Sprintf("%v-%v", p.Side, p.Kind)
}

// letter is the one-character representation used by ToDisplayText and
// SetFromRows.
func (p Piece) letter() byte {
	var l byte
	if p.Side == SideA {
		l = 'm'
	} else {
		l = 'k'
	}
	if p.Kind == Major {
		l -= 'a' - 'A'
	}
	return l
}

// square packs an optional piece into a byte. 0 is empty.
type square uint8

func squareOf(p Piece) square {
	return square(1 + uint8(p.Side)*2 + uint8(p.Kind))
}

func (s square) piece() (Piece, bool) {
	if s == 0 {
		return Piece{}, false
	}
	v := uint8(s) - 1
	return Piece{Kind: Kind(v & 1), Side: Side(v >> 1)}, true
}

// Board is a Dim x Dim grid of optional pieces. It is a plain value:
// assigning a Board copies the whole grid.
type Board struct {
	squares [Dim * Dim]square
}

var ErrBadFixture = errors.New("bad board fixture")

// InBounds returns whether (x, y) is on the board. x is the column and y
// the row.
func InBounds(x, y int) bool {
	return x >= 0 && x < Dim && y >= 0 && y < Dim
}

func idx(x, y int) int {
	return y*Dim + x
}

func (b *Board) At(x, y int) (Piece, bool) {
	return b.squares[idx(x, y)].piece()
}

func (b *Board) Empty(x, y int) bool {
	return b.squares[idx(x, y)] == 0
}

func (b *Board) Set(x, y int, p Piece) {
	b.squares[idx(x, y)] = squareOf(p)
}

func (b *Board) Clear(x, y int) {
	b.squares[idx(x, y)] = 0
}

// Count returns how many pieces of the given side and kind are on the board.
func (b *Board) Count(side Side, kind Kind) int {
	want := squareOf(Piece{Kind: kind, Side: side})
	n := 0
	for _, sq := range b.squares {
		if sq == want {
			n++
		}
	}
	return n
}

func (b *Board) NumEmpty() int {
	n := 0
	for _, sq := range b.squares {
		if sq == 0 {
			n++
		}
	}
	return n
}

func (b *Board) Full() bool {
	return b.NumEmpty() == 0
}

// Clean empties the board.
func (b *Board) Clean() {
	b.squares = [Dim * Dim]square{}
}

// SquareCode returns a small integer identifying the contents of a cell:
// 0 for empty, 1-4 for the four piece types. Hashing uses it.
func (b *Board) SquareCode(x, y int) int {
	return int(b.squares[idx(x, y)])
}

// NumSquareCodes is the number of distinct values SquareCode can return.
const NumSquareCodes = 5

// SetFromRows sets the board from Dim strings of Dim characters each.
// '.' is empty, m/M is a side A minor/major, k/K a side B minor/major.
func (b *Board) SetFromRows(rows []string) error {
	if len(rows) != Dim {
		return fmt.Errorf("%w: need %d rows, got %d", ErrBadFixture, Dim, len(rows))
	}
	var nb Board
	for y, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != Dim {
			return fmt.Errorf("%w: row %d has length %d", ErrBadFixture, y, len(row))
		}
		for x := 0; x < Dim; x++ {
			switch row[x] {
			case '.':
			case 'm':
				nb.Set(x, y, Piece{Minor, SideA})
			case 'M':
				nb.Set(x, y, Piece{Major, SideA})
			case 'k':
				nb.Set(x, y, Piece{Minor, SideB})
			case 'K':
				nb.Set(x, y, Piece{Major, SideB})
			default:
				return fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrBadFixture, row[x], x, y)
			}
		}
	}
	*b = nb
	return nil
}

// Rows is the inverse of SetFromRows.
func (b *Board) Rows() []string {
	rows := make([]string, Dim)
	for y := 0; y < Dim; y++ {
		var sb strings.Builder
		for x := 0; x < Dim; x++ {
			p, ok := b.At(x, y)
			if !ok {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(p.letter())
		}
		rows[y] = sb.String()
	}
	return rows
}

// ToDisplayText renders the board with coordinates for the shell.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < Dim; x++ {
		fmt.Fprintf(&sb, "%d ", x)
	}
	sb.WriteString("\n")
	for y, row := range b.Rows() {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < Dim; x++ {
			sb.WriteByte(row[x])
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
