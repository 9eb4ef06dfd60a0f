package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/game"
)

const bignum = 1<<63 - 2

// MaxReserve is the largest reserve count with its own key. Larger counts
// are mixed in with hashUint64.
const MaxReserve = 24

// generate a zobrist hash for a position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	sideBToMove uint64

	posTable     [board.Dim * board.Dim][board.NumSquareCodes]uint64
	reserveTable [2][MaxReserve + 1]uint64
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		// code 0 is an empty square and keeps a zero key.
		for j := 1; j < board.NumSquareCodes; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	for s := range z.reserveTable {
		for j := range z.reserveTable[s] {
			z.reserveTable[s][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.sideBToMove = frand.Uint64n(bignum) + 1
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func (z *Zobrist) reserveKey(side board.Side, n int) uint64 {
	if n <= MaxReserve {
		return z.reserveTable[side][n]
	}
	return hashUint64(uint64(n)<<1 | uint64(side))
}

func (z *Zobrist) Hash(st *game.State) uint64 {
	key := uint64(0)
	for y := 0; y < board.Dim; y++ {
		for x := 0; x < board.Dim; x++ {
			key ^= z.posTable[y*board.Dim+x][st.Board.SquareCode(x, y)]
		}
	}
	key ^= z.reserveKey(board.SideA, st.Reserves[board.SideA])
	key ^= z.reserveKey(board.SideB, st.Reserves[board.SideB])
	if st.ToMove == board.SideB {
		key ^= z.sideBToMove
	}
	return key
}

// Update turns the hash of before into the hash of after. It compares every
// square and re-keys only those whose contents differ, then the reserves and
// the side to move.
func (z *Zobrist) Update(key uint64, before, after *game.State) uint64 {
	for y := 0; y < board.Dim; y++ {
		for x := 0; x < board.Dim; x++ {
			c1, c2 := before.Board.SquareCode(x, y), after.Board.SquareCode(x, y)
			if c1 == c2 {
				continue
			}
			i := y*board.Dim + x
			key ^= z.posTable[i][c1] ^ z.posTable[i][c2]
		}
	}
	for _, s := range []board.Side{board.SideA, board.SideB} {
		if before.Reserves[s] != after.Reserves[s] {
			key ^= z.reserveKey(s, before.Reserves[s]) ^ z.reserveKey(s, after.Reserves[s])
		}
	}
	if before.ToMove != after.ToMove {
		key ^= z.sideBToMove
	}
	return key
}
