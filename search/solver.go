// Package search implements move selection using depth-limited minimax
// with alpha-beta pruning.
package search

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/boop/board"
	"github.com/domino14/boop/config"
	"github.com/domino14/boop/equity"
	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
	"github.com/domino14/boop/zobrist"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
**/

// Infinity is larger than any score the evaluator or a win can produce.
const Infinity = 10000000

var ErrBadDepth = errors.New("search depth must be at least 1")

// Result is what Solve found. Move is nil if the side to move had no legal
// move, in which case Score is the static evaluation.
type Result struct {
	Move  *move.Move
	Score int
	Nodes uint64
	PV    PVLine
}

// Solver implements the minimax + alphabeta algorithm. A Solver is not
// safe for concurrent use; give each goroutine its own.
type Solver struct {
	zobrist   zobrist.Zobrist
	evaluator equity.Evaluator
	rng       *frand.RNG

	evalCacheOn bool
	evalCache   map[uint64]int
	cacheHits   uint64
	nodes       uint64

	// stack[p] is the scratch state for ply p, so that exploring a child
	// never allocates.
	stack []game.State
}

// Init initializes the solver.
func (s *Solver) Init(cfg *config.Config) {
	s.zobrist = zobrist.Zobrist{}
	s.zobrist.Initialize()
	s.evaluator = equity.MaterialEvaluator{}
	s.evalCacheOn = true
	if cfg != nil {
		s.evalCacheOn = cfg.GetBool(config.ConfigEvalCache)
	}
}

// NewSolver returns an initialized solver.
func NewSolver(cfg *config.Config) *Solver {
	s := &Solver{}
	s.Init(cfg)
	return s
}

func (s *Solver) SetEvalCache(on bool) {
	s.evalCacheOn = on
}

func (s *Solver) SetEvaluator(e equity.Evaluator) {
	s.evaluator = e
}

// SetSeed makes the root shuffle reproducible.
func (s *Solver) SetSeed(seed uint64) {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	s.rng = frand.NewCustom(buf[:], 1024, 12)
}

func (s *Solver) shuffle(moves []*move.Move) {
	swap := func(i, j int) { moves[i], moves[j] = moves[j], moves[i] }
	if s.rng != nil {
		s.rng.Shuffle(len(moves), swap)
		return
	}
	frand.Shuffle(len(moves), swap)
}

func (s *Solver) evaluate(st *game.State, key uint64) int {
	if !s.evalCacheOn {
		return s.evaluator.Evaluate(st)
	}
	if v, ok := s.evalCache[key]; ok {
		s.cacheHits++
		return v
	}
	v := s.evaluator.Evaluate(st)
	s.evalCache[key] = v
	return v
}

// Solve searches depth plies ahead of st and returns the best move for the
// side to move. st is never modified. Among moves with equal scores the
// choice is random.
func (s *Solver) Solve(st *game.State, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, ErrBadDepth
	}
	if s.evaluator == nil {
		s.Init(nil)
	}
	tstart := time.Now()
	s.nodes = 0
	s.cacheHits = 0
	if s.evalCacheOn {
		s.evalCache = make(map[uint64]int)
	}
	if cap(s.stack) < depth+1 {
		s.stack = make([]game.State, depth+1)
	}
	s.stack = s.stack[:depth+1]
	s.stack[0] = *st
	root := &s.stack[0]
	rootKey := s.zobrist.Hash(root)

	moves := root.LegalMoves()
	if len(moves) == 0 {
		s.nodes = 1
		return Result{Score: s.evaluate(root, rootKey), Nodes: s.nodes}, nil
	}
	s.shuffle(moves)

	maximizing := root.ToMove == board.SideA
	alpha, beta := -Infinity, Infinity
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	var bestMove *move.Move
	var pv, childPV PVLine

	for _, m := range moves {
		child := &s.stack[1]
		*child = *root
		game.Simulate(child, m)
		key := s.zobrist.Update(rootKey, root, child)
		childPV.Clear()
		score := s.alphabeta(1, key, depth-1, alpha, beta, &childPV)
		// Only a strictly better score replaces the incumbent, so a child
		// that was cut off against the running bound is never picked.
		if maximizing && score > best {
			best, bestMove = score, m
			alpha = max(alpha, score)
			pv.Update(m, childPV, score)
		} else if !maximizing && score < best {
			best, bestMove = score, m
			beta = min(beta, score)
			pv.Update(m, childPV, score)
		}
	}
	s.nodes++

	log.Debug().
		Int("depth", depth).
		Str("side", root.ToMove.String()).
		Str("move", bestMove.ShortDescription()).
		Int("score", best).
		Uint64("nodes", s.nodes).
		Uint64("eval-cache-hits", s.cacheHits).
		Str("pv", pv.NLBString()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")

	return Result{Move: bestMove, Score: best, Nodes: s.nodes, PV: pv}, nil
}

// alphabeta scores the state at stack[ply]. pv receives the line that
// produced the returned value.
func (s *Solver) alphabeta(ply int, key uint64, depth int, α, β int, pv *PVLine) int {
	s.nodes++
	st := &s.stack[ply]
	if game.HasWon(st, board.SideB) {
		return -(equity.WinScore + depth)
	}
	if game.HasWon(st, board.SideA) {
		return equity.WinScore + depth
	}
	if depth == 0 {
		return s.evaluate(st, key)
	}
	moves := st.LegalMoves()
	if len(moves) == 0 {
		return s.evaluate(st, key)
	}

	child := &s.stack[ply+1]
	var childPV PVLine
	if st.ToMove == board.SideA {
		value := -Infinity
		for _, m := range moves {
			*child = *st
			game.Simulate(child, m)
			childPV.Clear()
			v := s.alphabeta(ply+1, s.zobrist.Update(key, st, child), depth-1, α, β, &childPV)
			if v > value {
				value = v
				pv.Update(m, childPV, v)
			}
			α = max(α, v)
			if β <= α {
				break
			}
		}
		return value
	}
	value := Infinity
	for _, m := range moves {
		*child = *st
		game.Simulate(child, m)
		childPV.Clear()
		v := s.alphabeta(ply+1, s.zobrist.Update(key, st, child), depth-1, α, β, &childPV)
		if v < value {
			value = v
			pv.Update(m, childPV, v)
		}
		β = min(β, v)
		if β <= α {
			break
		}
	}
	return value
}
