package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boop/automatic"
	"github.com/domino14/boop/config"
	"github.com/domino14/boop/game"
	"github.com/domino14/boop/move"
	"github.com/domino14/boop/search"
)

func (sc *ShellController) selfplayRunning() bool {
	if sc.selfplayDone == nil {
		return false
	}
	select {
	case <-sc.selfplayDone:
		return false
	default:
		return true
	}
}

func (sc *ShellController) waitSelfplay() {
	if sc.selfplayDone != nil {
		<-sc.selfplayDone
	}
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.game = game.NewGame()
	sc.player.NewGame()
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func describeOutcome(out game.Outcome) string {
	var sb strings.Builder
	for _, b := range out.Boops {
		if b.OffBoard {
			fmt.Fprintf(&sb, "booped %v off the board from %d,%d\n", b.Piece, b.From.X, b.From.Y)
		} else {
			fmt.Fprintf(&sb, "booped %v from %d,%d to %d,%d\n", b.Piece, b.From.X, b.From.Y, b.To.X, b.To.Y)
		}
	}
	if out.Trio != nil {
		t := out.Trio
		fmt.Fprintf(&sb, "trio at %d,%d %d,%d %d,%d\n", t[0].X, t[0].Y, t[1].X, t[1].Y, t[2].X, t[2].Y)
	}
	if out.Won {
		sb.WriteString("that's a win\n")
	}
	return sb.String()
}

func (sc *ShellController) play(m *move.Move) (*Response, error) {
	mover := sc.game.PlayerOnTurn()
	out, err := sc.game.PlayMove(m)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%v plays %v\n%s%s", mover, m.ShortDescription(),
		describeOutcome(out), sc.game.ToDisplayText())), nil
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	m, err := move.ParseMove(cmd.args)
	if err != nil {
		return nil, err
	}
	return sc.play(m)
}

// aiPlay has the engine choose and play a move. With `-dry true` the move
// is only shown.
func (sc *ShellController) aiPlay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	depth := sc.config.GetInt(config.ConfigSearchDepth)
	if len(cmd.args) > 0 {
		d, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		depth = d
	}
	if depth < 1 {
		return nil, search.ErrBadDepth
	}
	sc.player.SetDepth(depth)
	before := sc.player.TrieMovesUsed()
	m, err := sc.player.BestMove(sc.game)
	if err != nil {
		return nil, err
	}
	how := fmt.Sprintf("search depth %d", depth)
	if sc.player.TrieMovesUsed() > before {
		how = "sequence prior"
	}
	log.Debug().Str("move", m.ShortDescription()).Str("source", how).Msg("ai-move")
	if cmd.options["dry"] == "true" {
		return msg(fmt.Sprintf("best move: %v (%s)", m.ShortDescription(), how)), nil
	}
	resp, err := sc.play(m)
	if err != nil {
		return nil, err
	}
	resp.message = fmt.Sprintf("(%s)\n%s", how, resp.message)
	return resp, nil
}

// solve runs the search without playing and shows the expected line.
func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	depth := sc.config.GetInt(config.ConfigSearchDepth)
	if len(cmd.args) > 0 {
		d, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		depth = d
	}
	res, err := sc.player.Solver().Solve(sc.game.State(), depth)
	if err != nil {
		return nil, err
	}
	if res.Move == nil {
		return msg(fmt.Sprintf("no legal moves; static value %d", res.Score)), nil
	}
	return msg(fmt.Sprintf("best: %v  score: %d  nodes: %d\n%v",
		res.Move.ShortDescription(), res.Score, res.Nodes, res.PV)), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.UnplayLastMove(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) sequence(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	s := fmt.Sprintf("sequence: %v", sc.game.Sequence())
	if ts := sc.game.TrioSequence(); ts != nil {
		s += fmt.Sprintf("\nthrough first trio: %v", ts)
	}
	return msg(s), nil
}

// selfplay starts a batch in the background: `selfplay <n> [threads]
// [-opponent ai|random]`, or `selfplay stop`.
func (sc *ShellController) selfplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a number of games, or `stop`")
	}
	if cmd.args[0] == "stop" {
		if !sc.selfplayRunning() {
			return nil, errors.New("no self-play to stop")
		}
		sc.selfplayCancel()
		return msg("stopping self-play..."), nil
	}
	if sc.selfplayRunning() {
		return nil, errSelfplayRunning
	}
	numGames, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	threads := sc.config.GetInt(config.ConfigSelfplayThreads)
	if len(cmd.args) > 1 {
		if threads, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	}
	opts := automatic.BatchOptions{
		Trie:     sc.trie,
		Log:      sc.seqLog,
		Opponent: cmd.options["opponent"],
		Persist:  true,
	}
	ctx, cancel := context.WithCancel(context.Background())
	sc.selfplayCancel = cancel
	sc.selfplayDone = make(chan struct{})
	go func() {
		defer close(sc.selfplayDone)
		defer cancel()
		summary, err := automatic.CompVsComp(ctx, sc.config, opts, numGames, threads)
		if err != nil {
			log.Err(err).Msg("selfplay-failed")
		}
		if summary == nil {
			return
		}
		var hist bytes.Buffer
		if err := summary.Histogram(&hist, 10, 40); err != nil {
			log.Err(err).Msg("histogram-failed")
		}
		sc.showMessage(summary.String() + "\n" + hist.String())
	}()
	return msg(fmt.Sprintf("playing %d games on %d threads; `selfplay stop` to cancel",
		numGames, threads)), nil
}

// ingest reads the whole sequence log into the trie.
func (sc *ShellController) ingest(cmd *shellcmd) (*Response, error) {
	if sc.selfplayRunning() {
		return nil, errSelfplayRunning
	}
	lines, err := sc.seqLog.ReadAll(context.Background())
	if err != nil {
		return nil, err
	}
	rep := sc.trie.IngestBatch(lines)
	return msg(fmt.Sprintf("read %d lines: %d new, %d duplicate, %d rejected",
		rep.Lines, rep.Inserted, rep.Duplicates, rep.Rejected)), nil
}

// trieInfo shows trie size, and the continuations of a prefix if given.
func (sc *ShellController) trieInfo(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "nodes: %d  sequences: %d  depth: %d\n",
		sc.trie.NumNodes(), sc.trie.NumSequences(), sc.trie.Depth())
	if len(cmd.args) == 0 {
		return msg(sb.String()), nil
	}
	prefix, err := move.ParseSequence(cmd.args[0])
	if err != nil {
		return nil, err
	}
	id, ok := sc.trie.Walk(prefix)
	if !ok {
		return nil, fmt.Errorf("prefix %v is not in the trie", prefix)
	}
	children := sc.trie.Children(id)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Value > children[j].Value })
	fmt.Fprintf(&sb, "%v: value %.4f, %d continuations\n", prefix, sc.trie.Value(id), len(children))
	for _, c := range children {
		x, y, _ := move.Decode(c.Symbol)
		fmt.Fprintf(&sb, "  %c (%d,%d) %.4f\n", c.Symbol, x, y, c.Value)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.selfplayRunning() {
		return nil, errSelfplayRunning
	}
	path := sc.config.TrieFile()
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	if err := sc.trie.SaveFile(path); err != nil {
		return nil, err
	}
	return msg("saved trie to " + path), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	a, err := automatic.AnalyzeSequenceLog(context.Background(), sc.seqLog)
	if err != nil {
		return nil, err
	}
	return msg(a.String()), nil
}
