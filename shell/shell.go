package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boop/config"
	"github.com/domino14/boop/game"
	"github.com/domino14/boop/seqlog"
	"github.com/domino14/boop/trie"
	"github.com/domino14/boop/turnplayer"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
	errSelfplayRunning   = errors.New("self-play is running; `selfplay stop` to cancel it")
)

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string

	game   *game.Game
	player *turnplayer.AIPlayer
	trie   *trie.Trie
	seqLog seqlog.Log

	selfplayCancel context.CancelFunc
	selfplayDone   chan struct{}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up the readline prompt and loads the trie and the
// sequence log named by cfg.
func NewShellController(cfg *config.Config, execPath string) (*ShellController, error) {
	sc, err := newController(cfg, execPath)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[35mboop>\033[0m ",
		HistoryFile:     "/tmp/boop_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		sc.Cleanup()
		return nil, err
	}
	sc.l = l
	return sc, nil
}

func newController(cfg *config.Config, execPath string) (*ShellController, error) {
	if err := os.MkdirAll(cfg.GetString(config.ConfigDataPath), 0755); err != nil {
		return nil, err
	}
	sl, err := seqlog.Open(cfg.GetString(config.ConfigSequenceLogBackend), cfg.SequenceLogFile())
	if err != nil {
		return nil, err
	}
	t, rep, err := trie.Prepare(context.Background(), cfg.TrieFile(), sl)
	if err != nil {
		sl.Close()
		return nil, err
	}
	log.Info().Int("nodes", t.NumNodes()).Int("ingested", rep.Inserted).Msg("trie-ready")
	p, err := turnplayer.NewAIPlayer(cfg, t)
	if err != nil {
		sl.Close()
		return nil, err
	}
	return &ShellController{
		config:   cfg,
		execPath: execPath,
		trie:     t,
		seqLog:   sl,
		player:   p,
	}, nil
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l == nil {
		return os.Stderr
	}
	return sc.l.Stderr()
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// splitLine splits a line into fields using shell quoting rules. A backslash
// is a board symbol (square (4,3)), not an escape, so it is doubled first.
func splitLine(line string) ([]string, error) {
	return shellquote.Split(strings.ReplaceAll(line, `\`, `\\`))
}

// extractFields splits a line into a command, its positional arguments, and
// its `-key value` options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := splitLine(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") && len(fields[idx]) > 1 {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errors.New("sending quit signal")
	case "script":
		return sc.script(cmd)
	}
	return sc.dispatch(cmd)
}

// dispatch runs every command that is also reachable from a script.
func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "place", "p":
		return sc.place(cmd)
	case "ai":
		return sc.aiPlay(cmd)
	case "solve":
		return sc.solve(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "sequence", "seq":
		return sc.sequence(cmd)
	case "selfplay":
		return sc.selfplay(cmd)
	case "ingest":
		return sc.ingest(cmd)
	case "trie":
		return sc.trieInfo(cmd)
	case "save":
		return sc.save(cmd)
	case "analyze":
		return sc.analyze(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
		return nil, fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
	}
}

// Execute runs a single command line, as given on the command line of the
// binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
	// A one-shot selfplay should finish before the binary exits.
	sc.waitSelfplay()
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running self-play and closes the sequence log.
func (sc *ShellController) Cleanup() {
	if sc.selfplayCancel != nil {
		sc.selfplayCancel()
	}
	sc.waitSelfplay()
	if sc.seqLog != nil {
		if err := sc.seqLog.Close(); err != nil {
			log.Err(err).Msg("close-sequence-log")
		}
	}
}
