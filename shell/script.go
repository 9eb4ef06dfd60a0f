package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// scriptCommands are the shell commands exposed to Lua as boop_<name>.
var scriptCommands = []string{
	"new", "show", "place", "ai", "solve", "undo", "sequence", "selfplay",
	"ingest", "trie", "save", "analyze",
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("boop_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// bindCommand wraps a shell command as a Lua function taking the rest of the
// command line as one string. It returns the command's output, or a string
// starting with "ERROR: ".
func bindCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if lv := L.OptString(1, ""); lv != "" {
			line += " " + lv
		}
		sc := getShell(L)
		cmd, err := extractFields(line)
		if err == nil {
			var r *Response
			r, err = sc.dispatch(cmd)
			if err == nil {
				L.Push(lua.LString(r.message))
				return 1
			}
		}
		log.Err(err).Str("command", name).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
}

// Wait blocks until a background self-play batch is done.
func Wait(L *lua.LState) int {
	getShell(L).waitSelfplay()
	return 0
}

// Turn returns the number of moves played in the current game, or -1 with
// no game.
func Turn(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNumber(-1))
		return 1
	}
	L.Push(lua.LNumber(sc.game.Turn()))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("boop_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("boop_"+name, L.NewFunction(bindCommand(name)))
	}
	L.SetGlobal("boop_wait", L.NewFunction(Wait))
	L.SetGlobal("boop_turn", L.NewFunction(Turn))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("script-failed")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
