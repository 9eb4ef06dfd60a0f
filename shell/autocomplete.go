package shell

import (
	"strings"

	"github.com/domino14/boop/move"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"place":    {Args: []string{"minor", "major"}},
	"ai":       {Options: []string{"-dry"}},
	"selfplay": {Args: []string{"stop"}, Options: []string{"-opponent"}},
	"help":     {Args: []string{"place", "ai", "selfplay", "trie", "script"}},
}

var commandNames = []string{
	"new", "show", "place", "ai", "solve", "undo", "sequence", "selfplay", "ingest",
	"trie", "save", "analyze", "script", "help", "exit",
}

var boolValues = []string{"true", "false"}
var opponentValues = []string{"ai", "random"}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := splitLine(text)
	if err != nil {
		// Unbalanced quotes while typing.
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}
		switch lastCompleteField {
		case "-dry":
			completions = boolValues
		case "-opponent":
			completions = opponentValues
		}
		if cmdName == "trie" && len(fields) <= 2 {
			completions = c.trieContinuations(prefix)
		}
		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// trieContinuations extends an encoded prefix by one recorded move.
func (c *ShellCompleter) trieContinuations(prefix string) []string {
	if c.sc == nil || c.sc.trie == nil {
		return nil
	}
	seq, err := move.ParseSequence(prefix)
	if err != nil {
		return nil
	}
	id, ok := c.sc.trie.Walk(seq)
	if !ok {
		return nil
	}
	var out []string
	for _, ch := range c.sc.trie.Children(id) {
		out = append(out, prefix+string(rune(ch.Symbol)))
	}
	return out
}
