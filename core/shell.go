package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/fatih/color"
	"github.com/sajari/fuzzy"

	"github.com/nesh-sh/nesh/core/runner"
	"github.com/nesh-sh/nesh/core/script"
	"github.com/nesh-sh/nesh/core/state"
	"github.com/nesh-sh/nesh/errors"
)

// Shell is the interactive loop: it reads a line, decides whether it is Nesh
// Script or a system command, and feeds it to the interpreter or to raw
// passthrough execution.
type Shell struct {
	nesh     *Nesh
	rl       *readline.Instance
	quiet    *runner.ShellRunner
	errColor *color.Color
	hintCol  *color.Color
}

// NewShell sets up the readline instance with history and tab completion.
func NewShell(n *Nesh) (*Shell, error) {
	cfg := &readline.Config{
		Prompt:       "nesh> ",
		AutoComplete: &completer{nesh: n},
		HistoryFile:  filepath.Join(n.Config.Home(), "history"),
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		nesh:     n,
		rl:       rl,
		quiet:    &runner.ShellRunner{},
		errColor: color.New(color.FgRed),
		hintCol:  color.New(color.FgCyan),
	}, nil
}

// Run is the read-eval loop. It returns nil on EXIT or EOF; errors raised by
// individual lines are reported and never terminate the loop.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	for {
		s.rl.SetPrompt(s.prompt())
		line, err := s.rl.Readline()

		switch {
		case err == io.EOF:
			s.printExit()
			return nil

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			return err
		}

		if stop := s.eval(ctx, line); stop {
			return nil
		}
	}
}

func (s *Shell) eval(ctx context.Context, line string) (stop bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	// Word-level alias expansion: an alias in command position is replaced
	// by its expansion, keeping the rest of the line.
	fields := strings.Fields(line)
	if alias, ok := s.nesh.State.Aliases.Lookup(fields[0]); ok {
		line = alias.Expansion
		if len(fields) > 1 {
			line += " " + strings.Join(fields[1:], " ")
		}
		fields = strings.Fields(line)
		if len(fields) == 0 {
			// An alias may expand to nothing; the line is done.
			return false
		}
	}

	if s.nesh.Interp.Registry.HasVerb(fields[0]) {
		err := s.nesh.Interp.Eval(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, script.ErrExit):
			return true
		default:
			s.reportError(err)
		}
		return false
	}

	s.passthrough(ctx, line, fields[0])
	return false
}

// passthrough hands a non-Nesh line to raw process execution, capturing the
// output into LastResult like RUN CMD does.
func (s *Shell) passthrough(ctx context.Context, line, name string) {
	result, err := s.quiet.Run(ctx, line, s.nesh.Interp.Environ())
	if err != nil {
		s.reportError(err)
		return
	}

	s.nesh.State.Last = state.LastResult{
		Output:  strings.TrimSpace(result.Stdout),
		Status:  result.Status,
		Defined: true,
	}

	hide := s.nesh.State.Lookup("NESHRC_RESULT_HIDE") == state.BoolTrue
	if result.Stdout != "" && !hide {
		fmt.Fprint(s.nesh.out, result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(s.nesh.out, result.Stderr)
	}

	// 127 is the shell's "command not found"; offer a spelling suggestion
	// over the known vocabulary.
	if result.Status == 127 {
		if hint := s.suggest(name); hint != "" {
			s.hintCol.Fprintln(s.nesh.out,
				s.nesh.Messages.Render("suggestion", s.nesh.State.Language,
					map[string]string{"suggestion": hint}))
		}
	}
}

func (s *Shell) prompt() string {
	prompt := s.nesh.Messages.Render("prompt", s.nesh.State.Language, nil)
	if prompt == "" {
		prompt = "nesh> "
	}
	if s.nesh.State.Lookup("NESH_PWD_SHOW") == "IN_PROMPT" {
		if wd, err := os.Getwd(); err == nil {
			prompt = wd + " " + prompt
		}
	}
	return prompt
}

func (s *Shell) printExit() {
	s.nesh.Messages.Print(s.nesh.out, "exit_message", s.nesh.State.Language, nil)
}

func (s *Shell) reportError(err error) {
	rendered := s.nesh.Messages.Render("script_error", s.nesh.State.Language,
		map[string]string{"error": err.Error()})
	if rendered == "" {
		rendered = err.Error()
	}
	s.errColor.Fprintln(s.nesh.out, rendered)
}

// suggest trains a fuzzy model over the current vocabulary and spell-checks
// the word. Returns "" when nothing close enough exists.
func (s *Shell) suggest(word string) string {
	vocabulary := s.vocabulary()
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.Train(vocabulary)

	hint := model.SpellCheck(word)
	if hint == "" || hint == word {
		return ""
	}
	return hint
}

func (s *Shell) vocabulary() []string {
	out := s.nesh.Interp.Registry.Verbs()
	out = append(out, s.nesh.State.Aliases.Names()...)
	return out
}

// completer implements readline tab completion over verbs, subcommands and
// aliases.
type completer struct {
	nesh *Nesh
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	buf := string(line[:pos])
	start := strings.LastIndexAny(buf, " \t") + 1
	word := buf[start:]

	var options []string
	if start == 0 {
		options = append(options, c.nesh.Interp.Registry.Verbs()...)
		options = append(options, c.nesh.State.Aliases.Names()...)
	} else {
		options = c.subcommands(buf[:start])
	}

	var candidates [][]rune
	for _, opt := range options {
		if strings.HasPrefix(opt, word) && opt != word {
			candidates = append(candidates, []rune(opt[len(word):]+" "))
		}
	}
	return candidates, len([]rune(word))
}

// subcommands lists the second-word completions for the verb already typed.
func (c *completer) subcommands(prefix string) []string {
	tokens, err := shlex.Split(strings.TrimSpace(prefix), true)
	if err != nil || len(tokens) != 1 {
		return nil
	}
	var out []string
	for _, def := range c.nesh.Interp.Registry.ForVerb(tokens[0]) {
		if def.Sub != "" {
			out = append(out, def.Sub)
		}
	}
	return out
}
