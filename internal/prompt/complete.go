package prompt

import (
	"os/exec"
	"strings"

	"github.com/smorimura/mle/internal/command"
	"github.com/smorimura/mle/internal/view"
)

// maxStemLen bounds the completion stem taken from the prompt line; a
// longer stem aborts the completion attempt rather than shelling out with
// an unbounded argument.
const maxStemLen = 4096

// ShellRunner is the external shell-command collaborator tab-completion
// delegates to for candidate generation. Swappable so tests and
// non-POSIX hosts can supply a fake.
type ShellRunner interface {
	Complete(stem string) ([]string, error)
}

// ShellCompleter runs a configurable filename-completion command through
// /bin/sh and splits its captured stdout on newlines. This shells out via
// os/exec directly rather than proc.Process: proc models a long-lived,
// asynchronously-read subprocess for the multiplexer, whereas a
// completion query is a single synchronous round trip the prompt command
// blocks on, which has no async source to register.
type ShellCompleter struct {
	// Command is a shell command template; the stem is appended as a
	// single shell-quoted argument. Typically something like
	// "compgen -f --".
	Command string
	Shell    string
}

// NewShellCompleter creates a completer that runs command with the stem
// appended, through /bin/sh.
func NewShellCompleter(command string) *ShellCompleter {
	return &ShellCompleter{Command: command, Shell: "/bin/sh"}
}

// Complete implements ShellRunner.
func (s *ShellCompleter) Complete(stem string) ([]string, error) {
	shell := s.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	line := s.Command + " " + shellQuote(stem)
	out, err := exec.Command(shell, "-c", line).Output()
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimRight(string(out), "\n")
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// cmdTabComplete implements the tab-completion contract: the first tab in
// a streak (the previous command wasn't tab-complete itself) snapshots the
// prompt line as the stem and queries the shell collaborator; each
// subsequent tab in the same streak cycles to the next candidate.
func (c *Controller) cmdTabComplete(ctx *command.Context) command.Result {
	if c.shell == nil {
		return command.NoOp()
	}
	v := ctx.View.(*view.View)
	lc := loopCtx(ctx)

	streak := lc.LastCmd == c.tabRef
	if !streak {
		stem := v.Buffer.Text()
		if len(stem) > maxStemLen {
			return command.NoOp()
		}
		candidates, err := c.shell.Complete(stem)
		if err != nil {
			return command.Failed(err)
		}
		if len(candidates) == 0 {
			return command.NoOp()
		}
		c.tabStem = stem
		c.tabCandidates = candidates
		c.tabIndex = 0
	} else {
		if len(c.tabCandidates) == 0 {
			return command.NoOp()
		}
		c.tabIndex++
	}

	choice := c.tabCandidates[c.tabIndex%len(c.tabCandidates)]
	v.Buffer.SetText(choice)
	v.Cursor.Col = len(choice)
	// lc.LastCmd is set to this command's own reference by the loop right
	// after this returns, which is what makes the next tab register as
	// part of the same streak.
	c.notifyChange(v)
	return command.OK()
}
