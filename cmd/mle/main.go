// Command mle is the entry point for the editor.
package main

import (
	"fmt"
	"os"

	"github.com/smorimura/mle/internal/config"
	"github.com/smorimura/mle/internal/editor"
	"github.com/smorimura/mle/internal/logging"
	"github.com/smorimura/mle/internal/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	home, _ := os.UserHomeDir()

	opts, err := config.Load(home, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mle: %v\n", err)
		return 1
	}
	if opts.Help {
		printUsage()
		return 0
	}
	if opts.Version {
		fmt.Println("mle dev")
		return 0
	}

	logging.Set(logging.New(logging.DefaultConfig()))

	backend, err := term.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mle: failed to open terminal: %v\n", err)
		return 1
	}
	if err := backend.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "mle: failed to init terminal: %v\n", err)
		return 1
	}

	ed, err := editor.New(backend, opts)
	if err != nil {
		backend.Shutdown()
		fmt.Fprintf(os.Stderr, "mle: %v\n", err)
		return 1
	}
	defer ed.Shutdown()

	ed.HandleSignals()

	if err := ed.RunScript(); err != nil {
		fmt.Fprintf(os.Stderr, "mle: %v\n", err)
		return 1
	}

	if len(opts.Targets) == 0 {
		ed.Open("", nil, 0)
	} else {
		for _, t := range opts.Targets {
			content, err := os.ReadFile(t.Path)
			if err != nil {
				content = nil
			}
			ed.Open(t.Path, content, t.Line)
		}
	}

	if err := ed.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mle: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "mle - modal terminal text editor\n\n")
	fmt.Fprintf(os.Stderr, "Usage: mle [options] [file[:line]]...\n")
}
