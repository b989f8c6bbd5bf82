package config

import "fmt"

// Load builds the editor's startup Options by applying, in order: the
// per-user RC file, the system RC file, then the real command-line
// arguments. Every source is scanned by the same stateful parser, so a
// keymap definition opened by "$HOME/.mlerc" can still gain "-k" bindings
// supplied on the command line.
func Load(home string, cliArgs []string) (Options, error) {
	opts := Default()

	for _, path := range RCPaths(home) {
		lines, err := readRCLines(path)
		if err != nil {
			return opts, fmt.Errorf("config: reading %s: %w", path, err)
		}
		for _, line := range lines {
			argv := append([]string{"mle"}, rcLineToArgv(line)...)
			if err := ParseArgs(argv, &opts); err != nil {
				return opts, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}

	if err := ParseArgs(append([]string{"mle"}, cliArgs...), &opts); err != nil {
		return opts, err
	}

	return opts, nil
}
