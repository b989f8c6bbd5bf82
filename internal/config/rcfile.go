package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// RCPaths returns the RC files read on startup, in read order: the
// per-user file first, then the system-wide one. home is normally
// os.UserHomeDir(); passed explicitly so tests don't depend on the real
// environment.
func RCPaths(home string) []string {
	var paths []string
	if home != "" {
		paths = append(paths, filepath.Join(home, ".mlerc"))
	}
	paths = append(paths, "/etc/mlerc")
	return paths
}

// readRCLines reads path and splits it into non-empty, non-comment lines.
// A missing file is not an error: it is silently treated as empty, per §6.
func readRCLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scan.Err()
}

// rcLineToArgv splits one RC-file line into argv tokens the same way a
// shell would split a command line: whitespace-separated, with no further
// quoting support, since every flag value in the §6 grammar is a single
// comma-joined token with no embedded spaces.
func rcLineToArgv(line string) []string {
	return strings.Fields(line)
}
