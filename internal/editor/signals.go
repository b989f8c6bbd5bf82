package editor

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smorimura/mle/internal/view"
)

// HandleSignals installs SIGTERM/SIGINT/SIGQUIT/SIGHUP handling: on receipt
// of any of them, every modified buffer is backed up, the editor is torn
// down, and the process exits with code 1. This reads editor state
// directly from the signal goroutine rather than routing through the
// dispatch loop, a deliberate simplification acceptable because the
// process is about to exit anyway.
func (ed *Editor) HandleSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGHUP)

	go func() {
		<-sigs
		ed.backupModifiedBuffers()
		ed.Shutdown()
		os.Exit(1)
	}()
}

// backupModifiedBuffers writes every unsaved buffer to mle.bak.<pid>.<n> in
// the current directory, per the fatal-signal shutdown path.
func (ed *Editor) backupModifiedBuffers() {
	pid := os.Getpid()
	n := 0
	for _, v := range ed.Views.AllViews() {
		if v.Type != view.TypeEdit || !v.Buffer.IsModified() {
			continue
		}
		n++
		path := fmt.Sprintf("mle.bak.%d.%d", pid, n)
		if err := os.WriteFile(path, []byte(v.Buffer.Text()), 0o600); err != nil {
			ed.Log.Error("backup %s failed: %v", path, err)
		}
	}
}
