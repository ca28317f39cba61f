// Package sentinel watches the state file while the daemon runs. An
// external removal or rename of the file mid-session is an adversarial
// act; the sentinel reports it so the daemon can journal the attempt. A
// replacement that leaves a file at the path is not reported. The
// keeper's own heartbeat rewrites the file within one period, so the
// in-memory state heals the damage on its own.
package sentinel

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDefault is how long the sentinel waits after an event before
// checking the file, so the keeper's own temp-and-rename saves do not
// register as losses.
const settleDefault = 250 * time.Millisecond

// Sentinel watches one state file path.
type Sentinel struct {
	path   string
	onLost func()
	settle time.Duration
}

// New creates a sentinel for the given path. onLost fires once per
// observed disappearance of the file.
func New(path string, onLost func()) *Sentinel {
	return &Sentinel{
		path:   path,
		onLost: onLost,
		settle: settleDefault,
	}
}

// Run watches the state file's directory. Blocks until ctx is cancelled.
// The directory must exist before Run is called.
func (s *Sentinel) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	// Single settle timer, reset on each relevant event. When it fires
	// and the file is gone, the loss is real and not a rename in flight.
	settleTimer := time.NewTimer(s.settle)
	settleTimer.Stop()
	defer settleTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-settleTimer.C:
			if _, err := os.Stat(s.path); os.IsNotExist(err) {
				s.onLost()
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if !settleTimer.Stop() {
				select {
				case <-settleTimer.C:
				default:
				}
			}
			settleTimer.Reset(s.settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}
