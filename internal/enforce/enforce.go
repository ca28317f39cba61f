// Package enforce turns the keeper's observable state into a block/allow
// decision for a process. The OS-specific interception mechanism lives
// outside this repo; adapters call Evaluate and act on the result.
package enforce

import (
	"fmt"
	"time"

	"github.com/timefence/timefence/internal/blocklist"
)

// Decision is the outcome of evaluating a process against the window.
type Decision string

const (
	Allow Decision = "allow"
	Block Decision = "block"
)

// BlockError is raised when a process must not execute.
type BlockError struct {
	Process     string
	Category    string
	RemainingMS int64
	Tampered    bool
}

func (e *BlockError) Error() string {
	if e.Tampered {
		return fmt.Sprintf("execution blocked: %s (%s) — state tampered, window frozen", e.Process, e.Category)
	}
	remaining := time.Duration(e.RemainingMS) * time.Millisecond
	return fmt.Sprintf("execution blocked: %s (%s) — %s remaining", e.Process, e.Category, remaining)
}

// Evaluate applies the block window to a process name. Listed processes
// are blocked while time remains on the window, and unconditionally while
// the state is tampered: uncertainty never relaxes enforcement.
func Evaluate(bl *blocklist.Blocklist, remainingMS int64, tampered bool, process string) (Decision, error) {
	matched, category := bl.Match(process)
	if !matched {
		return Allow, nil
	}

	if tampered || remainingMS > 0 {
		return Block, &BlockError{
			Process:     process,
			Category:    category,
			RemainingMS: remainingMS,
			Tampered:    tampered,
		}
	}

	return Allow, nil
}
