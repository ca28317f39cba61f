// Package daemon wires the keeper, journal, and sentinel into the
// long-running timefenced process.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/timefence/timefence/internal/journal"
	"github.com/timefence/timefence/internal/keeper"
	"github.com/timefence/timefence/internal/sentinel"
)

// Config holds full daemon configuration.
type Config struct {
	StatePath   string
	Passphrase  []byte
	JournalPath string
	StatusPath  string
	BudgetMS    int64
	ToleranceMS int64
	Heartbeat   time.Duration
}

// Daemon owns one keeper over one state file.
type Daemon struct {
	cfg Config
}

// New creates a daemon with validated configuration.
func New(cfg Config) (*Daemon, error) {
	if cfg.StatePath == "" {
		return nil, errors.New("daemon: state path is required")
	}
	if len(cfg.Passphrase) == 0 {
		return nil, errors.New("daemon: passphrase is required")
	}
	if cfg.BudgetMS < 0 {
		return nil, fmt.Errorf("daemon: negative budget %d", cfg.BudgetMS)
	}
	return &Daemon{cfg: cfg}, nil
}

// Run starts the daemon. Blocks until ctx is cancelled, then flushes the
// final state and returns.
func (d *Daemon) Run(ctx context.Context) error {
	stateDir := filepath.Dir(d.cfg.StatePath)
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return fmt.Errorf("daemon: ensure state directory: %w", err)
	}

	// PID file lock prevents two keepers over the same state file, which
	// would race their persists.
	pidPath := filepath.Join(stateDir, "timefenced.pid")
	if err := acquirePIDLock(pidPath); err != nil {
		return fmt.Errorf("daemon: acquire PID lock: %w", err)
	}
	defer func() { _ = os.Remove(pidPath) }()

	// The journal is best-effort observability: a broken journal logs a
	// warning and the daemon runs without it.
	var jnl *journal.Journal
	if d.cfg.JournalPath != "" {
		j, err := journal.Open(d.cfg.JournalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "timefenced: journal disabled: %v\n", err)
		} else {
			jnl = j
			defer func() { _ = jnl.Close() }()
		}
	}
	record := func(ev journal.Event) {
		if jnl == nil {
			return
		}
		if err := jnl.Record(ev); err != nil {
			fmt.Fprintf(os.Stderr, "timefenced: journal: %v\n", err)
		}
	}

	kpr, err := keeper.New(keeper.Config{
		StatePath:   d.cfg.StatePath,
		Passphrase:  d.cfg.Passphrase,
		ToleranceMS: d.cfg.ToleranceMS,
		Heartbeat:   d.cfg.Heartbeat,
	})
	if err != nil {
		return fmt.Errorf("daemon: create keeper: %w", err)
	}

	kpr.OnTamper(func(ev keeper.TamperEvent) {
		detail := ev.CorruptionCause
		if detail == "" {
			detail = fmt.Sprintf("clock discrepancy: mono %dms, wall %dms", ev.MonoElapsedMS, ev.WallElapsedMS)
		}
		fmt.Fprintf(os.Stderr, "timefenced: TAMPER: %s\n", detail)
		record(journal.Event{
			Kind:          journal.KindTamperDetected,
			DiscrepancyMS: ev.DiscrepancyMS,
			Detail:        detail,
		})
	})
	kpr.OnHeartbeat(func(ev keeper.HeartbeatEvent) {
		record(journal.Event{
			Kind:           journal.KindHeartbeatSaved,
			RemainingMS:    ev.RemainingMS,
			HeartbeatCount: ev.HeartbeatCount,
		})
		d.writeStatus(kpr)
	})

	if err := kpr.Initialize(d.cfg.BudgetMS); err != nil {
		return fmt.Errorf("daemon: initialize keeper: %w", err)
	}

	record(journal.Event{
		Kind:        journal.KindDaemonStart,
		RemainingMS: kpr.Remaining(),
	})
	d.writeStatus(kpr)

	// Watch for external removal of the state file. The heartbeat
	// rewrites it within one period; the sentinel makes the attempt
	// visible.
	snt := sentinel.New(d.cfg.StatePath, func() {
		fmt.Fprintf(os.Stderr, "timefenced: state file removed externally\n")
		record(journal.Event{
			Kind:        journal.KindStateFileLost,
			RemainingMS: kpr.Remaining(),
			Detail:      "state file removed while daemon running",
		})
	})
	go func() {
		if err := snt.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "timefenced: sentinel: %v\n", err)
		}
	}()

	<-ctx.Done()

	kpr.Dispose()
	d.writeStatus(kpr)
	record(journal.Event{
		Kind:        journal.KindDaemonStop,
		RemainingMS: kpr.Remaining(),
	})
	return nil
}

func (d *Daemon) writeStatus(kpr *keeper.Keeper) {
	if d.cfg.StatusPath == "" {
		return
	}
	st := Status{
		PID:         os.Getpid(),
		RemainingMS: kpr.Remaining(),
		Tampered:    kpr.IsTampered(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := WriteStatus(d.cfg.StatusPath, st); err != nil {
		fmt.Fprintf(os.Stderr, "timefenced: write status: %v\n", err)
	}
}

// acquirePIDLock writes the current PID to the file and checks for stale
// locks.
func acquirePIDLock(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		pid, err := strconv.Atoi(string(data))
		if err == nil {
			// Check if the process is still running.
			if process, err := os.FindProcess(pid); err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					return fmt.Errorf("another daemon is running (PID %d)", pid)
				}
			}
		}
		// Stale PID file — remove it.
		_ = os.Remove(path)
	}

	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600)
}
