package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/timefence/timefence/internal/daemon"
)

var daemonBudget string

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonBudget, "budget", "", "Initial block window as a duration (e.g. 2h30m); overrides config budget_ms")
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the enforcement daemon",
	Long:  "Runs the timekeeper in the foreground. The supervisor (systemd or the\nplatform equivalent) is expected to restart it on exit.",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	budgetMS := cfg.BudgetMS
	if daemonBudget != "" {
		d, err := time.ParseDuration(daemonBudget)
		if err != nil {
			return fmt.Errorf("invalid --budget: %w", err)
		}
		budgetMS = int64(d / time.Millisecond)
	}

	passphrase, err := cfg.Passphrase()
	if err != nil {
		return err
	}

	d, err := daemon.New(daemon.Config{
		StatePath:   cfg.StatePath,
		Passphrase:  passphrase,
		JournalPath: cfg.JournalPath,
		StatusPath:  cfg.StatusPath,
		BudgetMS:    budgetMS,
		ToleranceMS: cfg.ToleranceMS,
		Heartbeat:   cfg.Heartbeat(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\ntimefenced: shutting down...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "timefenced: enforcing, window %s\n", time.Duration(budgetMS)*time.Millisecond)
	return d.Run(ctx)
}
