package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/timefence/timefence/internal/daemon"
	"github.com/timefence/timefence/internal/journal"
)

var statusEvents int

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusEvents, "events", 10, "Number of recent journal events to show")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current block window and recent events",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := daemon.ReadStatus(cfg.StatusPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no status snapshot — daemon not running or never started")
		} else {
			return err
		}
	} else {
		fmt.Printf("remaining:  %s\n", time.Duration(st.RemainingMS)*time.Millisecond)
		fmt.Printf("tampered:   %v\n", st.Tampered)
		fmt.Printf("daemon pid: %d\n", st.PID)
		fmt.Printf("updated:    %s\n", st.UpdatedAt.Format(time.RFC3339))
	}

	if statusEvents <= 0 {
		return nil
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal unavailable: %v\n", err)
		return nil
	}
	defer j.Close()

	events, err := j.Tail(statusEvents)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	fmt.Println("\nrecent events:")
	for _, ev := range events {
		line := fmt.Sprintf("  %s  %-16s remaining=%s",
			ev.At.Format("2006-01-02 15:04:05"), ev.Kind,
			time.Duration(ev.RemainingMS)*time.Millisecond)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Println(line)
	}
	return nil
}
