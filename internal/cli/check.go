package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timefence/timefence/internal/blocklist"
	"github.com/timefence/timefence/internal/daemon"
	"github.com/timefence/timefence/internal/enforce"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <process>",
	Short: "Ask whether a process would be blocked right now",
	Long:  "Evaluates a process name against the blocklist and the current window.\nExits 0 when allowed, 1 when blocked. OS interception hooks call this\n(or link the enforce package directly) before launching a process.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bl, err := blocklist.Load(cfg.BlocklistPath)
	if err != nil {
		return err
	}

	// Without a snapshot there is nothing to enforce against: the daemon
	// has never run on this config.
	st, err := daemon.ReadStatus(cfg.StatusPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("allow: %s (no active window)\n", args[0])
			return nil
		}
		return err
	}

	decision, derr := enforce.Evaluate(bl, st.RemainingMS, st.Tampered, args[0])
	if decision == enforce.Block {
		fmt.Fprintf(os.Stderr, "%v\n", derr)
		os.Exit(1)
	}

	fmt.Printf("allow: %s\n", args[0])
	return nil
}
