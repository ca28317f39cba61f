package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/timefence/timefence/internal/daemon"
)

func init() {
	rootCmd.AddCommand(unblockCmd)
}

var unblockCmd = &cobra.Command{
	Use:   "unblock",
	Short: "Remove the state file — only once the window has expired",
	Long:  "Deletes the persisted state so the next daemon start begins fresh.\nRefused while time remains on the window or the state is tampered;\nthere is deliberately no override flag.",
	RunE:  runUnblock,
}

func runUnblock(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := daemon.ReadStatus(cfg.StatusPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no status snapshot; stop guessing and wait for the daemon")
		}
		return err
	}

	if st.Tampered {
		return fmt.Errorf("refused: state is tampered and the window is frozen")
	}
	if st.RemainingMS > 0 {
		return fmt.Errorf("refused: %s still remaining on the window",
			time.Duration(st.RemainingMS)*time.Millisecond)
	}

	if err := os.Remove(cfg.StatePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	fmt.Println("window expired; state cleared")
	return nil
}
