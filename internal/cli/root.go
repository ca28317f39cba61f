package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timefence/timefence/internal/integrity"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timefenced",
	Short: "Time-bounded execution blocking daemon",
	Long:  "Enforces a block window on interactive shells and administrative tools.\nThe window is kept on a monotonic clock and survives restarts, clock changes,\nand state-file tampering; tampering freezes the window instead of lifting it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := integrity.Verify(); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(78) // EX_CONFIG
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.timefence/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
