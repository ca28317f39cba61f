package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/timefence/timefence/internal/blocklist"
	"github.com/timefence/timefence/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config and blocklist files",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	cfg := config.Default()
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	if _, err := os.Stat(cfg.BlocklistPath); os.IsNotExist(err) {
		data, err := yaml.Marshal(blocklist.NewDefault().Raw())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(cfg.BlocklistPath), 0700); err != nil {
			return err
		}
		if err := os.WriteFile(cfg.BlocklistPath, data, 0600); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfg.BlocklistPath)
	}

	return nil
}
