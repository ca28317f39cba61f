package cli

import "github.com/timefence/timefence/internal/config"

// loadConfig resolves the --config flag to a loaded configuration.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}
