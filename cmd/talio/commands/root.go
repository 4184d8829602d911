package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"talio/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "talio",
	Short: "Talio collaborative task-board server",
	Long: `Talio serves shared boards of lists, cards, tags, subtasks and color
presets. Every edit is pushed to subscribed clients over a websocket or
answered to a waiting long-poll.

Configuration is read from the environment (TALIO_*, DEBUG,
REDIS_CONNECTION_STRING, STORAGE_CONNECTION_STRING).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the command line.
func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// loadConfig reads the environment and returns a logger configured for it.
func loadConfig() (config.Config, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := log.New()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return cfg, logger, nil
}
