// Package cliconfig holds the settings shared by every cocalc subcommand.
package cliconfig

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KyleBrandon/cocalc/internal/config"
	"github.com/KyleBrandon/cocalc/pkg/utils"
)

type Globals struct {
	LogLevel   string
	ConfigFile string
	EnvFile    string

	Logging  *utils.Logging
	Settings config.Config
}

// AddFlags registers the persistent flags on the root command.
func (g *Globals) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", config.DefaultLogLevel.String(), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.ConfigFile, "config", "", "Path to the JSON settings file (default $CONFIG_FILE_LOCATION or "+config.DefaultConfigFileLocation+")")
	cmd.PersistentFlags().StringVar(&g.EnvFile, "env-file", "", "Load environment variables from this file instead of .env")
}

// Load reads the environment, configures logging and loads the settings file.
func (g *Globals) Load() error {
	// MUST BE FIRST FOR LOGGER
	if len(g.EnvFile) != 0 {
		config.LoadEnvironment(g.EnvFile)
	} else {
		config.LoadEnvironment()
	}

	logging, err := utils.ConfigureLogger(g.LogLevel, os.Getenv("LOG_FILE_LOCATION"))
	if err != nil {
		return err
	}
	g.Logging = logging

	configFile := g.ConfigFile
	if len(configFile) == 0 {
		configFile = os.Getenv("CONFIG_FILE_LOCATION")
	}
	if len(configFile) == 0 {
		configFile = config.DefaultConfigFileLocation
	}

	settings, err := config.LoadConfigSettings(configFile)
	if err != nil {
		slog.Error("Failed to load config file", "filename", configFile, "error", err)
		return err
	}
	g.Settings = settings

	return nil
}

func (g *Globals) Close() {
	if err := g.Logging.Close(); err != nil {
		slog.Warn("Failed to close the log file", "error", err)
	}
}
