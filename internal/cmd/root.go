// Package cmd wires the spyglass CLI: parse captured tool output, run tools
// and parse their output, follow log files, and monitor live sessions.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spyglassdev/spyglass/internal/config"
	"github.com/spyglassdev/spyglass/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "Structured signals from unstructured tool output",
	Long: `Spyglass turns free-form build, test, and terminal output into
structured signals: compiler diagnostics with locations, per-case test
results, and live session state such as "waiting for input".`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/spyglass/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SPYGLASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

// newLogger builds the process logger from the loaded config.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLoggerWithRotation(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
