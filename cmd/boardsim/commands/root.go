// Package commands implements the boardsim CLI.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"audioboard-go/config"
	"audioboard-go/x/logx"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"

	cfgFile  string
	logLevel string
	logFile  string

	profile *config.Profile
	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "boardsim",
	Short: "Korvo-1 board bring-up on simulated hardware",
	Long: `boardsim runs the board lifecycle (codec, microphone ADC, buttons and
SD card) against register-level codec emulation, a scripted button ladder and
a slow SD card.

Every profile key can be overridden from the environment:
  AUDIOBOARD_SDCARD_MOUNT_ATTEMPTS=10 boardsim bringup`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logSink != nil {
			_ = logSink.Close()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "board profile (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error|none (overrides profile)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file (overrides profile)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(bringupCmd)
	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	p, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		p.Logging.Level = logLevel
	}
	if logFile != "" {
		p.Logging.File = logFile
	}
	profile = p
	return setupLogging(cmd.ErrOrStderr(), p.Logging)
}

func setupLogging(stderr io.Writer, cfg config.LoggingConfig) error {
	lv, ok := logx.ParseLevel(cfg.Level)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.Level)
	}
	logx.SetLevel(lv)
	if cfg.File == "" {
		logx.SetOutput(stderr)
		return nil
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logx.SetOutput(lj)
	logSink = lj
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boardsim %s (commit: %s)\n", Version, Commit)
	},
}
