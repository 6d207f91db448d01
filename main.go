package main

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tasktracker",
	Short:         "Task tracker REST service with an audit log",
	Args:          cobra.NoArgs,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultConfig := os.Getenv("CONFIG_FILE")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to the YAML config file (optional)")
}

// exitCodeError reports a non-zero exit code from the shutdown sequence.
type exitCodeError int

func (e exitCodeError) Error() string {
	return "exited with code " + strconv.Itoa(int(e))
}

func (e exitCodeError) ExitCode() int {
	return int(e)
}
