// Package cli is the sysex-mapatron command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sysex-mapatron",
	Short: "Drive Akai Fire grid controllers over sysex",
	Long: `sysex-mapatron attaches to every connected Akai Fire, decodes pad and knob
input into events and pushes full-grid LED frames back over sysex.

Use "run" for the headless demo loop, "monitor" for a live terminal view of
the grids, and "ports" to see what the MIDI driver can enumerate.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger; commands hold it for their lifetime.
func newLogger() *zap.Logger {
	if verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	log, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
