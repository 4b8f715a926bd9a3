package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/asutherland/sysex-mapatron/internal/fire"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI input and output ports",
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	defer midi.CloseDriver()

	reg := fire.NewRegistry()
	fmt.Println("inputs:")
	for _, name := range reg.InPortNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("outputs:")
	for _, name := range reg.OutPortNames() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
