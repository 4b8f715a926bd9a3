package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asutherland/sysex-mapatron/internal/sysexmap"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Work with sysex field-descriptor documents",
}

var mapValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Load descriptor documents and check their structural invariants",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMapValidate,
}

func init() {
	mapCmd.AddCommand(mapValidateCmd)
	rootCmd.AddCommand(mapCmd)
}

func runMapValidate(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		m, err := sysexmap.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok (%d ports, %d type entries, %d value entries)\n",
			path, len(m.PortNames), len(m.TypeEntries), len(m.ValueEntries))
	}
	return nil
}
