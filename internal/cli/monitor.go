package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"github.com/asutherland/sysex-mapatron/internal/config"
	"github.com/asutherland/sysex-mapatron/internal/fire"
	"github.com/asutherland/sysex-mapatron/internal/monitor"
)

var monitorPrefix string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Show attached controllers' grids live in the terminal",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorPrefix, "prefix", "", "input port name prefix (overrides config)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	prefix := cfg.PortPrefix
	if monitorPrefix != "" {
		prefix = monitorPrefix
	}

	defer midi.CloseDriver()

	reg := fire.NewRegistry(
		fire.WithLogger(log),
		fire.WithEventBuffer(cfg.EventBuffer),
	)
	controllers, err := reg.AttachAll(prefix)
	if err != nil {
		return err
	}
	defer fire.CloseAll(controllers)

	for _, c := range controllers {
		c.SetColorCube()
		if err := c.UpdateLEDs(); err != nil {
			return err
		}
	}

	p := tea.NewProgram(monitor.New(controllers), tea.WithAltScreen())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		p.Send(tea.Quit())
	}()

	// The consumer both feeds the TUI and echoes presses back to the LEDs,
	// keeping the single-writer discipline for each device's frame.
	go func() {
		for se := range fire.Merge(controllers) {
			if btn, ok := se.Event.(fire.GridButton); ok {
				c := controllers[se.Device]
				if btn.State == fire.ButtonDown {
					c.SetLED(int(btn.Index), 0x7F, 0x7F, 0x7F)
				} else {
					c.SetLED(int(btn.Index), 0, 0, 0)
				}
				if err := c.UpdateLEDs(); err != nil {
					log.Error("led update failed", zap.Error(err))
				}
			}
			p.Send(monitor.EventMsg(se))
		}
		p.Send(monitor.StreamClosedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}
