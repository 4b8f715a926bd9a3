package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register rtmidi driver
	"go.uber.org/zap"

	"github.com/asutherland/sysex-mapatron/internal/config"
	"github.com/asutherland/sysex-mapatron/internal/fire"
)

var (
	runPrefix string
	runLayout string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Attach to all controllers and run the press-to-light loop",
	Long: `Attach to every controller whose input port matches the configured prefix,
paint the startup pattern, then light pads white while they are held.

The loop ends when every controller has disconnected or on SIGINT/SIGTERM.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runPrefix, "prefix", "", "input port name prefix (overrides config)")
	runCmd.Flags().StringVar(&runLayout, "layout", "", "paint a named layout from config instead of the color cube")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	prefix := cfg.PortPrefix
	if runPrefix != "" {
		prefix = runPrefix
	}

	var layout *config.Layout
	if runLayout != "" {
		if layout = cfg.GetLayout(runLayout); layout == nil {
			return fmt.Errorf("no layout named %q in config", runLayout)
		}
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

	if len(controllers) == 0 {
		log.Warn("no controllers matched", zap.String("prefix", prefix))
		return nil
	}

	for _, c := range controllers {
		if layout != nil {
			layout.Apply(c)
		} else {
			c.SetColorCube()
		}
		if err := c.UpdateLEDs(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return consume(ctx, log, controllers)
}

// consume drains the merged event stream and echoes grid presses back as
// LED updates on the originating device: white while held, off on release.
func consume(ctx context.Context, log *zap.Logger, controllers []*fire.Controller) error {
	merged := fire.Merge(controllers)
	for {
		select {
		case <-ctx.Done():
			return nil
		case se, ok := <-merged:
			if !ok {
				log.Info("all controllers disconnected")
				return nil
			}
			btn, ok := se.Event.(fire.GridButton)
			if !ok {
				continue
			}
			c := controllers[se.Device]
			if btn.State == fire.ButtonDown {
				c.SetLED(int(btn.Index), 0x7F, 0x7F, 0x7F)
			} else {
				c.SetLED(int(btn.Index), 0, 0, 0)
			}
			if err := c.UpdateLEDs(); err != nil {
				// One lost LED write is not worth tearing the loop down.
				log.Error("led update failed",
					zap.Int("device", int(se.Device)),
					zap.Error(err))
			}
		}
	}
}
