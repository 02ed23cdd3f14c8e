package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/devverse/frameloop"
	"github.com/phanxgames/devverse/pages"
	"github.com/phanxgames/devverse/starfield"
)

var simulateFor time.Duration

// drawStats is a headless starfield canvas that only counts draw calls.
type drawStats struct {
	w, h    int
	fills   int
	circles int
	halos   int
}

func (d *drawStats) Size() (int, int)                              { return d.w, d.h }
func (d *drawStats) FillRect(starfield.Color)                      { d.fills++ }
func (d *drawStats) FillCircle(_, _, _ float64, _ starfield.Color) { d.circles++ }
func (d *drawStats) Halo(_, _, _ float64, _ starfield.Color)       { d.halos++ }
func (d *drawStats) Detach()                                       {}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the landing starfield without a window and report draw stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, frames, err := simulate(cmd.Context(), simulateFor)
		if err != nil {
			return err
		}
		logger.Debug("simulation finished", zap.Uint64("frames", frames), zap.Int("circles", stats.circles))
		fmt.Fprintf(cmd.OutOrStdout(), "frames: %d\n", frames)
		if frames > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "per frame: %d stars, %.1f halos\n",
				stats.circles/int(frames), float64(stats.halos)/float64(frames))
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().DurationVar(&simulateFor, "for", 2*time.Second, "how long to run")
	rootCmd.AddCommand(simulateCmd)
}

// simulate ticks a starfield sized like the window at 60 frames per second
// for d.
func simulate(ctx context.Context, d time.Duration) (*drawStats, uint64, error) {
	if d <= 0 {
		return nil, 0, fmt.Errorf("simulate: duration must be positive, got %s", d)
	}
	stats := &drawStats{w: cfg.Window.Width, h: cfg.Window.Height}
	sched := frameloop.NewScheduler()
	field := starfield.New(pages.FieldConfig(cfg.Starfield), stats.w, stats.h,
		starfield.WithLogger(logger.Named("starfield")))
	field.Attach(sched, stats)
	defer field.Teardown()

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	tk := frameloop.NewTicker(sched, time.Second/60)
	tk.Start(ctx)
	<-ctx.Done()
	tk.Stop()
	return stats, field.Frame(), nil
}
