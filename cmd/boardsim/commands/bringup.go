package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"audioboard-go/board"
	"audioboard-go/config"
	"audioboard-go/periph"
	"audioboard-go/periph/sdcard"
	"audioboard-go/sim"
	"audioboard-go/types"
)

var (
	cardDelay int
	cardMode  string
	pressID   int
	holdFor   time.Duration
	noADC     bool
)

var bringupCmd = &cobra.Command{
	Use:   "bringup",
	Short: "Initialise the simulated board and report every step",
	Long: `Runs board init, key init and SD card init against simulated hardware,
optionally presses one button, then deinitialises and prints the outcome of
each step.

Examples:
  # card ready on the third mount attempt
  boardsim bringup --card-delay 2

  # press Play for half a second
  boardsim bringup --press 3 --hold 500ms

  # 4-line mode is rejected by this board
  boardsim bringup --mode 4line`,
	RunE: runBringup,
}

func init() {
	bringupCmd.Flags().IntVar(&cardDelay, "card-delay", 1, "failed mounts before the card is ready")
	bringupCmd.Flags().StringVar(&cardMode, "mode", "", "sdcard mode 1line|4line|spi (overrides profile)")
	bringupCmd.Flags().IntVar(&pressID, "press", -1, "button id to press after init (0..5)")
	bringupCmd.Flags().DurationVar(&holdFor, "hold", 200*time.Millisecond, "how long to hold --press")
	bringupCmd.Flags().BoolVar(&noADC, "no-adc", false, "detach the ES7210 from the bus")
}

type step struct {
	name string
	err  error
	took time.Duration
}

func timed(name string, fn func() error) step {
	start := time.Now()
	err := fn()
	return step{name: name, err: err, took: time.Since(start)}
}

func runBringup(cmd *cobra.Command, _ []string) error {
	cfg, mode, err := profile.Board()
	if err != nil {
		return err
	}
	if cardMode != "" {
		if mode, err = config.ParseMode(cardMode); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	hw := sim.NewKorvo1(cardDelay)
	if noADC {
		hw.Bus.Detach(hw.ES7210.Addr)
	}
	board.SetDefault(board.New(cfg, board.Korvo1Drivers(hw.Resources())))
	defer board.SetDefault(nil)

	steps, res := bringup(ctx, hw, mode)

	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{s.name, errString(s.err), s.took.Round(time.Millisecond).String()})
	}
	printTable(out, []string{"Step", "Result", "Took"}, rows)

	if res != nil {
		fmt.Fprintln(out)
		rows = rows[:0]
		for _, o := range res.Outcomes {
			rows = append(rows, []string{o.Component, errString(o.Err)})
		}
		printTable(out, []string{"Component", "Deinit"}, rows)
		fmt.Fprintf(out, "\nstatus: %s\n", res.Status())
	}
	for _, s := range steps {
		if s.err != nil {
			return fmt.Errorf("%s: %w", s.name, s.err)
		}
	}
	return nil
}

func bringup(ctx context.Context, hw *sim.Korvo1, mode sdcard.Mode) ([]step, *board.DeinitResult) {
	var (
		steps []step
		h     *board.Handle
	)
	steps = append(steps, timed("board init", func() (err error) {
		h, err = board.Init(ctx)
		return err
	}))
	if h == nil {
		return steps, nil
	}

	set := periph.NewSet(periph.Config{})
	defer set.Destroy()

	mgr := board.Default()
	steps = append(steps, timed("keys", func() error { return mgr.InitKeys(set) }))
	steps = append(steps, timed("sdcard "+mode.String(), func() error {
		return mgr.InitSDCard(ctx, set, mode)
	}))

	if pressID >= 0 {
		id := types.ButtonID(pressID)
		steps = append(steps, timed("press "+id.Action().Label(), func() error {
			hw.Buttons.Press(id)
			defer hw.Buttons.Release()
			t := time.NewTimer(holdFor)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		}))
	}

	res := board.Deinit(h)
	return steps, &res
}
