package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wingman/capture"
	"wingman/hotkey"
	"wingman/logic"
	"wingman/mission"
	"wingman/ui"
	"wingman/vision"
)

func newRunCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Run the bot against the live screen",
		RunE:  runBot,
	}
	c.Flags().BoolP("gui", "g", false, "show the control panel")
	c.Flags().Bool("console-keys", false, "read hotkeys from this terminal instead of a global hook")
	c.Flags().String("backend", "", "input backend override: none, robot, arduino")
	c.Flags().Bool("start", false, "start running instead of paused")
	return c
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.Input.Backend = b
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen, err := capture.NewScreen(cfg.Region.Rect())
	if err != nil {
		return fmt.Errorf("screen capture: %w", err)
	}
	region := screen.Region

	in, closeInput := newInjector(cfg, log)
	defer closeInput()

	var overlay vision.Overlay
	if cfg.Debug.ShowWindow {
		win := vision.NewWindow("wingman mask")
		defer win.Close()
		overlay = win
	}
	det := newDetector(cfg, log, overlay)
	defer det.Close()

	exec := newExecutor(cfg, in, region.Min, log)
	seq := mission.New(exec, cfg.Scripts(), log)
	triggers, err := newTriggers(cfg, log)
	if err != nil {
		return err
	}
	bot := logic.New(logic.Parts{
		Source:    screen,
		Detector:  det,
		Selector:  newSelector(cfg, region, log),
		Executor:  exec,
		Sequencer: seq,
		Triggers:  triggers,
	}, loopConfig(cfg), log)
	if start, _ := cmd.Flags().GetBool("start"); start {
		bot.SetRunning(true)
	}
	// Release anything still held on the way out.
	defer seq.Cancel()

	keys, err := newDispatcher(cfg, bot, exec, seq, log)
	if err != nil {
		return err
	}
	var listener hotkey.Listener = hotkey.NewGlobal(keys)
	if console, _ := cmd.Flags().GetBool("console-keys"); console {
		listener = hotkey.NewConsole(keys, stop)
	}
	go func() {
		if err := listener.Run(ctx); err != nil && !logic.IsShutdown(err) {
			log.Warn("hotkeys stopped", "error", err)
		}
	}()

	log.Info("wingman ready",
		"region", region,
		"backend", cfg.Input.Backend,
		"missions", len(seq.Names()),
		"triggers", triggers.Len(),
		"hotkeys", keys.Describe(),
	)

	if gui, _ := cmd.Flags().GetBool("gui"); gui {
		go func() {
			if err := bot.Run(ctx); err != nil && !logic.IsShutdown(err) {
				log.Error("bot stopped", "error", err)
			}
		}()
		ui.Run(ctx, bot, exec, seq, log)
		stop()
		return nil
	}

	if err := bot.Run(ctx); err != nil && !logic.IsShutdown(err) {
		return err
	}
	log.Info("exiting")
	return nil
}
