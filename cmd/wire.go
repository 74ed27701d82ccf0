package cmd

import (
	"image"
	"log/slog"

	"wingman/action"
	"wingman/arduinobot"
	"wingman/config"
	"wingman/hotkey"
	"wingman/input"
	"wingman/input/robot"
	"wingman/logic"
	"wingman/mission"
	"wingman/targeting"
	"wingman/vision"
)

// newInjector opens the configured backend. A backend that cannot be opened
// degrades to the no-op injector so the rest of the bot still runs.
func newInjector(cfg *config.Config, log *slog.Logger) (input.Injector, func()) {
	switch cfg.Input.Backend {
	case config.BackendArduino:
		a := cfg.Input.Arduino
		c, err := arduinobot.NewController(arduinobot.Config{
			PortName:    a.Port,
			VID:         a.VID,
			PID:         a.PID,
			BaudRate:    a.BaudRate,
			ReadTimeout: config.Seconds(a.Timeout),
			MaxErrors:   a.MaxErrors,
			Tuning: arduinobot.Tuning{
				KeyDelay:    a.KeyDelay,
				MouseDelay:  a.MouseDelay,
				MoveDelay:   a.MoveDelay,
				MoveStep:    a.MoveStep,
				KeyJitter:   a.KeyJitter,
				MouseJitter: a.MouseJitter,
			},
			Logger: log,
		})
		if err != nil {
			log.Warn("input: arduino unavailable, actions will only be logged", "error", err)
			return input.Nop{Logger: log}, func() {}
		}
		return c, func() { c.Close() }
	case config.BackendRobot:
		return robot.Backend{}, func() {}
	default:
		return input.Nop{Logger: log}, func() {}
	}
}

func newDetector(cfg *config.Config, log *slog.Logger, overlay vision.Overlay) *vision.Detector {
	opts := []vision.Option{
		vision.WithMinArea(cfg.Detection.MinArea),
		vision.WithLogger(log),
	}
	if overlay != nil {
		opts = append(opts, vision.WithOverlay(overlay))
	}
	return vision.NewDetector(cfg.EnemyHSV.Range(), opts...)
}

func newSelector(cfg *config.Config, region image.Rectangle, log *slog.Logger) *targeting.Selector {
	return targeting.NewSelector(
		targeting.CenterOf(region.Dx(), region.Dy()),
		cfg.Aim.Smoothing,
		config.Seconds(cfg.Aim.FireCooldown),
		log,
	)
}

func newExecutor(cfg *config.Config, in input.Injector, origin image.Point, log *slog.Logger) *action.Executor {
	return action.New(in, cfg.Controls.Bindings, nil, action.Options{
		Origin:             origin,
		FireKey:            cfg.Controls.FireKey(),
		WeaponLoopInterval: config.Seconds(cfg.WeaponLoop.Interval),
		WeaponLoopHold:     config.Seconds(cfg.WeaponLoop.Hold),
		Logger:             log,
	})
}

func newTriggers(cfg *config.Config, log *slog.Logger) (*logic.Triggers, error) {
	specs := make([]logic.TriggerSpec, 0, len(cfg.Triggers))
	for _, t := range cfg.Triggers {
		specs = append(specs, logic.TriggerSpec{
			Name:     t.Name,
			When:     t.When,
			Mission:  t.Mission,
			Cooldown: config.Seconds(t.Cooldown),
		})
	}
	return logic.CompileTriggers(specs, log)
}

func loopConfig(cfg *config.Config) logic.Config {
	return logic.Config{
		TickInterval:      config.Seconds(cfg.Loop.TickInterval),
		MaxErrors:         cfg.Loop.MaxErrors,
		ErrorBackoff:      config.Seconds(cfg.Loop.ErrorBackoff),
		FireHold:          config.Seconds(cfg.Aim.FireHold),
		FireWithoutTarget: cfg.Aim.FireWithoutTarget,
	}
}

func newDispatcher(cfg *config.Config, bot *logic.Bot, exec *action.Executor, seq *mission.Sequencer, log *slog.Logger) (*hotkey.Dispatcher, error) {
	return hotkey.NewDispatcher([]hotkey.Binding{
		{Key: cfg.Hotkeys.ToggleRunning, Name: "toggle_running", Action: func() { bot.ToggleRunning() }},
		{Key: cfg.Hotkeys.ToggleWeaponLoop, Name: "toggle_weapon_loop", Action: func() { exec.ToggleWeaponLoop() }},
		{Key: cfg.Hotkeys.CancelMission, Name: "cancel_mission", Action: seq.Cancel},
	}, log)
}
