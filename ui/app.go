// Package ui is an optional fyne control panel for a running bot.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"wingman/mission"
)

// Bot is the pause/resume surface of the control loop.
type Bot interface {
	ToggleRunning() bool
	Running() bool
}

// Weapons controls the repeating weapon loop.
type Weapons interface {
	ToggleWeaponLoop() bool
	WeaponLoopActive() bool
}

// Missions starts and cancels missions.
type Missions interface {
	Names() []string
	Begin(ctx context.Context, name string) (mission.Outcome, error)
	Cancel()
	State() mission.State
	Last() mission.Outcome
}

const refreshInterval = 250 * time.Millisecond

// Run shows the panel and blocks until the window closes or ctx is done.
// It must be called from the main goroutine.
func Run(ctx context.Context, bot Bot, weapons Weapons, missions Missions, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "ui")

	a := app.New()
	w := a.NewWindow("Wingman")
	w.Resize(fyne.NewSize(420, 360))

	status := widget.NewLabel(statusText(bot.Running(), weapons.WeaponLoopActive(), missions.State(), missions.Last()))
	note := widget.NewLabel("")

	runBtn := widget.NewButton(runLabel(bot.Running()), nil)
	runBtn.OnTapped = func() {
		on := bot.ToggleRunning()
		runBtn.SetText(runLabel(on))
	}
	weaponBtn := widget.NewButton("Weapon loop", func() {
		on := weapons.ToggleWeaponLoop()
		log.Info("ui: weapon loop toggled", "active", on)
	})
	cancelBtn := widget.NewButton("Cancel mission", func() {
		// Cancel waits for the weapon loop to stop; keep it off the UI thread.
		go missions.Cancel()
	})

	missionBtns := container.NewGridWithColumns(3)
	for _, name := range missions.Names() {
		name := name
		missionBtns.Add(widget.NewButton(name, func() {
			go func() {
				outcome, err := missions.Begin(ctx, name)
				text := fmt.Sprintf("%s: %s", name, outcome)
				if err != nil {
					text = fmt.Sprintf("%s: %v", name, err)
				}
				fyne.Do(func() { note.SetText(text) })
			}()
		}))
	}

	w.SetContent(container.NewVBox(
		status,
		container.NewHBox(runBtn, weaponBtn, cancelBtn),
		widget.NewSeparator(),
		widget.NewLabel("Missions:"),
		missionBtns,
		note,
	))

	go func() {
		t := time.NewTicker(refreshInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				fyne.Do(a.Quit)
				return
			case <-t.C:
				text := statusText(bot.Running(), weapons.WeaponLoopActive(), missions.State(), missions.Last())
				label := runLabel(bot.Running())
				fyne.Do(func() {
					status.SetText(text)
					runBtn.SetText(label)
				})
			}
		}
	}()

	log.Info("ui: panel opened")
	w.ShowAndRun()
}

func runLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Start"
}

func statusText(running, weaponLoop bool, state mission.State, last mission.Outcome) string {
	loop := "Paused"
	if running {
		loop = "Running"
	}
	weapon := "off"
	if weaponLoop {
		weapon = "on"
	}
	return fmt.Sprintf("Status: %s | weapon loop %s | mission %s (last %s)", loop, weapon, state, last)
}
