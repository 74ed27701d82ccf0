package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"wingman/config"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print a summary",
		RunE:  checkConfig,
	}
}

func checkConfig(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	triggers, err := newTriggers(cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	region := "primary display"
	if r := cfg.Region.Rect(); !r.Empty() {
		region = r.String()
	}
	fmt.Fprintf(out, "region:     %s\n", region)
	fmt.Fprintf(out, "enemy hsv:  %v .. %v\n", cfg.EnemyHSV.Lower, cfg.EnemyHSV.Upper)
	fmt.Fprintf(out, "aim:        smoothing %.2f, cooldown %v, fire key %s\n",
		cfg.Aim.Smoothing, config.Seconds(cfg.Aim.FireCooldown), cfg.Controls.FireKey())
	fmt.Fprintf(out, "backend:    %s\n", cfg.Input.Backend)
	fmt.Fprintf(out, "hotkeys:    run=%s weapon=%s cancel=%s\n",
		cfg.Hotkeys.ToggleRunning, cfg.Hotkeys.ToggleWeaponLoop, cfg.Hotkeys.CancelMission)

	scripts := cfg.Scripts()
	names := make([]string, 0, len(scripts))
	for n := range scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "missions:   %d\n", len(names))
	for _, n := range names {
		fmt.Fprintf(out, "  %-12s %d step(s)\n", n, len(scripts[n]))
	}
	fmt.Fprintf(out, "triggers:   %d\n", triggers.Len())
	for _, t := range cfg.Triggers {
		fmt.Fprintf(out, "  %-12s when %q -> %s\n", t.Name, t.When, t.Mission)
	}
	fmt.Fprintln(out, "config OK")
	return nil
}
