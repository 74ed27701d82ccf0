package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wingman/capture"
	"wingman/vision"
)

func newDetectCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "detect",
		Short: "Run detection and targeting on a still image",
		RunE:  detectImage,
	}
	c.Flags().StringP("image", "i", "", "image file to analyse")
	c.Flags().Bool("show", false, "show the mask until a key is pressed")
	_ = c.MarkFlagRequired("image")
	return c
}

func detectImage(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("image")
	still, err := capture.LoadStill(path)
	if err != nil {
		return err
	}
	frame, err := still.Capture()
	if err != nil {
		return err
	}

	var win *vision.Window
	var overlay vision.Overlay
	if show, _ := cmd.Flags().GetBool("show"); show {
		win = vision.NewWindow("wingman detect")
		defer win.Close()
		overlay = win
	}
	det := newDetector(cfg, log, overlay)
	defer det.Close()

	dets, err := det.Find(frame)
	if err != nil {
		return fmt.Errorf("detect %s: %w", path, err)
	}
	sel := newSelector(cfg, frame.Bounds(), log)
	dec := sel.Decide(dets, time.Now())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d detection(s) in %s\n", len(dets), path)
	for i, d := range dets {
		fmt.Fprintf(out, "  #%d at (%d,%d) area %.0f\n", i, d.X, d.Y, d.Area)
	}
	if dec.HasTarget {
		fmt.Fprintf(out, "target (%d,%d), %.1f px from aim point (%d,%d)\n",
			dec.Target.X, dec.Target.Y, dec.Distance, sel.Aim().X, sel.Aim().Y)
	} else {
		fmt.Fprintln(out, "no target")
	}

	if win != nil {
		win.Wait()
	}
	return nil
}
