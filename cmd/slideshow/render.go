package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

var (
	renderDir   string
	renderWidth int
	renderTheme string
)

var renderCmd = &cobra.Command{
	Use:   "render <deck.json>",
	Short: "Render every slide of a deck to PNG files",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderDir, "dir", "d", "slides", "output directory")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 1920, "image width in pixels; height keeps 16:9")
	renderCmd.Flags().StringVarP(&renderTheme, "theme", "t", "", "theme name (overrides the deck and config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderWidth <= 0 {
		return fmt.Errorf("invalid width %d", renderWidth)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := openLogger(cfg)
	defer log.Close()

	pres, err := slideshow.Open(args[0])
	if err != nil {
		return err
	}
	e, release, err := newExporter(cfg, log)
	if err != nil {
		return err
	}
	defer release()
	switch {
	case renderTheme != "":
		e.Theme = renderTheme
	case pres.Theme != "":
		e.Theme = pres.Theme
	}
	e.Raster = slideshow.RasterOptions{Width: renderWidth, Height: renderWidth * 9 / 16}

	if err := os.MkdirAll(renderDir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := 0
	for i, s := range pres.Slides() {
		name := fmt.Sprintf("slide%02d.png", i+1)
		res := e.ExportPNG(ctx, s, i, name)
		if !res.Success {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "slide %d: %s\n", i+1, res.Message)
			failed++
			continue
		}
		if err := os.WriteFile(filepath.Join(renderDir, name), res.Data, 0644); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d slides to %s\n", pres.Len()-failed, renderDir)
	if failed > 0 {
		return fmt.Errorf("%d slides failed to render", failed)
	}
	return nil
}
