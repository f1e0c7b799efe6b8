package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

var (
	exportFormat string
	exportOut    string
	exportTheme  string
	exportSlide  int
)

var exportCmd = &cobra.Command{
	Use:   "export <deck.json>",
	Short: "Export a deck to PNG, PDF or PPTX",
	Long: `Export a JSON deck file.

Example:
  slideshow export deck.json --format pdf --out deck.pdf
  slideshow export deck.json --format png --slide 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "png, pdf, pptx or pptx-editable")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: timestamped name in the current directory)")
	exportCmd.Flags().StringVarP(&exportTheme, "theme", "t", "", "theme name (overrides the deck and config)")
	exportCmd.Flags().IntVar(&exportSlide, "slide", -1, "slide index for png (default: the deck's active slide)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToUpper(exportFormat)
	switch format {
	case slideshow.ExportTypePNG, slideshow.ExportTypePDF, slideshow.ExportTypePPTX, slideshow.ExportTypeEditablePPTX:
	default:
		return fmt.Errorf("unsupported format %q", exportFormat)
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
	case exportTheme != "":
		e.Theme = exportTheme
	case pres.Theme != "":
		e.Theme = pres.Theme
	}

	if exportSlide >= 0 {
		if err := pres.SetActiveIndex(exportSlide); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e.SetProgressCallback(func(p int) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\r%3d%%", p)
	})
	name := ""
	if exportOut != "" {
		name = filepath.Base(exportOut)
	}
	start := time.Now()
	res := slideshow.NewSession(pres).Export(ctx, e, format, name)
	fmt.Fprintln(cmd.ErrOrStderr())
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}

	out := exportOut
	if out == "" {
		out = res.Filename
	}
	if err := writeArtifact(e, res, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", res.Message, out, elapsed(start))
	for _, idx := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: slide %d skipped\n", idx+1)
	}
	return nil
}

// writeArtifact saves the exported bytes to path. PNG exports carry their
// bytes in the result; the others are fetched from the blob store.
func writeArtifact(e *slideshow.Exporter, res slideshow.Result, path string) error {
	data := res.Data
	if data == nil {
		blob, ok := e.Blobs.Get(res.DownloadURL)
		if !ok {
			return fmt.Errorf("artifact %s not found", res.DownloadURL)
		}
		data = blob.Data
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
