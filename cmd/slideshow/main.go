// Command slideshow exports, inspects and serves slide decks.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
	"github.com/VantageDataChat/GoSlideshow/config"
	"github.com/VantageDataChat/GoSlideshow/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "slideshow",
	Short:         "Build, export and serve themed slide decks",
	Version:       slideshow.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(home, ".slideshow", "config.json"), "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "echo log lines to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies environment
// overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// openLogger starts the dated log file. A log directory that cannot be
// created only disables file logging.
func openLogger(cfg config.Config) *logger.Logger {
	l := logger.NewLogger()
	if verbose {
		l.SetOutput(os.Stderr)
	}
	if err := l.Init(cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	return l
}

// newExporter wires the exporter described by cfg. The returned function
// releases the rasterizer.
func newExporter(cfg config.Config, log slideshow.Logger) (*slideshow.Exporter, func(), error) {
	assets := slideshow.NewHTTPAssetLoader()
	assets.Timeout = cfg.AssetTimeout()
	m := slideshow.NewMaterializer(log)
	m.Assets = assets

	var (
		r       slideshow.Rasterizer
		release = func() {}
	)
	switch cfg.Rasterizer {
	case config.RasterizerChrome:
		path := cfg.ChromePath
		if path == "" {
			found, err := slideshow.FindChrome()
			if err != nil {
				return nil, nil, err
			}
			path = found
		}
		cr := slideshow.NewChromeRasterizer(path)
		r, release = cr, cr.Close
	default:
		r = slideshow.NewNativeRasterizer(slideshow.NewFontCache(cfg.FontDirs...))
	}

	e := slideshow.NewExporter(m, r, nil, log)
	e.Theme = cfg.DefaultTheme
	return e, release, nil
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
