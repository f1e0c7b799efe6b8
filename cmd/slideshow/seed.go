package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
	"github.com/VantageDataChat/GoSlideshow/services"
)

var (
	seedURL     string
	seedOut     string
	seedAuthor  string
	seedTheme   string
	seedImage   bool
	seedWithTOC bool
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.pdf>...",
	Short: "Build a deck from PDFs through the extraction service",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedURL, "extract-url", "", "extraction service URL (default from config)")
	seedCmd.Flags().StringVarP(&seedOut, "out", "o", "deck.json", "deck file to write")
	seedCmd.Flags().StringVar(&seedAuthor, "author", "", "author shown on title slides")
	seedCmd.Flags().StringVarP(&seedTheme, "theme", "t", "", "theme stored in the deck")
	seedCmd.Flags().BoolVar(&seedImage, "generate-image", false, "ask the service for a cover image per file")
	seedCmd.Flags().BoolVar(&seedWithTOC, "toc", true, "insert a table of contents slide after the first slide")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := openLogger(cfg)
	defer log.Close()

	url := seedURL
	if url == "" {
		url = cfg.ExtractionURL
	}
	var files []services.File
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, services.File{Name: filepath.Base(path), Data: data})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp, err := services.NewClient(url, log).Upload(ctx, files, seedImage)
	if err != nil {
		return err
	}
	slides, err := slideshow.SlidesFromUploads(resp.Results, seedAuthor)
	if err != nil {
		return err
	}

	if seedWithTOC {
		tocClient := services.NewClient(cfg.TOCURL, log)
		toc, fallback, err := tocClient.GenerateTOC(ctx, slideshow.TextFromTerms(resp.Results))
		if fallback {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: using the default outline: %v\n", err)
		}
		tocSlide := slideshow.TOCSlide(toc)
		slides = append(slides[:1], append([]*slideshow.Slide{tocSlide}, slides[1:]...)...)
	}

	pres := slideshow.NewPresentation(slides...)
	pres.Author = seedAuthor
	pres.Theme = seedTheme
	if pres.Theme == "" {
		pres.Theme = cfg.DefaultTheme
	}
	if err := pres.Save(seedOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d slides to %s\n", pres.Len(), seedOut)
	return nil
}
