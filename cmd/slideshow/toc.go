package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
	"github.com/VantageDataChat/GoSlideshow/services"
)

var (
	tocTextFile string
	tocFormat   string
	tocSlides   int
)

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Generate a table of contents from text",
	Args:  cobra.NoArgs,
	RunE:  runTOC,
}

func init() {
	rootCmd.AddCommand(tocCmd)
	tocCmd.Flags().StringVar(&tocTextFile, "text-file", "", "file with the document text (\"-\" for stdin)")
	tocCmd.Flags().StringVar(&tocFormat, "format", "list", "list, numbered or json")
	tocCmd.Flags().IntVar(&tocSlides, "slides", 0, "total slides, to estimate section pages")
	tocCmd.MarkFlagRequired("text-file")
}

func runTOC(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := openLogger(cfg)
	defer log.Close()

	var text []byte
	if tocTextFile == "-" {
		text, err = io.ReadAll(cmd.InOrStdin())
	} else {
		text, err = os.ReadFile(tocTextFile)
	}
	if err != nil {
		return err
	}

	toc, fallback, err := services.NewClient(cfg.TOCURL, log).GenerateTOC(context.Background(), string(text))
	if fallback {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: using the default outline: %v\n", err)
	}
	if tocSlides > 0 {
		toc = slideshow.AddPageNumbers(toc, tocSlides)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(tocFormat) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(toc)
	case "numbered":
		fmt.Fprintln(out, toc.Title)
		for _, n := range slideshow.FormatNumbered(toc) {
			fmt.Fprintf(out, "%s. %s\n", n.Number, n.Title)
			for _, c := range n.Children {
				fmt.Fprintf(out, "   %s. %s\n", c.Number, c.Title)
			}
		}
	case "list":
		fmt.Fprintln(out, toc.Title)
		for _, item := range slideshow.FormatSimpleList(toc) {
			fmt.Fprintln(out, item)
		}
	default:
		return fmt.Errorf("unknown format %q", tocFormat)
	}
	return nil
}
