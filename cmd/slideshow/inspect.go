package main

import (
	"fmt"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "Summarize a PPTX package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r slideshow.PPTXReader
		info, err := r.InspectFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Title:   %s\n", info.Title)
		fmt.Fprintf(out, "Creator: %s\n", info.Creator)
		fmt.Fprintf(out, "Company: %s\n", info.Company)
		fmt.Fprintf(out, "Size:    %d x %d EMU\n", info.Width, info.Height)
		fmt.Fprintf(out, "Slides:  %d\n", info.Slides)
		for i := 0; i < info.Slides; i++ {
			text := info.SlideTexts[i]
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Fprintf(out, "  %3d  pictures=%d  %q\n", i+1, info.SlidePictures[i], text)
		}
		fmt.Fprintf(out, "Media:   %d parts\n", len(info.Media))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
