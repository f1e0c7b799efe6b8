package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in themes and their layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tBACKGROUND\tTITLE FONT\tLAYOUTS")
		for _, t := range slideshow.DefaultRegistry().Catalog() {
			kinds := make([]string, len(t.Capabilities))
			for i, k := range t.Capabilities {
				kinds[i] = string(k)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, t.Background, t.TitleFont, strings.Join(kinds, ","))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
