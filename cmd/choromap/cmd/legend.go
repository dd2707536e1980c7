package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"choromap/internal/legend"
	"choromap/internal/scale"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Print the colour buckets of the configured scale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scale.FromConfig(cfg.Scale)
		if err != nil {
			return err
		}
		for _, e := range legend.Build(s, cfg.Legend.Currency) {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.Hex())).Render("██")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", swatch, e.Color.Hex(), e.Label)
		}
		return nil
	},
}
