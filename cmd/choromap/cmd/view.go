package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"choromap/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Explore the map in the terminal",
	Long: `Render the map in the terminal. Hover a region to see its value; press a to
list the joined records and q to quit. Logs go to the configured log file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := tui.New(cfg, logger)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
		return err
	},
}
