package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	cols, rows := m.mapSize()

	header := titleStyle.Render(" choromap ")
	if m.scene != nil {
		header += dimStyle.Render(m.cfg.Sources.ValueColumn + " by region")
	}
	header = lipgloss.NewStyle().Width(cols).MaxWidth(cols).Render(header)

	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, m.spin.View()+" loading sources")
	case m.err != nil || m.canvas == nil:
		body = lipgloss.NewStyle().Width(cols).Height(rows).Render("")
	case m.showRecords:
		m.tbl.SetWidth(min(cols-4, 80))
		m.tbl.SetHeight(max(2, rows-4))
		box := boxStyle.Render(m.tbl.View())
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, box)
	default:
		body = strings.Join(m.canvasLines(), "\n")
	}

	status := dimStyle.Render(" " + m.status + " ")
	if m.err != nil {
		status = errorStyle.Render(" " + m.status + " ")
	}
	if m.hover != "" {
		status += dimStyle.Render(" " + m.cfg.Region.IDPrefix + " " + m.hover + " ")
	}
	footer := lipgloss.NewStyle().Width(cols).MaxWidth(cols).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp()))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(cols).Height(m.height).Render(ui)
}

// canvasLines composes the map at the current animation frame with the
// tooltip on top.
func (m Model) canvasLines() []string {
	now := m.now()
	grid := m.canvas.compose(m.scene.Legend.Progress(now.Sub(m.legendStart)))
	if op := m.tooltip.Opacity(); op > 0 {
		st := m.tooltip.State()
		col, row := m.canvas.Cell(st.Left, st.Top)
		overlay(grid, col, row, " "+st.Text+" ", op)
	}
	return lines(grid)
}

func (m Model) renderHelp() string {
	keys := []string{"mouse hover", "a records", "r replay legend", "q quit"}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
