package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.hover != "" && m.scene != nil {
			m.scene.Leave(m.hover)
			m.hover = ""
		}
		m.draw()
		return m, m.startFrames()

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "load failed: " + msg.err.Error()
			return m, nil
		}
		m.data = msg.res
		m.status = fmt.Sprintf("%d regions  %d records", len(msg.res.Features), len(msg.res.Records))
		m.draw()
		return m, m.startFrames()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case frameMsg:
		if m.animating() {
			return m, frame()
		}
		m.ticking = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "a":
			if m.scene == nil {
				return m, nil
			}
			m.showRecords = !m.showRecords
			if m.showRecords && m.hover != "" {
				m.scene.Leave(m.hover)
				m.hover = ""
			}
			return m, m.startFrames()
		case "r":
			m.legendStart = m.now()
			return m, m.startFrames()
		}
		if m.showRecords {
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.scene == nil || m.canvas == nil || m.showRecords {
			return m, nil
		}
		return m, m.pointer(msg.X, msg.Y-headerHeight)
	}
	return m, nil
}

// pointer moves the hover to the region under cell (col, row). Enter and
// leave only fire when the region changes.
func (m *Model) pointer(col, row int) tea.Cmd {
	cols, rows := m.canvas.Size()
	id := ""
	var x, y float64
	if col >= 0 && col < cols && row >= 0 && row < rows {
		x, y = m.canvas.CellCenter(col, row)
		id, _ = m.scene.At(x, y)
	}
	if id == m.hover {
		return nil
	}
	if m.hover != "" {
		m.scene.Leave(m.hover)
	}
	m.hover = id
	if id != "" && m.scene.Enter(id, x, y) {
		m.logger.Debug("hover", zap.String("region", id))
	}
	return m.startFrames()
}
