// Package tui is the interactive terminal viewer: it loads both sources,
// renders the map onto a cell canvas and drives the tooltip from the mouse.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"choromap/internal/config"
	"choromap/internal/load"
	"choromap/internal/logging"
	"choromap/internal/projection"
	"choromap/internal/render"
	"choromap/internal/scale"
	"choromap/internal/tooltip"
)

const (
	headerHeight = 1
	footerHeight = 1
	frameRate    = time.Second / 30
)

type Model struct {
	width  int
	height int

	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time

	scale    *scale.Scale
	tooltip  *tooltip.Controller
	renderer *render.Renderer

	// loading
	loading bool
	spin    spinner.Model
	data    *load.Result
	err     error

	// rendered state
	canvas      *Canvas
	scene       *render.Scene
	legendStart time.Time
	ticking     bool

	hover string

	// records table
	showRecords bool
	tbl         table.Model

	status string
}

// New builds the viewer for cfg. The sources are loaded once Init runs.
func New(cfg config.Config, logger *zap.Logger) (Model, error) {
	return NewWithClock(cfg, logger, time.Now)
}

// NewWithClock is New with the clock driving the animations injected.
func NewWithClock(cfg config.Config, logger *zap.Logger, now func() time.Time) (Model, error) {
	s, err := scale.FromConfig(cfg.Scale)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:     cfg,
		logger:  logging.OrNop(logger),
		now:     now,
		scale:   s,
		loading: true,
		status:  "loading " + cfg.Sources.Geometry + " and " + cfg.Sources.Data,
	}
	m.tooltip = tooltip.New(cfg.Tooltip, cfg.Canvas.Width, now)
	path := projection.NewPath(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Projection)
	m.renderer = render.New(cfg, s, path, m.tooltip, m.logger)

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = titleStyle

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m, nil
}

type loadedMsg struct {
	res *load.Result
	err error
}

type frameMsg time.Time

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	src, logger := m.cfg.Sources, m.logger
	return func() tea.Msg {
		res, err := load.Both(context.Background(), src, logger)
		return loadedMsg{res: res, err: err}
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) mapSize() (cols, rows int) {
	return max(10, m.width), max(4, m.height-headerHeight-footerHeight)
}

// draw runs the render pass onto a canvas sized to the window.
func (m *Model) draw() {
	if m.data == nil || m.width == 0 {
		return
	}
	cols, rows := m.mapSize()
	canvas := NewCanvas(cols, rows, m.cfg.Canvas.Width, m.cfg.Canvas.Height)
	scene, err := m.renderer.Render(canvas, m.data.Features, m.data.Records, m.data.Mesh)
	if err != nil {
		m.err = err
		m.status = err.Error()
		m.logger.Error("render failed", zap.Error(err))
		return
	}
	m.canvas, m.scene = canvas, scene
	if m.legendStart.IsZero() {
		m.legendStart = m.now()
	}
	m.refreshRecords()
}

func (m Model) animating() bool {
	if m.scene == nil {
		return false
	}
	if m.now().Sub(m.legendStart) < m.scene.Legend.Duration {
		return true
	}
	return m.tooltip.Animating()
}

// startFrames begins the frame ticks unless they already run.
func (m *Model) startFrames() tea.Cmd {
	if m.ticking || !m.animating() {
		return nil
	}
	m.ticking = true
	return frame()
}
