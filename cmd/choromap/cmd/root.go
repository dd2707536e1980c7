package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"choromap/internal/config"
	"choromap/internal/load"
	"choromap/internal/logging"
	"choromap/internal/projection"
	"choromap/internal/render"
	"choromap/internal/scale"
	"choromap/internal/tooltip"
)

var (
	cfgPath  string
	logLevel string
	verbose  bool

	geometry string
	data     string
	width    int
	height   int

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "choromap",
	Short: "Choropleth maps of per-region values",
	Long: `choromap joins a table of per-region values to region geometry (US counties
by default) and renders a choropleth map with a legend.

The map can be explored in the terminal with a hover tooltip, or written out as
an SVG document or a PNG image.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		// the terminal viewer owns the screen, everything else logs to stderr
		file := ""
		if cmd.Name() == viewCmd.Name() {
			file = cfg.Log.File
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Development, file)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging at debug level")

	rootCmd.PersistentFlags().StringVarP(&geometry, "geometry", "g", "", "TopoJSON or GeoJSON file or URL")
	rootCmd.PersistentFlags().StringVarP(&data, "data", "d", "", "CSV file or URL with id, name and value columns")
	rootCmd.PersistentFlags().IntVar(&width, "width", 0, "canvas width in pixels")
	rootCmd.PersistentFlags().IntVar(&height, "height", 0, "canvas height in pixels")

	rootCmd.AddCommand(viewCmd, svgCmd, pngCmd, legendCmd)
}

// applyFlags lets explicitly set flags override file and environment values.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}
	if flags.Changed("geometry") {
		cfg.Sources.Geometry = geometry
	}
	if flags.Changed("data") {
		cfg.Sources.Data = data
	}
	if flags.Changed("width") {
		cfg.Canvas.Width = width
	}
	if flags.Changed("height") {
		cfg.Canvas.Height = height
	}
}

// renderTo loads both sources and runs one render pass onto surface.
func renderTo(ctx context.Context, surface render.Surface) (*render.Scene, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	res, err := load.Both(ctx, cfg.Sources, logger)
	if err != nil {
		return nil, err
	}
	s, err := scale.FromConfig(cfg.Scale)
	if err != nil {
		return nil, err
	}
	path := projection.NewPath(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Projection)
	tt := tooltip.New(cfg.Tooltip, cfg.Canvas.Width, nil)
	scene, err := render.New(cfg, s, path, tt, logger).Render(surface, res.Features, res.Records, res.Mesh)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return scene, nil
}
