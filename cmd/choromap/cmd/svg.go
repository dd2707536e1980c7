package cmd

import (
	"bytes"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"choromap/internal/render"
)

var (
	svgOut    string
	svgStatic bool
	pngOut    string
)

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Write the map as an SVG document",
	Long: `Write the map as an SVG document. Every region with data carries its tooltip
as a <title>, and the legend bands animate in unless --static is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var buf bytes.Buffer
		if err := writeSVG(cmd, &buf, svgStatic); err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), svgOut, buf.Bytes())
	},
}

var pngCmd = &cobra.Command{
	Use:   "png",
	Short: "Write the map as a PNG image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var buf bytes.Buffer
		if err := writeSVG(cmd, &buf, true); err != nil {
			return err
		}
		img, err := render.RasterizePNG(buf.Bytes(), cfg.Canvas.Width, cfg.Canvas.Height)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), pngOut, img)
	},
}

func init() {
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "map.svg", `output file, "-" for stdout`)
	svgCmd.Flags().BoolVar(&svgStatic, "static", false, "draw the legend in its final state without animation")
	pngCmd.Flags().StringVarP(&pngOut, "output", "o", "map.png", `output file, "-" for stdout`)
}

func writeSVG(cmd *cobra.Command, w io.Writer, static bool) error {
	surface := render.NewSVGSurface(w, cfg.Canvas.Width, cfg.Canvas.Height, static)
	scene, err := renderTo(cmd.Context(), surface)
	if err != nil {
		return err
	}
	surface.Close()
	logger.Debug("svg written", zap.Int("regions", len(scene.Regions)), zap.Bool("static", static))
	return nil
}

func output(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Info("map written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
