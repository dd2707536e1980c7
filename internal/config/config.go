// Package config holds the immutable render configuration shared by every
// component of the map. A Config is built once (defaults, then YAML file, then
// environment, then flags), validated, and passed by value from then on.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Canvas     Canvas     `yaml:"canvas"`
	Scale      Scale      `yaml:"scale"`
	Border     Border     `yaml:"border"`
	Region     Region     `yaml:"region"`
	Legend     Legend     `yaml:"legend"`
	Tooltip    Tooltip    `yaml:"tooltip"`
	Projection Projection `yaml:"projection"`
	Sources    Sources    `yaml:"sources"`
	Log        Log        `yaml:"log"`
}

// Canvas is the fixed-size drawing surface in pixels.
type Canvas struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Scale struct {
	Min           float64 `yaml:"min"`
	Max           float64 `yaml:"max"`
	Steps         int     `yaml:"steps"`
	LowColor      string  `yaml:"low_color"`
	HighColor     string  `yaml:"high_color"`
	NoDataColor   string  `yaml:"no_data_color"`
	Interpolation string  `yaml:"interpolation"`
}

// Border styles the shared-boundary mesh drawn over the fills.
type Border struct {
	Color string  `yaml:"color"`
	Width float64 `yaml:"width"`
}

type Region struct {
	StrokeWidth float64 `yaml:"stroke_width"`
	IDPrefix    string  `yaml:"id_prefix"`
}

type Legend struct {
	Padding      float64       `yaml:"padding"`
	BandHeight   float64       `yaml:"band_height"`
	BottomMargin float64       `yaml:"bottom_margin"`
	Duration     time.Duration `yaml:"duration"`
	Currency     string        `yaml:"currency"`
}

type Tooltip struct {
	OffsetY     float64       `yaml:"offset_y"`
	AdjustRange float64       `yaml:"adjust_range"`
	Opacity     float64       `yaml:"opacity"`
	Duration    time.Duration `yaml:"duration"`
	Threshold   float64       `yaml:"threshold"`
	OnesDigits  int           `yaml:"ones_digits"`
	TensDigits  int           `yaml:"tens_digits"`
}

// Projection factors are relative to the canvas: scale = width*ScaleFactor,
// translate = (width/2, height - height*TranslateYFraction).
type Projection struct {
	ScaleFactor        float64 `yaml:"scale_factor"`
	TranslateYFraction float64 `yaml:"translate_y_fraction"`
}

type Sources struct {
	Geometry      string `yaml:"geometry"`
	Data          string `yaml:"data"`
	RegionsObject string `yaml:"regions_object"`
	BordersObject string `yaml:"borders_object"`
	GroupProperty string `yaml:"group_property"`
	IDColumn      string `yaml:"id_column"`
	NameColumn    string `yaml:"name_column"`
	ValueColumn   string `yaml:"value_column"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

// Default returns the configuration of the reference county map.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 580, Height: 450},
		Scale: Scale{
			Min:           2.5,
			Max:           12,
			Steps:         6,
			LowColor:      "#fee0d2",
			HighColor:     "#de2d26",
			NoDataColor:   "#cccccc",
			Interpolation: "rgb",
		},
		Border: Border{Color: "#ffffff", Width: 1.5},
		Region: Region{StrokeWidth: 0.7, IDPrefix: "county"},
		Legend: Legend{
			Padding:      0.2,
			BandHeight:   30,
			BottomMargin: 0.1,
			Duration:     700 * time.Millisecond,
			Currency:     "$",
		},
		Tooltip: Tooltip{
			OffsetY:     50,
			AdjustRange: 400,
			Opacity:     0.9,
			Duration:    200 * time.Millisecond,
			Threshold:   10,
			OnesDigits:  3,
			TensDigits:  4,
		},
		Projection: Projection{ScaleFactor: 1.2, TranslateYFraction: 0.6},
		Sources: Sources{
			Geometry:      "data/us.json",
			Data:          "data/rpp-inflation-dollars.csv",
			RegionsObject: "counties",
			BordersObject: "states",
			IDColumn:      "id",
			NameColumn:    "name",
			ValueColumn:   "inflation",
		},
		Log: Log{Level: "info", File: "choromap.log"},
	}
}

// Load builds a Config from defaults, the optional YAML file at path and the
// environment. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Sources.Geometry = getEnv("CHOROMAP_GEOMETRY", c.Sources.Geometry)
	c.Sources.Data = getEnv("CHOROMAP_DATA", c.Sources.Data)
	c.Sources.ValueColumn = getEnv("CHOROMAP_VALUE_COLUMN", c.Sources.ValueColumn)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("CHOROMAP_LOG_FILE", c.Log.File)

	var err error
	if c.Canvas.Width, err = getEnvAsInt("CHOROMAP_WIDTH", c.Canvas.Width); err != nil {
		return err
	}
	if c.Canvas.Height, err = getEnvAsInt("CHOROMAP_HEIGHT", c.Canvas.Height); err != nil {
		return err
	}
	if c.Scale.Min, err = getEnvAsFloat("CHOROMAP_SCALE_MIN", c.Scale.Min); err != nil {
		return err
	}
	if c.Scale.Max, err = getEnvAsFloat("CHOROMAP_SCALE_MAX", c.Scale.Max); err != nil {
		return err
	}
	if c.Scale.Steps, err = getEnvAsInt("CHOROMAP_SCALE_STEPS", c.Scale.Steps); err != nil {
		return err
	}
	return nil
}

// Validate checks the constraints every component relies on.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Scale.Steps < 2 {
		errs = append(errs, fmt.Errorf("config: scale steps must be >= 2, got %d", c.Scale.Steps))
	}
	if !(c.Scale.Max > c.Scale.Min) {
		errs = append(errs, fmt.Errorf("config: scale max (%g) must be greater than min (%g)", c.Scale.Max, c.Scale.Min))
	}
	for name, hex := range map[string]string{
		"low_color":     c.Scale.LowColor,
		"high_color":    c.Scale.HighColor,
		"no_data_color": c.Scale.NoDataColor,
		"border color":  c.Border.Color,
	} {
		if _, err := ParseColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", name, err))
		}
	}
	if c.Legend.Padding < 0 || c.Legend.Padding >= 1 {
		errs = append(errs, fmt.Errorf("config: legend padding must be in [0,1), got %g", c.Legend.Padding))
	}
	if c.Tooltip.OnesDigits < 1 || c.Tooltip.TensDigits < 1 {
		errs = append(errs, errors.New("config: tooltip digits must be >= 1"))
	}
	return errors.Join(errs...)
}

// ParseColor accepts #rgb and #rrggbb hex colours.
func ParseColor(hex string) (colorful.Color, error) {
	h := strings.TrimSpace(hex)
	if len(h) == 4 && h[0] == '#' {
		h = string([]byte{'#', h[1], h[1], h[2], h[2], h[3], h[3]})
	}
	return colorful.Hex(h)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}
