// Package load fetches the geometry and the tabular data concurrently and
// joins them behind a single barrier.
package load

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"choromap/internal/config"
	"choromap/internal/geom"
	"choromap/internal/logging"
)

// Result is everything the render pass needs from the two sources.
type Result struct {
	Features []geom.Feature
	Mesh     orb.MultiLineString
	Records  []geom.Record
}

// Loader resolves sources from local paths or http(s) URLs.
type Loader struct {
	Client *http.Client
	Logger *zap.Logger
}

// Both runs the geometry and data loads concurrently. The first failure
// cancels the other load and is returned; no partial result is returned.
func Both(ctx context.Context, src config.Sources, logger *zap.Logger) (*Result, error) {
	l := &Loader{Logger: logger}
	return l.Both(ctx, src)
}

func (l *Loader) Both(ctx context.Context, src config.Sources) (*Result, error) {
	log := l.logger()
	t0 := time.Now()

	var res Result
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		fs, mesh, err := l.Geometry(ctx, src)
		if err != nil {
			return fmt.Errorf("load geometry: %w", err)
		}
		res.Features, res.Mesh = fs, mesh
		return nil
	})
	eg.Go(func() error {
		rs, err := l.Data(ctx, src)
		if err != nil {
			return fmt.Errorf("load data: %w", err)
		}
		res.Records = rs
		return nil
	})
	if err := eg.Wait(); err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}
	b := geom.Bound(res.Features)
	log.Info("sources loaded",
		zap.Int("features", len(res.Features)),
		zap.Float64s("bound", []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}),
		zap.Int("mesh_lines", len(res.Mesh)),
		zap.Int("records", len(res.Records)),
		zap.Duration("elapsed", time.Since(t0)),
	)
	return &res, nil
}

// Geometry reads a TopoJSON topology or a GeoJSON document, detected by its
// "type" member, and returns the region features and the border mesh.
func (l *Loader) Geometry(ctx context.Context, src config.Sources) ([]geom.Feature, orb.MultiLineString, error) {
	data, err := l.read(ctx, src.Geometry)
	if err != nil {
		return nil, nil, err
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", src.Geometry, err)
	}

	if head.Type != "Topology" {
		fs, err := geom.ReadGeoJSON(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		return fs, geom.SharedEdges(fs, src.GroupProperty), nil
	}

	topo, err := geom.ReadTopology(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	fs, err := topo.Features(src.RegionsObject)
	if err != nil {
		return nil, nil, err
	}
	borders := src.BordersObject
	if borders == "" {
		borders = src.RegionsObject
	}
	mesh, err := topo.Mesh(borders, geom.Interior)
	if err != nil {
		return nil, nil, err
	}
	return fs, mesh, nil
}

// Data reads the CSV records. Rows with an unparseable value are kept as
// invalid and counted in a warning.
func (l *Loader) Data(ctx context.Context, src config.Sources) ([]geom.Record, error) {
	data, err := l.read(ctx, src.Data)
	if err != nil {
		return nil, err
	}
	rs, err := geom.ReadRecords(bytes.NewReader(data), geom.Columns{
		ID:    src.IDColumn,
		Name:  src.NameColumn,
		Value: src.ValueColumn,
	})
	if err != nil {
		return nil, err
	}
	if n := geom.Invalid(rs); n > 0 {
		l.logger().Warn("malformed values treated as no data", zap.Int("rows", n), zap.String("column", src.ValueColumn))
	}
	return rs, nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("empty source location")
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	l.logger().Debug("fetching source", zap.String("url", location))
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", location, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (l *Loader) logger() *zap.Logger { return logging.OrNop(l.Logger) }
