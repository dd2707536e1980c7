package geom

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ReadGeoJSON reads a Feature or FeatureCollection and returns its polygonal
// features. The feature id comes from the GeoJSON "id" member, falling back to
// an "id" property. Non-polygonal features are skipped.
func ReadGeoJSON(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("geom: decode geojson: %w", err)
	}

	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("geom: decode geojson: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("geom: decode geojson: %w", err)
		}
		features = []*geojson.Feature{f}
	default:
		return nil, fmt.Errorf("geom: unsupported geojson type %q", head.Type)
	}

	var out []Feature
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		id := normalizeID(f.ID)
		if id == "" {
			id = normalizeID(f.Properties["id"])
		}
		out = append(out, Feature{ID: id, Geometry: f.Geometry, Properties: f.Properties})
	}
	if len(out) == 0 {
		return nil, ErrNoFeatures
	}
	return out, nil
}
