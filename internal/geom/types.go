package geom

import (
	"errors"
	"strconv"

	"github.com/paulmach/orb"
)

var (
	ErrNoFeatures     = errors.New("geom: no region features found")
	ErrObjectNotFound = errors.New("geom: topology object not found")
	ErrMissingColumn  = errors.New("geom: required column not found")
)

// Feature is one region of the map: an identifier and its polygon or
// multipolygon in lon/lat.
type Feature struct {
	ID         string
	Geometry   orb.Geometry
	Properties map[string]any
}

// Record is one row of tabular data. Valid is false when the metric did not
// parse as a number.
type Record struct {
	ID    string
	Name  string
	Value float64
	Valid bool
}

// Bound returns the union of the feature bounds.
func Bound(fs []Feature) orb.Bound {
	var b orb.Bound
	first := true
	for _, f := range fs {
		if f.Geometry == nil {
			continue
		}
		if first {
			b = f.Geometry.Bound()
			first = false
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	return b
}

// normalizeID renders JSON ids as strings; numbers use their shortest form so
// 1001 and "1001" join.
func normalizeID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
