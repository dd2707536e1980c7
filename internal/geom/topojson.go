package geom

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
)

// Topology is a decoded TopoJSON document. Arcs are stored in absolute
// coordinates after delta decoding and the quantization transform.
type Topology struct {
	Type      string                   `json:"type"`
	Transform *Transform               `json:"transform,omitempty"`
	Objects   map[string]*TopoGeometry `json:"objects"`
	RawArcs   [][][]float64            `json:"arcs"`

	arcs [][]orb.Point
}

type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// TopoGeometry is a geometry object of a topology. Arcs holds arc indexes
// nested according to Type; negative index ~i means arc i reversed.
type TopoGeometry struct {
	Type        string          `json:"type"`
	ID          any             `json:"id,omitempty"`
	Properties  map[string]any  `json:"properties,omitempty"`
	Arcs        json.RawMessage `json:"arcs,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []*TopoGeometry `json:"geometries,omitempty"`
}

// ReadTopology decodes a TopoJSON topology.
func ReadTopology(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("geom: decode topology: %w", err)
	}
	if t.Type != "Topology" {
		return nil, fmt.Errorf("geom: expected Topology, got %q", t.Type)
	}
	t.decodeArcs()
	return &t, nil
}

func (t *Topology) decodeArcs() {
	t.arcs = make([][]orb.Point, len(t.RawArcs))
	for i, raw := range t.RawArcs {
		pts := make([]orb.Point, 0, len(raw))
		var x, y float64
		for _, p := range raw {
			if len(p) < 2 {
				continue
			}
			if t.Transform == nil {
				pts = append(pts, orb.Point{p[0], p[1]})
				continue
			}
			x += p[0]
			y += p[1]
			pts = append(pts, t.transform(x, y))
		}
		t.arcs[i] = pts
	}
}

func (t *Topology) transform(x, y float64) orb.Point {
	if t.Transform == nil {
		return orb.Point{x, y}
	}
	return orb.Point{
		x*t.Transform.Scale[0] + t.Transform.Translate[0],
		y*t.Transform.Scale[1] + t.Transform.Translate[1],
	}
}

// Features converts the named object into features, flattening geometry
// collections. Geometries without coordinates are skipped.
func (t *Topology) Features(name string) ([]Feature, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	var out []Feature
	var walk func(g *TopoGeometry) error
	walk = func(g *TopoGeometry) error {
		if g == nil {
			return nil
		}
		if g.Type == "GeometryCollection" {
			for _, c := range g.Geometries {
				if err := walk(c); err != nil {
					return err
				}
			}
			return nil
		}
		geometry, err := t.Geometry(g)
		if err != nil {
			return err
		}
		if geometry == nil {
			return nil
		}
		out = append(out, Feature{ID: normalizeID(g.ID), Geometry: geometry, Properties: g.Properties})
		return nil
	}
	if err := walk(obj); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoFeatures
	}
	return out, nil
}

// Geometry converts a single (non-collection) topology geometry.
func (t *Topology) Geometry(g *TopoGeometry) (orb.Geometry, error) {
	switch g.Type {
	case "", "null":
		return nil, nil
	case "Point":
		var c []float64
		if err := json.Unmarshal(g.Coordinates, &c); err != nil || len(c) < 2 {
			return nil, fmt.Errorf("geom: point %v: bad coordinates", g.ID)
		}
		return t.transform(c[0], c[1]), nil
	case "MultiPoint":
		var cs [][]float64
		if err := json.Unmarshal(g.Coordinates, &cs); err != nil {
			return nil, fmt.Errorf("geom: multipoint %v: %w", g.ID, err)
		}
		mp := make(orb.MultiPoint, 0, len(cs))
		for _, c := range cs {
			if len(c) >= 2 {
				mp = append(mp, t.transform(c[0], c[1]))
			}
		}
		return mp, nil
	case "LineString":
		var idx []int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return nil, fmt.Errorf("geom: linestring %v: %w", g.ID, err)
		}
		return t.line(idx)
	case "MultiLineString":
		var idx [][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return nil, fmt.Errorf("geom: multilinestring %v: %w", g.ID, err)
		}
		mls := make(orb.MultiLineString, 0, len(idx))
		for _, l := range idx {
			ls, err := t.line(l)
			if err != nil {
				return nil, err
			}
			mls = append(mls, ls)
		}
		return mls, nil
	case "Polygon":
		var idx [][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return nil, fmt.Errorf("geom: polygon %v: %w", g.ID, err)
		}
		return t.polygon(idx)
	case "MultiPolygon":
		var idx [][][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return nil, fmt.Errorf("geom: multipolygon %v: %w", g.ID, err)
		}
		mp := make(orb.MultiPolygon, 0, len(idx))
		for _, p := range idx {
			poly, err := t.polygon(p)
			if err != nil {
				return nil, err
			}
			mp = append(mp, poly)
		}
		return mp, nil
	}
	return nil, fmt.Errorf("geom: unsupported topology geometry %q", g.Type)
}

func (t *Topology) arc(i int) ([]orb.Point, error) {
	j := i
	if i < 0 {
		j = ^i
	}
	if j >= len(t.arcs) {
		return nil, fmt.Errorf("geom: arc index %d out of range", i)
	}
	a := t.arcs[j]
	out := make([]orb.Point, len(a))
	if i < 0 {
		for k := range a {
			out[k] = a[len(a)-1-k]
		}
	} else {
		copy(out, a)
	}
	return out, nil
}

// line joins arcs end to start, dropping the duplicated joint.
func (t *Topology) line(idx []int) (orb.LineString, error) {
	var pts orb.LineString
	for _, i := range idx {
		a, err := t.arc(i)
		if err != nil {
			return nil, err
		}
		if len(pts) > 0 {
			pts = pts[:len(pts)-1]
		}
		pts = append(pts, a...)
	}
	return pts, nil
}

func (t *Topology) polygon(rings [][]int) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		ls, err := t.line(r)
		if err != nil {
			return nil, err
		}
		if len(ls) == 0 {
			continue
		}
		for len(ls) < 4 {
			ls = append(ls, ls[0])
		}
		poly = append(poly, orb.Ring(ls))
	}
	return poly, nil
}

// MeshFilter decides whether an arc shared by geometries a and b (a == b for
// arcs used once) belongs to the mesh.
type MeshFilter func(a, b *TopoGeometry) bool

// Interior keeps only arcs shared by two different geometries, i.e. the
// borders between neighbours without the outer coastline.
func Interior(a, b *TopoGeometry) bool { return a != b }

// Mesh returns the arcs of the named object that pass filter, one line per
// arc in arc order. A nil filter keeps every arc.
func (t *Topology) Mesh(name string, filter MeshFilter) (orb.MultiLineString, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	type use struct {
		i int
		g *TopoGeometry
	}
	byArc := make([][]use, len(t.arcs))
	record := func(g *TopoGeometry, i int) {
		j := i
		if i < 0 {
			j = ^i
		}
		if j < len(byArc) {
			byArc[j] = append(byArc[j], use{i: i, g: g})
		}
	}
	var walk func(g *TopoGeometry) error
	walk = func(g *TopoGeometry) error {
		if g == nil {
			return nil
		}
		switch g.Type {
		case "GeometryCollection":
			for _, c := range g.Geometries {
				if err := walk(c); err != nil {
					return err
				}
			}
		case "LineString":
			var idx []int
			if err := json.Unmarshal(g.Arcs, &idx); err != nil {
				return err
			}
			for _, i := range idx {
				record(g, i)
			}
		case "MultiLineString", "Polygon":
			var idx [][]int
			if err := json.Unmarshal(g.Arcs, &idx); err != nil {
				return err
			}
			for _, l := range idx {
				for _, i := range l {
					record(g, i)
				}
			}
		case "MultiPolygon":
			var idx [][][]int
			if err := json.Unmarshal(g.Arcs, &idx); err != nil {
				return err
			}
			for _, p := range idx {
				for _, l := range p {
					for _, i := range l {
						record(g, i)
					}
				}
			}
		}
		return nil
	}
	if err := walk(obj); err != nil {
		return nil, fmt.Errorf("geom: mesh %q: %w", name, err)
	}

	var mesh orb.MultiLineString
	for _, uses := range byArc {
		if len(uses) == 0 {
			continue
		}
		if filter != nil && !filter(uses[0].g, uses[len(uses)-1].g) {
			continue
		}
		a, err := t.arc(uses[0].i)
		if err != nil {
			return nil, err
		}
		mesh = append(mesh, orb.LineString(a))
	}
	return mesh, nil
}
