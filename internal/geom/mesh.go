package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

type edgeKey struct{ a, b orb.Point }

func newEdgeKey(p, q orb.Point) edgeKey {
	if q[0] < p[0] || (q[0] == p[0] && q[1] < p[1]) {
		p, q = q, p
	}
	return edgeKey{p, q}
}

// SharedEdges derives a border mesh from plain polygon features, which carry
// no topology: a segment belongs to the mesh when two features with different
// groups both use it. With an empty group property every feature is its own
// group. Segments are returned in first-seen order.
func SharedEdges(fs []Feature, groupProperty string) orb.MultiLineString {
	type owner struct {
		feature int
		group   string
	}
	first := make(map[edgeKey]owner)
	kept := make(map[edgeKey]bool)
	var order []edgeKey

	visitRing := func(fi int, group string, r orb.Ring) {
		for i := 0; i+1 < len(r); i++ {
			if r[i] == r[i+1] {
				continue
			}
			k := newEdgeKey(r[i], r[i+1])
			o, seen := first[k]
			if !seen {
				first[k] = owner{feature: fi, group: group}
				continue
			}
			if o.feature != fi && o.group != group && !kept[k] {
				kept[k] = true
				order = append(order, k)
			}
		}
	}

	for fi, f := range fs {
		group := fmt.Sprintf("#%d", fi)
		if groupProperty != "" {
			group = fmt.Sprint(f.Properties[groupProperty])
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			for _, r := range g {
				visitRing(fi, group, r)
			}
		case orb.MultiPolygon:
			for _, p := range g {
				for _, r := range p {
					visitRing(fi, group, r)
				}
			}
		}
	}

	mesh := make(orb.MultiLineString, 0, len(order))
	for _, k := range order {
		mesh = append(mesh, orb.LineString{k.a, k.b})
	}
	return mesh
}
