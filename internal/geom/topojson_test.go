package geom

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

// Two unit squares side by side sharing the edge (1,0)-(1,1).
const twoSquares = `{
  "type": "Topology",
  "transform": {"scale": [1, 1], "translate": [0, 0]},
  "objects": {
    "counties": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Polygon", "id": 1, "arcs": [[0, 1]], "properties": {"state": "A"}},
        {"type": "Polygon", "id": "02", "arcs": [[2, -1]], "properties": {"state": "B"}},
        {"type": null}
      ]
    }
  },
  "arcs": [
    [[1, 0], [0, 1]],
    [[1, 1], [-1, 0], [0, -1], [1, 0]],
    [[1, 0], [1, 0], [0, 1], [-1, 0]]
  ]
}`

func readTwoSquares(t *testing.T) *Topology {
	t.Helper()
	topo, err := ReadTopology(strings.NewReader(twoSquares))
	if err != nil {
		t.Fatal(err)
	}
	return topo
}

func TestReadTopologyFeatures(t *testing.T) {
	topo := readTwoSquares(t)
	fs, err := topo.Features("counties")
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 2 {
		t.Fatalf("features=%d, want 2", len(fs))
	}
	if fs[0].ID != "1" || fs[1].ID != "02" {
		t.Errorf("ids=%q,%q want 1,02", fs[0].ID, fs[1].ID)
	}

	left := fs[0].Geometry.(orb.Polygon)
	want := orb.Ring{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}
	if !left[0].Equal(want) {
		t.Errorf("left ring=%v, want %v", left[0], want)
	}

	right := fs[1].Geometry.(orb.Polygon)
	want = orb.Ring{{1, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 0}}
	if !right[0].Equal(want) {
		t.Errorf("right ring=%v, want %v", right[0], want)
	}
	if fs[1].Properties["state"] != "B" {
		t.Errorf("properties not carried: %v", fs[1].Properties)
	}
}

func TestTopologyTransform(t *testing.T) {
	src := strings.Replace(twoSquares, `"scale": [1, 1], "translate": [0, 0]`, `"scale": [2, 3], "translate": [10, 20]`, 1)
	topo, err := ReadTopology(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := topo.Features("counties")
	if err != nil {
		t.Fatal(err)
	}
	ring := fs[0].Geometry.(orb.Polygon)[0]
	if ring[0] != (orb.Point{12, 20}) || ring[1] != (orb.Point{12, 23}) {
		t.Errorf("transformed ring starts %v %v", ring[0], ring[1])
	}
	b := Bound(fs)
	if b.Min != (orb.Point{10, 20}) || b.Max != (orb.Point{14, 23}) {
		t.Errorf("bound=%v", b)
	}
}

func TestTopologyInteriorMesh(t *testing.T) {
	topo := readTwoSquares(t)
	mesh, err := topo.Mesh("counties", Interior)
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh) != 1 {
		t.Fatalf("mesh lines=%d, want 1", len(mesh))
	}
	if !mesh[0].Equal(orb.LineString{{1, 0}, {1, 1}}) {
		t.Errorf("mesh=%v", mesh[0])
	}

	all, err := topo.Mesh("counties", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered mesh lines=%d, want 3", len(all))
	}
}

func TestTopologyErrors(t *testing.T) {
	topo := readTwoSquares(t)
	if _, err := topo.Features("states"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Features(states) err=%v, want ErrObjectNotFound", err)
	}
	if _, err := topo.Mesh("states", Interior); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Mesh(states) err=%v, want ErrObjectNotFound", err)
	}
	if _, err := ReadTopology(strings.NewReader(`{"type":"FeatureCollection"}`)); err == nil {
		t.Error("expected error for non-topology document")
	}
	bad := strings.Replace(twoSquares, `"arcs": [[2, -1]]`, `"arcs": [[7]]`, 1)
	topo, err := ReadTopology(strings.NewReader(bad))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := topo.Features("counties"); err == nil {
		t.Error("expected out-of-range arc error")
	}
}
