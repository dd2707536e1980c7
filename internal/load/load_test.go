package load

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"choromap/internal/config"
	"choromap/internal/geom"
)

const topology = `{
  "type": "Topology",
  "transform": {"scale": [1, 1], "translate": [0, 0]},
  "objects": {
    "counties": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "id": 1, "arcs": [[0, 1]]},
      {"type": "Polygon", "id": 2, "arcs": [[2, -1]]}
    ]},
    "states": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "id": "01", "arcs": [[0, 1]]},
      {"type": "Polygon", "id": "02", "arcs": [[2, -1]]}
    ]}
  },
  "arcs": [
    [[1, 0], [0, 1]],
    [[1, 1], [-1, 0], [0, -1], [1, 0]],
    [[1, 0], [1, 0], [0, 1], [-1, 0]]
  ]
}`

const records = "id,name,inflation\n1,One,3.0\n3,Three,9.0\n"

func sources(t *testing.T, geometry, data string) config.Sources {
	t.Helper()
	dir := t.TempDir()
	src := config.Default().Sources
	src.Geometry = filepath.Join(dir, "us.json")
	src.Data = filepath.Join(dir, "data.csv")
	if err := os.WriteFile(src.Geometry, []byte(geometry), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src.Data, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestBothFromFiles(t *testing.T) {
	src := sources(t, topology, records)
	res, err := Both(context.Background(), src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Features) != 2 {
		t.Errorf("features=%d, want 2", len(res.Features))
	}
	if len(res.Mesh) != 1 {
		t.Errorf("mesh=%d lines, want 1", len(res.Mesh))
	}
	if len(res.Records) != 2 || res.Records[1].ID != "3" {
		t.Errorf("records=%+v", res.Records)
	}
}

func TestBothFromURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/us.json":
			w.Write([]byte(topology))
		case "/data.csv":
			w.Write([]byte(records))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := config.Default().Sources
	src.Geometry = srv.URL + "/us.json"
	src.Data = srv.URL + "/data.csv"
	l := &Loader{Client: srv.Client()}
	res, err := l.Both(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Features) != 2 || len(res.Records) != 2 {
		t.Fatalf("got %d features, %d records", len(res.Features), len(res.Records))
	}

	src.Data = srv.URL + "/missing.csv"
	if _, err := l.Both(context.Background(), src); err == nil || !strings.Contains(err.Error(), "load data") {
		t.Errorf("err=%v, want load data failure", err)
	}
}

func TestBothFailsIfEitherFails(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
		data     string
		want     string
		is       error
	}{
		{"bad geometry", `{"type":"Topology","objects":{},"arcs":[]}`, records, "load geometry", geom.ErrObjectNotFound},
		{"bad data", topology, "fips,name\n1,a\n", "load data", geom.ErrMissingColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Both(context.Background(), sources(t, tt.geometry, tt.data), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if res != nil {
				t.Error("partial result returned")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err=%v, want prefix %q", err, tt.want)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("err=%v, want %v", err, tt.is)
			}
		})
	}
}

func TestBothMissingFile(t *testing.T) {
	src := sources(t, topology, records)
	src.Geometry = filepath.Join(t.TempDir(), "nope.json")
	_, err := Both(context.Background(), src, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v, want wrapped ErrNotExist", err)
	}
}

func TestGeometryGeoJSON(t *testing.T) {
	fc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","id":1,"properties":{"st":"A"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
	  {"type":"Feature","id":2,"properties":{"st":"B"},"geometry":{"type":"Polygon","coordinates":[[[1,0],[2,0],[2,1],[1,1],[1,0]]]}}]}`
	src := sources(t, fc, records)
	src.GroupProperty = "st"
	fs, mesh, err := (&Loader{}).Geometry(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 2 || len(mesh) != 1 {
		t.Errorf("features=%d mesh=%d", len(fs), len(mesh))
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Both(ctx, sources(t, topology, records), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err=%v, want context.Canceled", err)
	}
}
