package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const topology = `{
  "type": "Topology",
  "objects": {
    "counties": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "id": 1, "arcs": [[0, 1]]},
      {"type": "Polygon", "id": 2, "arcs": [[2, -1]]}
    ]},
    "states": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "id": 1, "arcs": [[0, 1]]},
      {"type": "Polygon", "id": 2, "arcs": [[2, -1]]}
    ]}
  },
  "arcs": [
    [[-99, 37], [-99, 38]],
    [[-99, 38], [-100, 38], [-100, 37], [-99, 37]],
    [[-99, 37], [-98, 37], [-98, 38], [-99, 38]]
  ]
}`

func run(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	geo := filepath.Join(dir, "us.json")
	csv := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(geo, []byte(topology), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csv, []byte("id,name,inflation\n1,One,3.0\n3,Three,9.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--geometry", geo, "--data", csv, "--log-level", "error"}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestSVGCommand(t *testing.T) {
	out := run(t, "svg", "-o", "-", "--static")
	for _, want := range []string{"<svg", `id="county1"`, "<title>One: $3.00</title>", "$12.00+", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
	if strings.Contains(out, "<animate") {
		t.Error("--static output animates")
	}
}

func TestPNGCommand(t *testing.T) {
	out := run(t, "png", "-o", "-")
	if !strings.HasPrefix(out, "\x89PNG") {
		t.Errorf("output is not a PNG: %q", out[:min(8, len(out))])
	}
}

func TestLegendCommand(t *testing.T) {
	out := run(t, "legend")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("legend lines=%d, want 7:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], "No Data") || !strings.HasSuffix(lines[6], "$12.00+") {
		t.Errorf("legend=\n%s", out)
	}
}
