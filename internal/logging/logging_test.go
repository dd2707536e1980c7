package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l, err := New("debug", false, path)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("load failed")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "load failed") {
		t.Fatalf("log file missing entry: %s", b)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", false, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop returned nil")
	}
}
