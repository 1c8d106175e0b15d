//go:build !tinygo

package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBoardIsValid(t *testing.T) {
	b := DefaultBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if b.Cores != 2 || b.PeriodTicks != 1000 {
		t.Fatalf("DefaultBoard = %+v", b)
	}
}

func TestLoadBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	profile := `{"name":"quad","cores":4,"tick_hz":100,"period_ticks":250,"heap_bytes":65536,"pin_cores":true}`
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := LoadBoard(path)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if b.Name != "quad" || b.Cores != 4 || b.TickHz != 100 {
		t.Fatalf("loaded %+v", b)
	}
	if b.PeriodTicks != 250 || b.HeapBytes != 65536 || !b.PinCores {
		t.Fatalf("loaded %+v", b)
	}

	cfg := b.Config()
	if cfg.PeriodTicks != 250 || cfg.HeapBytes != 65536 || !cfg.PinCores {
		t.Fatalf("Config = %+v", cfg)
	}
}

func TestLoadBoardKeepsDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte(`{"cores":3}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := LoadBoard(path)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	def := DefaultBoard()
	if b.Cores != 3 || b.PeriodTicks != def.PeriodTicks || b.Name != def.Name {
		t.Fatalf("loaded %+v", b)
	}
}

func TestLoadBoardErrors(t *testing.T) {
	if _, err := LoadBoard(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("LoadBoard succeeded for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"cores":`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadBoard(bad); err == nil {
		t.Fatal("LoadBoard succeeded for malformed JSON")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"cores":0}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadBoard(invalid); err == nil {
		t.Fatal("LoadBoard accepted an invalid profile")
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*BoardProfile)
		ok   bool
	}{
		{"default", func(*BoardProfile) {}, true},
		{"zero cores", func(b *BoardProfile) { b.Cores = 0 }, false},
		{"negative tick rate", func(b *BoardProfile) { b.TickHz = -1 }, false},
		{"negative heap", func(b *BoardProfile) { b.HeapBytes = -1 }, false},
		{"zero tick rate", func(b *BoardProfile) { b.TickHz = 0 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := DefaultBoard()
			tc.mut(&b)
			if err := b.Validate(); (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}
