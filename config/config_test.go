package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "sysfs_root: " + dir + "\ncaps: 2\nlong: 1\njson: true\ncolor: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SysfsRoot != dir || cfg.Caps != 2 || cfg.Long != 1 || !cfg.JSON || !cfg.Color {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := Load(path, false); err != nil {
		t.Errorf("missing default file must not fail, got: %v", err)
	}
	if _, err := Load(path, true); err == nil {
		t.Error("missing explicit file must fail")
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "caps: [unclosed"},
		{"negative caps", "caps: -1"},
		{"bad sysfs root", "sysfs_root: " + filepath.Join(dir, "missing")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "c.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path, true); err == nil {
				t.Error("Load() succeeded on invalid configuration")
			}
		})
	}
}
