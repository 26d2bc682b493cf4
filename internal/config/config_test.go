package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_WritesDefaultFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(viper.New(), "", dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
	if cfg.Defaults.Currency != "USD" || cfg.Export.OFXFormat != "sgml" || cfg.Log.Level != "warn" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Database.Path != filepath.Join(dir, "keabook.db") {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.ConfigPath != filepath.Join(dir, "config.yaml") {
		t.Errorf("config path = %q", cfg.ConfigPath)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "defaults:\n  currency: eur\nexport:\n  dir: /tmp/out\n  gzip: true\ndatabase:\n  path: /tmp/ledger.db\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KEABOOK_EXPORT_OFX_FORMAT", "xml")
	t.Setenv("KEABOOK_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path, dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	testCases := []struct {
		name string
		got  any
		want any
	}{
		{"currency upper-cased", cfg.Defaults.Currency, "EUR"},
		{"export dir", cfg.Export.Dir, "/tmp/out"},
		{"gzip", cfg.Export.Gzip, true},
		{"database path", cfg.Database.Path, "/tmp/ledger.db"},
		{"ofx format from env", cfg.Export.OFXFormat, "xml"},
		{"log level from env", cfg.Log.Level, "debug"},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir()); err == nil {
		t.Error("Load() accepted a missing config file")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	testCases := []struct {
		in, want string
	}{
		{"~", home},
		{"~/books/ledger.db", filepath.Join(home, "books/ledger.db")},
		{"/var/ledger.db", "/var/ledger.db"},
		{"~other", "~other"},
	}
	for _, tc := range testCases {
		got, err := ExpandPath(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ExpandPath(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
}
