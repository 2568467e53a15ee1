package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// useTempConfig points the config paths at a scratch directory.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, ConfigDirName, ConfigFileName)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := NewConfig()
	if *cfg != *def {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadSparseFileFillsDefaults(t *testing.T) {
	path := useTempConfig(t)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	sparse := "launcher: \"fuzzel --dmenu\"\npoll_interval_seconds: 0\n"
	if err := os.WriteFile(path, []byte(sparse), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Launcher != "fuzzel --dmenu" {
		t.Errorf("Launcher = %q, want the configured value", cfg.Launcher)
	}
	if cfg.PollIntervalSeconds != 2 {
		t.Errorf("PollIntervalSeconds = %d, want clamped default 2", cfg.PollIntervalSeconds)
	}
	if cfg.Workspace != "minimized" || cfg.RestoreTo != RestoreToActive {
		t.Errorf("unset keys not defaulted: %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	useTempConfig(t)

	want := NewConfig()
	want.RestoreTo = RestoreToOriginal
	want.AutoUnminimizeOnFocus = true
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "restore to original", mutate: func(c *Config) { c.RestoreTo = RestoreToOriginal }},
		{name: "bad restore_to", mutate: func(c *Config) { c.RestoreTo = "nearest" }, wantErr: true},
		{name: "empty workspace", mutate: func(c *Config) { c.Workspace = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStackFile(t *testing.T) {
	t.Setenv("USER", "alice")

	path, err := StackFile("/tmp")
	if err != nil {
		t.Fatalf("StackFile: %v", err)
	}
	if path != "/tmp/"+StackFilePrefix+"alice" {
		t.Errorf("path = %q", path)
	}
}

func TestStackFileRequiresUser(t *testing.T) {
	t.Setenv("USER", "")

	_, err := StackFile("/tmp")
	if err == nil || !strings.Contains(err.Error(), "USER") {
		t.Errorf("err = %v, want a USER env error", err)
	}
}
