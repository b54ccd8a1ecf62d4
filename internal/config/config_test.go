package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "leakrun.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leakrun.toml")
	if err := os.WriteFile(path, []byte("image = \"nodriver-leak:dev\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Image != "nodriver-leak:dev" {
		t.Errorf("image = %q", cfg.Image)
	}
	if cfg.ShmSize != "256m" {
		t.Errorf("shm_size default not applied, got %q", cfg.ShmSize)
	}
	if cfg.Entrypoint != "python3 leak_test.py" {
		t.Errorf("entrypoint default not applied, got %q", cfg.Entrypoint)
	}
}

func TestLoadEnvironmentOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leakrun.toml")
	if err := os.WriteFile(path, []byte("shm_size = \"128m\"\nengine = \"docker\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEAKRUN_SHM_SIZE", "512m")
	t.Setenv("LEAKRUN_ENGINE", "podman")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ShmSize != "512m" {
		t.Errorf("shm_size = %q, want env override 512m", cfg.ShmSize)
	}
	if cfg.Engine != "podman" {
		t.Errorf("engine = %q, want env override podman", cfg.Engine)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults ok", mutate: func(*Config) {}},
		{name: "uppercase image", mutate: func(c *Config) { c.Image = "Leak-Test" }, wantErr: ErrInvalidImage},
		{name: "image with space", mutate: func(c *Config) { c.Image = "leak test" }, wantErr: ErrInvalidImage},
		{name: "bad shm size", mutate: func(c *Config) { c.ShmSize = "lots" }, wantErr: ErrInvalidShmSize},
		{name: "blank entrypoint", mutate: func(c *Config) { c.Entrypoint = "   " }, wantErr: ErrEmptyEntrypoint},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSplitEntrypointPreservesQuotedTokens(t *testing.T) {
	cfg := Default()
	cfg.Entrypoint = `python3 "leak test.py" -v`
	fields, err := cfg.SplitEntrypoint()
	if err != nil {
		t.Fatalf("SplitEntrypoint: %v", err)
	}
	want := []string{"python3", "leak test.py", "-v"}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("SplitEntrypoint = %v, want %v", fields, want)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leakrun.toml")
	cfg := Default()
	cfg.Image = "leak-test:pinned"
	cfg.Hooks.PreRun = "echo hi"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}
