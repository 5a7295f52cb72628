package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Runner.MassKG != 65 {
		t.Errorf("Runner.MassKG = %v, want 65", cfg.Runner.MassKG)
	}
	if cfg.Runner.HillPower != 100 {
		t.Errorf("Runner.HillPower = %v, want 100", cfg.Runner.HillPower)
	}
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}
	if cfg.Display.PaceUnit != "min/km" {
		t.Errorf("Display.PaceUnit = %q, want %q", cfg.Display.PaceUnit, "min/km")
	}
	if cfg.Strava.ClientID != "" || cfg.Strava.ClientSecret != "" {
		t.Error("Strava credentials should be empty by default")
	}
}

func TestLoadPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadPath(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if cfg.Runner.MassKG != 65 {
		t.Errorf("MassKG = %v, want default 65", cfg.Runner.MassKG)
	}
}

func TestLoadPathPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"runner": {"vdot": 52.5}, "display": {"distance_unit": "mi"}}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if cfg.Runner.VDOT != 52.5 {
		t.Errorf("VDOT = %v", cfg.Runner.VDOT)
	}
	if cfg.Display.DistanceUnit != "mi" {
		t.Errorf("DistanceUnit = %q", cfg.Display.DistanceUnit)
	}
	// Unset fields fall back to defaults.
	if cfg.Runner.MassKG != 65 {
		t.Errorf("MassKG = %v, want default 65", cfg.Runner.MassKG)
	}
	if cfg.Display.PaceUnit != "min/km" {
		t.Errorf("PaceUnit = %q, want default", cfg.Display.PaceUnit)
	}
}

func TestEnvOverridesCredentials(t *testing.T) {
	t.Setenv("PACER_STRAVA_CLIENT_ID", "env-id")
	t.Setenv("PACER_STRAVA_CLIENT_SECRET", "env-secret")

	cfg, err := LoadPath(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if cfg.Strava.ClientID != "env-id" || cfg.Strava.ClientSecret != "env-secret" {
		t.Errorf("env overrides not applied: %+v", cfg.Strava)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := DefaultConfig()
	in.Runner.VDOT = 48
	in.Runner.MassKG = 58

	if err := SavePath(&in, path); err != nil {
		t.Fatalf("SavePath: %v", err)
	}

	out, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if out.Runner.VDOT != 48 || out.Runner.MassKG != 58 {
		t.Errorf("round trip lost values: %+v", out.Runner)
	}
}

func TestValidateStrava(t *testing.T) {
	tests := []struct {
		name        string
		strava      StravaConfig
		errContains string
	}{
		{"valid", StravaConfig{ClientID: "12345", ClientSecret: "abc"}, ""},
		{"empty client id", StravaConfig{ClientSecret: "abc"}, "client_id"},
		{"placeholder client id", StravaConfig{ClientID: "YOUR_CLIENT_ID", ClientSecret: "abc"}, "client_id"},
		{"empty secret", StravaConfig{ClientID: "12345"}, "client_secret"},
		{"placeholder secret", StravaConfig{ClientID: "12345", ClientSecret: "YOUR_CLIENT_SECRET"}, "client_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Strava: tt.strava}
			err := cfg.ValidateStrava()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err, tt.errContains)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad distance unit", func(c *Config) { c.Display.DistanceUnit = "furlongs" }, true},
		{"bad pace unit", func(c *Config) { c.Display.PaceUnit = "min/furlong" }, true},
		{"negative mass", func(c *Config) { c.Runner.MassKG = -1 }, true},
		{"hill power too low", func(c *Config) { c.Runner.HillPower = 50 }, true},
		{"hill power too high", func(c *Config) { c.Runner.HillPower = 150 }, true},
		{"hill power unset is fine", func(c *Config) { c.Runner.HillPower = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
