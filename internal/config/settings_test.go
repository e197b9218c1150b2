package config

import (
	"path/filepath"
	"testing"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(nil)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Boss != "frost_warden" || s.Runs != 1 || s.Workers != 8 || s.Seed != 12345 {
		t.Errorf("defaults = %+v", s)
	}
	if !s.Record || s.Watch {
		t.Errorf("Record/Watch = %v/%v; want true/false", s.Record, s.Watch)
	}
}

func TestLoadSettings_Precedence(t *testing.T) {
	t.Setenv("BOSSAI_BOSS", "cave_warden")
	t.Setenv("BOSSAI_RUNS", "40")

	s, err := LoadSettings([]string{"--runs", "3"})
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Boss != "cave_warden" {
		t.Errorf("Boss = %q; want cave_warden from the environment", s.Boss)
	}
	if s.Runs != 3 {
		t.Errorf("Runs = %d; want 3 from the flag", s.Runs)
	}
}

func TestLoadSettings_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sim.yaml", "workers: 2\nduration: 30\nseed: 9\n")

	s, err := LoadSettings([]string{"--settings", path, "--seed", "4"})
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Workers != 2 || s.Duration != 30 {
		t.Errorf("Workers/Duration = %d/%v; want 2/30 from the file", s.Workers, s.Duration)
	}
	if s.Seed != 4 {
		t.Errorf("Seed = %d; want 4 from the flag", s.Seed)
	}

	if _, err := LoadSettings([]string{"--settings", filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("missing settings file accepted")
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	cases := [][]string{
		{"--runs", "0"},
		{"--workers", "0"},
		{"--step", "0"},
		{"--boss", ""},
		{"--no-such-flag"},
	}
	for _, args := range cases {
		if _, err := LoadSettings(args); err == nil {
			t.Errorf("LoadSettings(%v) error = nil", args)
		}
	}
}
