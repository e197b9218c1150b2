package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings drives the simulator. Precedence: flag, BOSSAI_* environment
// variable, settings file, built-in default.
type Settings struct {
	ConfigDir string
	Boss      string
	Out       string
	Seed      int64
	Runs      int
	Workers   int
	Duration  float64
	Step      float64
	Record    bool
	Watch     bool
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("simsvc", pflag.ContinueOnError)
	fs.String("config", "assets/bosses", "boss definition dir")
	fs.String("boss", "frost_warden", "boss id")
	fs.String("out", "out.json", "output file (single) or summary file (batch)")
	fs.Int64("seed", 12345, "seed")
	fs.Int("runs", 1, "number of simulations")
	fs.Int("workers", 8, "parallel simulations in batch mode")
	fs.Float64("duration", 180, "encounter time limit in seconds")
	fs.Float64("step", 0.05, "simulation step in seconds")
	fs.Bool("log", true, "save full event log when runs==1")
	fs.Bool("watch", false, "rerun the single simulation whenever a boss file changes")
	fs.String("settings", "", "optional settings file (yaml, toml or json)")
	return fs
}

func LoadSettings(args []string) (*Settings, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("BOSSAI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	if file := v.GetString("settings"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", file, err)
		}
	}

	s := &Settings{
		ConfigDir: v.GetString("config"),
		Boss:      v.GetString("boss"),
		Out:       v.GetString("out"),
		Seed:      v.GetInt64("seed"),
		Runs:      v.GetInt("runs"),
		Workers:   v.GetInt("workers"),
		Duration:  v.GetFloat64("duration"),
		Step:      v.GetFloat64("step"),
		Record:    v.GetBool("log"),
		Watch:     v.GetBool("watch"),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	var errs []error
	if s.Boss == "" {
		errs = append(errs, errors.New("boss must be set"))
	}
	if s.Runs < 1 {
		errs = append(errs, fmt.Errorf("runs must be at least 1, got %d", s.Runs))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", s.Workers))
	}
	if s.Step <= 0 || s.Duration <= 0 {
		errs = append(errs, fmt.Errorf("step and duration must be positive, got %v and %v", s.Step, s.Duration))
	}
	return errors.Join(errs...)
}
