package combat

import (
	"reflect"
	"testing"

	"bossai/internal/config"
	"bossai/internal/util"
)

func TestRunSingle_Deterministic(t *testing.T) {
	t.Parallel()

	run := func() SimResult {
		env := &Env{Rng: util.New(12345)}
		return RunSingle(env, config.DefaultBoss(config.VariantIce), SimOptions{Duration: 60, Step: 0.05})
	}
	a, b := run(), run()
	if a.Win != b.Win || a.Duration != b.Duration || a.BossHP != b.BossHP || a.PlayerHP != b.PlayerHP {
		t.Fatalf("runs differ: %+v vs %+v", a, b)
	}
	if !reflect.DeepEqual(a.Attacks, b.Attacks) || a.Teleports != b.Teleports || a.Jumps != b.Jumps {
		t.Fatalf("counters differ: %v/%d/%d vs %v/%d/%d", a.Attacks, a.Teleports, a.Jumps, b.Attacks, b.Teleports, b.Jumps)
	}
	if a.EncounterID == b.EncounterID {
		t.Error("encounter ids repeat across runs")
	}
}

func TestRunSingle_Terminates(t *testing.T) {
	t.Parallel()

	for _, variant := range []string{config.VariantNormal, config.VariantIce} {
		cfg := config.DefaultBoss(variant)
		opts := SimOptions{Duration: 90, Step: 0.05, Record: true}
		res := RunSingle(&Env{Rng: util.New(7)}, cfg, opts)

		if res.Duration > opts.Duration+opts.Step {
			t.Errorf("%s: Duration = %v; want <= %v", variant, res.Duration, opts.Duration)
		}
		if !res.Win && res.PlayerHP > 0 && res.Duration < opts.Duration {
			t.Errorf("%s: stopped at %v with nobody down", variant, res.Duration)
		}
		if res.Win && res.BossHP != 0 {
			t.Errorf("%s: Win with BossHP = %v", variant, res.BossHP)
		}
		total := 0
		for _, n := range res.Attacks {
			total += n
		}
		if total == 0 {
			t.Errorf("%s: boss never attacked", variant)
		}
		if len(res.Events) == 0 || res.Events[0].Type != "Spawn" {
			t.Errorf("%s: recorded log does not start with Spawn", variant)
		}
		if res.BossHP/cfg.MaxHealth <= 0.5 && variant == config.VariantIce && res.Phase != "phase2" {
			t.Errorf("%s: Phase = %q at %.0f hp; want phase2", variant, res.Phase, res.BossHP)
		}
	}
}

func TestRunSingle_NoRecordKeepsLogEmpty(t *testing.T) {
	t.Parallel()

	res := RunSingle(&Env{}, nil, SimOptions{Duration: 5})
	if res.Events != nil {
		t.Errorf("Events = %d entries; want none without Record", len(res.Events))
	}
	if res.Boss != "cave_warden" {
		t.Errorf("Boss = %q; want cave_warden", res.Boss)
	}
}
