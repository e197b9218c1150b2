package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"bossai/internal/combat"
	"bossai/internal/config"
	"bossai/internal/util"
)

func main() {
	st, err := config.LoadSettings(os.Args[1:])
	if err != nil {
		log.Fatalf("[simsvc] settings: %v", err)
	}
	bossCfg, err := config.ResolveBoss(st.ConfigDir, st.Boss)
	if err != nil {
		log.Fatalf("[simsvc] %v", err)
	}

	if st.Runs > 1 {
		if err := runBatch(context.Background(), st, bossCfg); err != nil {
			log.Fatalf("[simsvc] batch: %v", err)
		}
		return
	}
	if err := runOnce(st, bossCfg); err != nil {
		log.Fatalf("[simsvc] %v", err)
	}
	if st.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch(ctx, st); err != nil {
			log.Fatalf("[simsvc] watch: %v", err)
		}
	}
}

func options(st *config.Settings, record bool) combat.SimOptions {
	return combat.SimOptions{Duration: st.Duration, Step: st.Step, Record: record}
}

func runOnce(st *config.Settings, bossCfg *config.BossConfig) error {
	env := &combat.Env{Rng: util.New(st.Seed)}
	res := combat.RunSingle(env, bossCfg, options(st, st.Record))
	if err := os.WriteFile(st.Out, combat.MarshalPretty(res), 0644); err != nil {
		return fmt.Errorf("write %s: %w", st.Out, err)
	}
	log.Printf("[simsvc] single run finished. Win=%v, T=%.2fs, boss HP %.0f, player HP %.0f -> %s",
		res.Win, res.Duration, res.BossHP, res.PlayerHP, st.Out)
	return nil
}

func runBatch(ctx context.Context, st *config.Settings, bossCfg *config.BossConfig) error {
	type stat struct {
		Win       int
		SumT      float64
		Teleports int
		Jumps     int
		Attacks   map[string]int
		StateTime map[string]float64
	}
	agg := stat{Attacks: map[string]int{}, StateTime: map[string]float64{}}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(st.Workers)
	for i := 0; i < st.Runs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			env := &combat.Env{Rng: util.New(st.Seed + int64(i)*7919)}
			res := combat.RunSingle(env, bossCfg, options(st, false))

			mu.Lock()
			defer mu.Unlock()
			if res.Win {
				agg.Win++
			}
			agg.SumT += res.Duration
			agg.Teleports += res.Teleports
			agg.Jumps += res.Jumps
			for k, v := range res.Attacks {
				agg.Attacks[k] += v
			}
			for k, v := range res.StateTime {
				agg.StateTime[k] += v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	n := float64(st.Runs)
	totalAttacks := 0
	for _, v := range agg.Attacks {
		totalAttacks += v
	}
	mix := map[string]any{}
	for k, v := range agg.Attacks {
		share := 0.0
		if totalAttacks > 0 {
			share = float64(v) / float64(totalAttacks)
		}
		mix[k] = map[string]any{"total": v, "ratio": share}
	}
	avgState := map[string]float64{}
	for k, v := range agg.StateTime {
		avgState[k] = v / n
	}

	summary := map[string]any{
		"boss":          bossCfg.ID,
		"runs":          st.Runs,
		"win_rate":      float64(agg.Win) / n,
		"avg_time":      agg.SumT / n,
		"avg_teleports": float64(agg.Teleports) / n,
		"avg_jumps":     float64(agg.Jumps) / n,
		"attack_mix":    mix,
		"state_time":    avgState,
	}
	if err := os.WriteFile(st.Out, combat.MarshalPretty(summary), 0644); err != nil {
		return fmt.Errorf("write %s: %w", st.Out, err)
	}
	log.Printf("[simsvc] batch %d done -> %s", st.Runs, filepath.Base(st.Out))
	return nil
}

// watch reruns the single simulation whenever a boss definition changes.
func watch(ctx context.Context, st *config.Settings) error {
	w, err := config.NewWatcher(st.ConfigDir)
	if err != nil {
		return err
	}
	defer w.Close()
	log.Printf("[simsvc] watching %s", st.ConfigDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[simsvc] watcher error: %v", err)
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Printf("[simsvc] %s changed, rerunning", filepath.Base(name))
			bossCfg, err := config.ResolveBoss(st.ConfigDir, st.Boss)
			if err != nil {
				log.Printf("[simsvc] reload: %v", err)
				continue
			}
			if err := runOnce(st, bossCfg); err != nil {
				log.Printf("[simsvc] %v", err)
			}
		}
	}
}
