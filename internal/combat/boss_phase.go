package combat

import "bossai/internal/config"

// BossPhaser advances through the configured phases as health drops. Phases
// only ever move forward.
type BossPhaser struct {
	Cfg   *config.BossConfig
	Emit  func(Event)
	phase int
}

func NewBossPhaser(cfg *config.BossConfig, emit func(Event)) *BossPhaser {
	if emit == nil {
		emit = func(Event) {}
	}
	return &BossPhaser{Cfg: cfg, Emit: emit}
}

func (bp *BossPhaser) CurrentPhase() int { return bp.phase }

func (bp *BossPhaser) PhaseSpec() *config.Phase {
	if bp.Cfg == nil || bp.phase < 0 || bp.phase >= len(bp.Cfg.Phases) {
		return nil
	}
	return &bp.Cfg.Phases[bp.phase]
}

func (bp *BossPhaser) PhaseName() string {
	if spec := bp.PhaseSpec(); spec != nil {
		return spec.Name
	}
	return "phase1"
}

// Tick enters every phase whose threshold the health fraction has reached and
// reports whether the phase changed.
func (bp *BossPhaser) Tick(hpFrac, now float64) bool {
	if bp.Cfg == nil {
		return false
	}
	changed := false
	for next := bp.phase + 1; next < len(bp.Cfg.Phases); next++ {
		if hpFrac > bp.Cfg.Phases[next].Threshold {
			break
		}
		bp.applyPhase(next, now)
		changed = true
	}
	return changed
}

func (bp *BossPhaser) applyPhase(to int, now float64) {
	bp.phase = to
	spec := bp.Cfg.Phases[to]
	if spec.Announce != "" {
		bp.Emit(Event{T: now, Type: "Announce", Payload: map[string]any{
			"text":  spec.Announce,
			"phase": to,
		}})
	}
	bp.Emit(Event{T: now, Type: "PhaseEnter", Payload: map[string]any{
		"phase": to,
		"name":  spec.Name,
		"note":  spec.Note,
	}})
}
