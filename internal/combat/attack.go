package combat

import (
	"bossai/internal/config"
	"bossai/internal/util"
)

type AttackKind int

const (
	NormalBolt AttackKind = iota
	IceBolt
	PoisonBolt
	MultiBolt
)

func (k AttackKind) String() string {
	switch k {
	case NormalBolt:
		return config.AttackNormal
	case IceBolt:
		return config.AttackIce
	case PoisonBolt:
		return config.AttackPoison
	case MultiBolt:
		return config.AttackMulti
	}
	return "unknown"
}

func ParseAttackKind(s string) (AttackKind, bool) {
	switch s {
	case config.AttackNormal:
		return NormalBolt, true
	case config.AttackIce:
		return IceBolt, true
	case config.AttackPoison:
		return PoisonBolt, true
	case config.AttackMulti:
		return MultiBolt, true
	}
	return NormalBolt, false
}

// Projectile describes one attack handed to the Spawner. For MultiBolt the
// selected descriptor carries Count and Spread; fire expands it into Count
// single bolts fanned across Spread degrees.
type Projectile struct {
	ID     string
	Owner  string
	Kind   AttackKind
	Origin Vec2
	Dir    Vec2
	Speed  float64
	Damage float64
	Count  int
	Spread float64
	Status *StatusSpec
}

type attackOption struct {
	tpl    Projectile
	base   float64
	weight float64
}

type attackTable struct {
	options  []attackOption
	fallback Projectile
}

func templateFrom(a config.AttackDef) Projectile {
	kind, _ := ParseAttackKind(a.Kind)
	p := Projectile{Kind: kind, Speed: a.Speed, Damage: a.Damage, Count: 1}
	if kind == MultiBolt {
		p.Count = a.Count
		p.Spread = a.Spread
	}
	if a.Status != nil {
		p.Status = &StatusSpec{
			ID:       a.Status.ID,
			Duration: a.Status.Duration,
			Tick:     a.Status.Tick,
			Damage:   a.Status.Damage,
			ICD:      a.Status.ICD,
		}
	}
	return p
}

func newAttackTable(cfg *config.BossConfig) *attackTable {
	t := &attackTable{}
	for _, a := range cfg.Attacks {
		w := a.Weight
		if w < 0 {
			w = 0
		}
		t.options = append(t.options, attackOption{tpl: templateFrom(a), base: w, weight: w})
	}
	if def, ok := cfg.Attack(cfg.DefaultAttack); ok {
		t.fallback = templateFrom(def)
	} else {
		t.fallback = Projectile{Kind: NormalBolt, Speed: 10, Damage: 10, Count: 1}
	}
	return t
}

// reweight restores the base weights and then applies the overrides.
func (t *attackTable) reweight(overrides map[string]float64) {
	for i := range t.options {
		o := &t.options[i]
		o.weight = o.base
		if w, ok := overrides[o.tpl.Kind.String()]; ok {
			if w < 0 {
				w = 0
			}
			o.weight = w
		}
	}
}

func (t *attackTable) total() float64 {
	total := 0.0
	for _, o := range t.options {
		total += o.weight
	}
	return total
}

// pick walks the cumulative weights; the first interval containing the draw wins.
func (t *attackTable) pick(rng util.Source) Projectile {
	total := t.total()
	if total <= 0 {
		return t.fallback
	}
	draw := rng.Float64() * total
	acc := 0.0
	last := -1
	for i, o := range t.options {
		if o.weight <= 0 {
			continue
		}
		acc += o.weight
		last = i
		if draw < acc {
			return o.tpl
		}
	}
	return t.options[last].tpl
}

// attackSequence is one volley: shots fired interval apart, then a recovery
// wait before the boss decides again.
type attackSequence struct {
	shot      Projectile
	remaining int
	nextAt    float64
	interval  float64
	endAt     float64
}

func newAttackSequence(shot Projectile, now float64, shots int, interval, recovery float64) *attackSequence {
	if shots < 1 {
		shots = 1
	}
	return &attackSequence{
		shot:      shot,
		remaining: shots,
		nextAt:    now,
		interval:  interval,
		endAt:     now + float64(shots-1)*interval + recovery,
	}
}

// step fires every shot that is due and reports whether the volley is over.
func (s *attackSequence) step(bc *BossController) bool {
	for s.remaining > 0 && bc.now >= s.nextAt {
		bc.fire(s.shot)
		s.remaining--
		s.nextAt += s.interval
	}
	return s.remaining == 0 && bc.now >= s.endAt
}

// expand turns a selected descriptor into the bolts actually spawned.
func expand(p Projectile) []Projectile {
	if p.Kind != MultiBolt || p.Count <= 1 {
		p.Count = 1
		return []Projectile{p}
	}
	out := make([]Projectile, 0, p.Count)
	step := p.Spread / float64(p.Count-1)
	start := -p.Spread / 2
	for i := 0; i < p.Count; i++ {
		b := p
		b.Count = 1
		b.Dir = p.Dir.Rotate(start + step*float64(i))
		out = append(out, b)
	}
	return out
}
