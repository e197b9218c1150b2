package config

import (
	"errors"
	"fmt"
)

const (
	VariantNormal = "normal"
	VariantIce    = "ice"
)

// Attack kinds accepted in boss definitions.
const (
	AttackNormal = "normal"
	AttackIce    = "ice"
	AttackPoison = "poison"
	AttackMulti  = "multi"
)

type BossConfig struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Note          string         `yaml:"note"`
	Variant       string         `yaml:"variant"`
	MaxHealth     float64        `yaml:"max_health"`
	Movement      MovementConfig `yaml:"movement"`
	Combat        CombatConfig   `yaml:"combat"`
	Teleport      TeleportConfig `yaml:"teleport"`
	Attacks       []AttackDef    `yaml:"attacks"`
	DefaultAttack string         `yaml:"default_attack"`
	Phases        []Phase        `yaml:"phases"`
}

type MovementConfig struct {
	DetectionRange    float64 `yaml:"detection_range"`
	ChaseSpeed        float64 `yaml:"chase_speed"`
	JumpVelocity      float64 `yaml:"jump_velocity"`
	JumpCooldown      float64 `yaml:"jump_cooldown"`
	JumpHeightTrigger float64 `yaml:"jump_height_trigger"`
	Gravity           float64 `yaml:"gravity"`
}

type CombatConfig struct {
	AttackCooldown float64 `yaml:"attack_cooldown"`
	ShotsPerAttack int     `yaml:"shots_per_attack"`
	ShotInterval   float64 `yaml:"shot_interval"`
	AttackRecovery float64 `yaml:"attack_recovery"`
	DamageDebounce float64 `yaml:"damage_debounce"`
	DeathGrace     float64 `yaml:"death_grace"`
	MuzzleOffset   Vec2Def `yaml:"muzzle_offset"`
}

// TeleportConfig carries the three cooldown fractions separately: the
// too-close escape, the random escape and the on-hit response each gate on
// Cooldown scaled by their own factor.
type TeleportConfig struct {
	Points                 []Vec2Def `yaml:"points"`
	Cooldown               float64   `yaml:"cooldown"`
	TooCloseDistance       float64   `yaml:"too_close_distance"`
	TooCloseCooldownScale  float64   `yaml:"too_close_cooldown_scale"`
	EscapeCooldownScale    float64   `yaml:"escape_cooldown_scale"`
	OnHitCooldownScale     float64   `yaml:"on_hit_cooldown_scale"`
	EscapeProbability      float64   `yaml:"escape_probability"`
	ChanceOnHit            float64   `yaml:"chance_on_hit"`
	MinSafeDistance        float64   `yaml:"min_safe_distance"`
	Settle                 float64   `yaml:"settle"`
	TriggerHazardsOnEscape bool      `yaml:"trigger_hazards_on_escape"`
}

type AttackDef struct {
	Kind   string     `yaml:"kind"`
	Weight float64    `yaml:"weight"`
	Speed  float64    `yaml:"speed"`
	Damage float64    `yaml:"damage"`
	Count  int        `yaml:"count"`
	Spread float64    `yaml:"spread"`
	Status *StatusDef `yaml:"status"`
	Note   string     `yaml:"note"`
}

// StatusDef is an on-hit effect. Tick > 0 makes it deal Damage every Tick
// seconds; the id "freeze" roots the target for Duration.
type StatusDef struct {
	ID       string  `yaml:"id"`
	Duration float64 `yaml:"duration"`
	Tick     float64 `yaml:"tick"`
	Damage   float64 `yaml:"damage"`
	ICD      float64 `yaml:"icd"`
}

type Phase struct {
	Name                string             `yaml:"name"`
	Threshold           float64            `yaml:"threshold"`
	Announce            string             `yaml:"announce"`
	AttackCooldownScale float64            `yaml:"attack_cooldown_scale"`
	ChaseSpeedScale     float64            `yaml:"chase_speed_scale"`
	Weights             map[string]float64 `yaml:"weights"`
	Note                string             `yaml:"note"`
}

type Vec2Def struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func defaultAttacks() []AttackDef {
	return []AttackDef{
		{Kind: AttackNormal, Weight: 50, Speed: 10, Damage: 10},
		{Kind: AttackIce, Weight: 30, Speed: 8, Damage: 8,
			Status: &StatusDef{ID: "freeze", Duration: 1.5, ICD: 3}},
		{Kind: AttackPoison, Weight: 20, Speed: 9, Damage: 6,
			Status: &StatusDef{ID: "poison", Duration: 3, Tick: 1, Damage: 2, ICD: 0.5}},
	}
}

// seeded returns a config whose tunable sections carry their stock values.
// Definitions are decoded on top of it, so a key written as 0 stays 0 while
// an absent key keeps the stock value.
func seeded() BossConfig {
	return BossConfig{
		Movement: MovementConfig{
			DetectionRange:    15,
			ChaseSpeed:        3,
			JumpVelocity:      9,
			JumpCooldown:      1.5,
			JumpHeightTrigger: 1.5,
			Gravity:           20,
		},
		Combat: CombatConfig{
			AttackCooldown: 2,
			ShotsPerAttack: 3,
			ShotInterval:   0.25,
			AttackRecovery: 0.4,
			DamageDebounce: 0.1,
			DeathGrace:     2,
			MuzzleOffset:   Vec2Def{Y: 1},
		},
		Teleport: TeleportConfig{
			Cooldown:              6,
			TooCloseDistance:      5,
			TooCloseCooldownScale: 0.3,
			EscapeCooldownScale:   1,
			OnHitCooldownScale:    0.5,
			EscapeProbability:     0.3,
			ChanceOnHit:           0.2,
			MinSafeDistance:       8,
			Settle:                0.5,
		},
	}
}

// DefaultBoss returns a complete definition for the given variant. The ice
// variant has a second phase below half health that unlocks the multi bolt.
func DefaultBoss(variant string) *BossConfig {
	cfg := seeded()
	cfg.ID = "cave_warden"
	cfg.Name = "Cave Warden"
	cfg.Variant = VariantNormal
	cfg.Teleport.Points = []Vec2Def{{X: 2}, {X: 12}, {X: 22}, {X: 32}}
	cfg.Teleport.TriggerHazardsOnEscape = true
	if variant == VariantIce {
		cfg.ID = "frost_warden"
		cfg.Name = "Frost Warden"
		cfg.Variant = VariantIce
		cfg.Attacks = append(defaultAttacks(), AttackDef{
			Kind: AttackMulti, Weight: 0, Speed: 9, Damage: 7, Count: 5, Spread: 60,
			Status: &StatusDef{ID: "freeze", Duration: 0.75, ICD: 3},
		})
		cfg.Phases = []Phase{
			{Name: "phase1", Threshold: 1},
			{Name: "phase2", Threshold: 0.5, Announce: "The air freezes solid.",
				AttackCooldownScale: 0.7, ChaseSpeedScale: 1.25,
				Weights: map[string]float64{AttackMulti: 25}},
		}
	}
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills the fields for which zero makes no sense, such as
// health or the attack cooldown. Gates where zero is a legal setting are left
// alone; their stock values come from decoding over seeded().
func (c *BossConfig) ApplyDefaults() {
	if c.Variant == "" {
		c.Variant = VariantNormal
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.MaxHealth <= 0 {
		c.MaxHealth = 1000
	}

	m := &c.Movement
	setDefault(&m.DetectionRange, 15)
	setDefault(&m.ChaseSpeed, 3)
	setDefault(&m.JumpVelocity, 9)
	setDefault(&m.Gravity, 20)

	cb := &c.Combat
	setDefault(&cb.AttackCooldown, 2)
	if cb.ShotsPerAttack <= 0 {
		cb.ShotsPerAttack = 3
	}
	setDefault(&cb.ShotInterval, 0.25)

	setDefault(&c.Teleport.Cooldown, 6)

	if len(c.Attacks) == 0 {
		c.Attacks = defaultAttacks()
	}
	for i := range c.Attacks {
		a := &c.Attacks[i]
		setDefault(&a.Speed, 10)
		setDefault(&a.Damage, 10)
		if a.Kind == AttackMulti {
			if a.Count <= 0 {
				a.Count = 5
			}
			setDefault(&a.Spread, 45)
		}
	}
	if c.DefaultAttack == "" {
		c.DefaultAttack = AttackNormal
	}
	for i := range c.Phases {
		p := &c.Phases[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("phase%d", i+1)
		}
		setDefault(&p.AttackCooldownScale, 1)
		setDefault(&p.ChaseSpeedScale, 1)
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func knownAttack(kind string) bool {
	switch kind {
	case AttackNormal, AttackIce, AttackPoison, AttackMulti:
		return true
	}
	return false
}

func (c *BossConfig) Attack(kind string) (AttackDef, bool) {
	for _, a := range c.Attacks {
		if a.Kind == kind {
			return a, true
		}
	}
	return AttackDef{}, false
}

// Validate reports every problem found, joined into one error.
func (c *BossConfig) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if c.Variant != VariantNormal && c.Variant != VariantIce {
		errs = append(errs, fmt.Errorf("unknown variant %q", c.Variant))
	}
	if c.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("max_health must be positive, got %v", c.MaxHealth))
	}
	t := c.Teleport
	for name, p := range map[string]float64{
		"teleport.escape_probability": t.EscapeProbability,
		"teleport.chance_on_hit":      t.ChanceOnHit,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", name, p))
		}
	}
	for name, v := range map[string]float64{
		"teleport.cooldown":                 t.Cooldown,
		"teleport.too_close_distance":       t.TooCloseDistance,
		"teleport.too_close_cooldown_scale": t.TooCloseCooldownScale,
		"teleport.escape_cooldown_scale":    t.EscapeCooldownScale,
		"teleport.on_hit_cooldown_scale":    t.OnHitCooldownScale,
		"teleport.min_safe_distance":        t.MinSafeDistance,
		"teleport.settle":                   t.Settle,
		"combat.attack_cooldown":            c.Combat.AttackCooldown,
		"combat.attack_recovery":            c.Combat.AttackRecovery,
		"combat.damage_debounce":            c.Combat.DamageDebounce,
		"combat.death_grace":                c.Combat.DeathGrace,
		"movement.jump_cooldown":            c.Movement.JumpCooldown,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	seen := map[string]bool{}
	for i, a := range c.Attacks {
		if !knownAttack(a.Kind) {
			errs = append(errs, fmt.Errorf("attacks[%d]: unknown kind %q", i, a.Kind))
			continue
		}
		if seen[a.Kind] {
			errs = append(errs, fmt.Errorf("attacks[%d]: duplicate kind %q", i, a.Kind))
		}
		seen[a.Kind] = true
		if a.Weight < 0 {
			errs = append(errs, fmt.Errorf("attacks[%d]: weight must not be negative", i))
		}
	}
	if !seen[c.DefaultAttack] {
		errs = append(errs, fmt.Errorf("default_attack %q is not among attacks", c.DefaultAttack))
	}
	prev := 1.0
	for i, p := range c.Phases {
		if p.Threshold <= 0 || p.Threshold > 1 {
			errs = append(errs, fmt.Errorf("phases[%d]: threshold must be within (0,1], got %v", i, p.Threshold))
		}
		if i > 0 && p.Threshold >= prev {
			errs = append(errs, fmt.Errorf("phases[%d]: threshold %v must be below the previous phase's %v", i, p.Threshold, prev))
		}
		prev = p.Threshold
		for kind, w := range p.Weights {
			if !seen[kind] {
				errs = append(errs, fmt.Errorf("phases[%d]: weight for unknown attack %q", i, kind))
			}
			if w < 0 {
				errs = append(errs, fmt.Errorf("phases[%d]: weight for %q must not be negative", i, kind))
			}
		}
	}
	return errors.Join(errs...)
}
