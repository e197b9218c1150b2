package combat

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"bossai/internal/config"
	"bossai/internal/util"
)

type Env struct {
	Time  float64
	Delta float64
	Rng   util.Source
}

type SimOptions struct {
	Duration float64
	Step     float64
	Record   bool
	Arena    *Arena
}

type SimResult struct {
	EncounterID string             `json:"encounter_id"`
	Boss        string             `json:"boss"`
	Win         bool               `json:"win"`
	Duration    float64            `json:"duration"`
	BossHP      float64            `json:"boss_hp"`
	PlayerHP    float64            `json:"player_hp"`
	Phase       string             `json:"phase"`
	Attacks     map[string]int     `json:"attacks"`
	Teleports   int                `json:"teleports"`
	Jumps       int                `json:"jumps"`
	Hazards     int                `json:"hazards"`
	Flashes     int                `json:"flashes"`
	StateTime   map[string]float64 `json:"state_time"`
	Events      []Event            `json:"events,omitempty"`
}

const (
	hitRadius      = 0.6
	threatRadius   = 2.0
	flightLifetime = 6.0
	geyserDelay    = 0.6
	geyserRadius   = 1.5
	geyserDamage   = 15.0
)

type geyser struct {
	x   float64
	due float64
}

// simWorld stands in for the engine: it spawns projectiles, tracks the health
// bar, schedules lava geysers and records the win.
type simWorld struct {
	env     *Env
	emit    func(Event)
	flights []*Flight
	geysers []geyser
	hazards int
	flashes int
	won     int
	hp      float64
	maxHP   float64
}

func (w *simWorld) Spawn(p Projectile)              { w.flights = append(w.flights, Launch(p)) }
func (w *simWorld) SetHealth(current, limit float64) { w.hp, w.maxHP = current, limit }
func (w *simWorld) BattleWon(string)                 { w.won++ }
func (w *simWorld) Flash()                           { w.flashes++ }

func (w *simWorld) TriggerNear(pos Vec2) {
	w.hazards++
	w.geysers = append(w.geysers, geyser{x: pos.X, due: w.env.Time + geyserDelay})
}

// threatens reports whether a projectile is closing in on pos.
func (w *simWorld) threatens(pos Vec2) bool {
	for _, f := range w.flights {
		if f.Done {
			continue
		}
		to := pos.Sub(f.Pos)
		if to.Len() <= threatRadius && to.X*f.Shot.Dir.X+to.Y*f.Shot.Dir.Y > 0 {
			return true
		}
	}
	return false
}

func (w *simWorld) advance(dt float64, arena *Arena, player *Duelist, statuses *StatusBook) {
	center := player.Position().Add(Vec2{Y: 0.5})
	live := w.flights[:0]
	for _, f := range w.flights {
		f.Advance(dt)
		switch {
		case !arena.Contains(f.Pos) || f.Age > flightLifetime:
			f.Done = true
		case player.Alive() && f.Pos.Dist(center) <= hitRadius:
			if ResolveHit(f.Shot, player, statuses) {
				f.Done = true
				w.emit(Event{T: w.env.Time, Type: "ProjectileHit", Payload: map[string]any{
					"shot": f.Shot.ID, "kind": f.Shot.Kind.String(), "target": player.ID(), "hp": player.HP(),
				}})
			}
		}
		if !f.Done {
			live = append(live, f)
		}
	}
	w.flights = live

	pending := w.geysers[:0]
	for _, g := range w.geysers {
		if w.env.Time < g.due {
			pending = append(pending, g)
			continue
		}
		if player.Alive() && math.Abs(player.Position().X-g.x) <= geyserRadius && !player.Invulnerable() {
			player.ApplyDamage(geyserDamage, "geyser")
			w.emit(Event{T: w.env.Time, Type: "HazardHit", Payload: map[string]any{
				"target": player.ID(), "dmg": geyserDamage, "hp": player.HP(),
			}})
		}
	}
	w.geysers = pending
}

// RunSingle plays one encounter between the boss in cfg and a scripted
// duelist with a fixed step until someone falls, the boss is removed after
// its death grace, or the time limit runs out.
func RunSingle(env *Env, cfg *config.BossConfig, opts SimOptions) SimResult {
	if cfg == nil {
		cfg = config.DefaultBoss(config.VariantNormal)
	}
	if opts.Step <= 0 {
		opts.Step = 0.05
	}
	if opts.Duration <= 0 {
		opts.Duration = 180
	}
	if env.Rng == nil {
		env.Rng = util.New(1)
	}

	res := SimResult{
		EncounterID: uuid.NewString(),
		Boss:        cfg.ID,
		Attacks:     map[string]int{},
		StateTime:   map[string]float64{},
	}
	var events []Event
	emit := func(ev Event) {
		switch ev.Type {
		case "BossAttack":
			if kind, ok := ev.Payload["kind"].(string); ok {
				res.Attacks[kind]++
			}
		case "BossTeleport":
			res.Teleports++
		case "BossJump":
			res.Jumps++
		}
		if opts.Record {
			events = append(events, ev)
		}
	}

	arena := opts.Arena
	if arena == nil {
		arena = NewArena(cfg)
	}
	env.Delta = opts.Step
	world := &simWorld{env: env, emit: emit}
	col := Collaborators{
		Body:    arena,
		Spawner: world,
		Health:  world,
		Hazards: world,
		Owner:   world,
		Flash:   world,
	}
	boss := NewBossController(cfg, Vec2{X: arena.MaxX - 2, Y: arena.Floor}, col, emit, env.Rng)
	player := NewDuelist("player", Vec2{X: arena.MinX + 1, Y: arena.Floor})
	statuses := NewStatusBook(func() float64 { return env.Time }, emit)

	emit(Event{T: env.Time, Type: "Spawn", Payload: map[string]any{
		"id": boss.ID(), "x": boss.Position().X, "y": boss.Position().Y, "boss": true,
		"hp": boss.Health(), "max_hp": boss.MaxHealth(), "encounter": res.EncounterID,
	}})
	emit(Event{T: env.Time, Type: "Spawn", Payload: map[string]any{
		"id": player.ID(), "x": player.Position().X, "y": player.Position().Y,
		"hp": player.HP(), "max_hp": player.MaxHP(),
	}})
	boss.SetEnabled(true)

	for env.Time < opts.Duration {
		env.Time += env.Delta
		player.Update(env.Time, env.Delta, boss, world.threatens(player.Position()))
		boss.Tick(env.Delta, player.Snapshot())
		boss.PhysicsStep(env.Delta)
		world.advance(env.Delta, arena, player, statuses)
		statuses.Update()
		res.StateTime[string(boss.State())] += env.Delta

		if boss.ReadyForRemoval() {
			emit(Event{T: env.Time, Type: "Despawn", Payload: map[string]any{"id": boss.ID()}})
			break
		}
		if !player.Alive() {
			break
		}
	}

	res.Win = world.won > 0
	res.Hazards = world.hazards
	res.Flashes = world.flashes
	res.Duration = env.Time
	res.BossHP = boss.Health()
	res.PlayerHP = player.HP()
	res.Phase = boss.PhaseName()
	if opts.Record {
		res.Events = events
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
