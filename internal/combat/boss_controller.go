package combat

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"bossai/internal/config"
	"bossai/internal/util"
)

type BossState string

const (
	StateIdle        BossState = "idle"
	StateChasing     BossState = "chasing"
	StateAttacking   BossState = "attacking"
	StateTeleporting BossState = "teleporting"
	StateDead        BossState = "dead"
)

const (
	evHalt     = "halt"
	evChase    = "chase"
	evAttack   = "attack"
	evTeleport = "teleport"
	evDie      = "die"
)

var transitionEvent = map[BossState]string{
	StateIdle:        evHalt,
	StateChasing:     evChase,
	StateAttacking:   evAttack,
	StateTeleporting: evTeleport,
	StateDead:        evDie,
}

type TeleportMode int

const (
	TeleportFarthest TeleportMode = iota
	TeleportRandom
)

func (m TeleportMode) String() string {
	if m == TeleportFarthest {
		return "farthest"
	}
	return "random"
}

// newBossFSM builds the state machine. Every live state can reach every
// other; nothing leaves dead.
func newBossFSM(onEnter fsm.Callback) *fsm.FSM {
	live := []string{
		string(StateIdle),
		string(StateChasing),
		string(StateAttacking),
		string(StateTeleporting),
	}
	return fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: evHalt, Src: live, Dst: string(StateIdle)},
			{Name: evChase, Src: live, Dst: string(StateChasing)},
			{Name: evAttack, Src: live, Dst: string(StateAttacking)},
			{Name: evTeleport, Src: live, Dst: string(StateTeleporting)},
			{Name: evDie, Src: live, Dst: string(StateDead)},
		},
		fsm.Callbacks{"enter_state": onEnter},
	)
}

// BossController runs one boss: decision ticks, physics steps, damage intake.
// It is not safe for concurrent use; the host loop owns it.
type BossController struct {
	cfg     *config.BossConfig
	id      string
	emit    func(Event)
	rng     util.Source
	col     Collaborators
	machine *fsm.FSM
	ctx     context.Context
	phaser  *BossPhaser
	attacks *attackTable
	points  []Vec2

	now       float64
	health    float64
	maxHealth float64
	pos       Vec2
	vel       Vec2
	facing    float64
	enabled   bool
	dead      bool
	deathAt   float64

	lastAttack   float64
	lastTeleport float64
	lastJump     float64
	lastDamage   float64

	target     TargetSnapshot
	hasTarget  bool
	targetLost bool

	seq         *attackSequence
	settleUntil float64

	attackScale float64
	chaseScale  float64
}

// NewBossController creates a boss at full health at spawn. It stays inert
// until SetEnabled(true). A nil cfg uses the built-in normal boss.
func NewBossController(cfg *config.BossConfig, spawn Vec2, col Collaborators, emit func(Event), rng util.Source) *BossController {
	if cfg == nil {
		cfg = config.DefaultBoss(config.VariantNormal)
	}
	if emit == nil {
		emit = func(Event) {}
	}
	if rng == nil {
		rng = util.New(1)
	}
	never := math.Inf(-1)
	bc := &BossController{
		cfg:          cfg,
		id:           cfg.ID,
		emit:         emit,
		rng:          rng,
		col:          col,
		ctx:          context.Background(),
		attacks:      newAttackTable(cfg),
		health:       cfg.MaxHealth,
		maxHealth:    cfg.MaxHealth,
		pos:          spawn,
		facing:       -1,
		lastAttack:   never,
		lastTeleport: never,
		lastJump:     never,
		lastDamage:   never,
		attackScale:  1,
		chaseScale:   1,
	}
	if bc.id == "" {
		bc.id = uuid.NewString()
	}
	for _, p := range cfg.Teleport.Points {
		bc.points = append(bc.points, Vec2{X: p.X, Y: p.Y})
	}
	bc.machine = newBossFSM(func(_ context.Context, e *fsm.Event) {
		bc.emit(Event{T: bc.now, Type: "BossStateChanged", Payload: map[string]any{
			"id":   bc.id,
			"from": e.Src,
			"to":   e.Dst,
		}})
	})
	bc.phaser = NewBossPhaser(cfg, emit)
	bc.applyPhase()
	if col.Health != nil {
		col.Health.SetHealth(bc.health, bc.maxHealth)
	}
	return bc
}

func (bc *BossController) ID() string         { return bc.id }
func (bc *BossController) Name() string       { return bc.cfg.Name }
func (bc *BossController) Kind() Kind         { return KindBoss }
func (bc *BossController) Position() Vec2     { return bc.pos }
func (bc *BossController) Velocity() Vec2     { return bc.vel }
func (bc *BossController) Health() float64    { return bc.health }
func (bc *BossController) MaxHealth() float64 { return bc.maxHealth }
func (bc *BossController) IsDead() bool       { return bc.dead }
func (bc *BossController) Now() float64       { return bc.now }
func (bc *BossController) Phase() int         { return bc.phaser.CurrentPhase() }
func (bc *BossController) PhaseName() string  { return bc.phaser.PhaseName() }
func (bc *BossController) Enabled() bool      { return bc.enabled }
func (bc *BossController) State() BossState   { return BossState(bc.machine.Current()) }

// SetEnabled opens or closes the gate the encounter uses to hold the boss
// back, e.g. during an intro cutscene.
func (bc *BossController) SetEnabled(on bool) {
	if bc.dead {
		return
	}
	bc.enabled = on
	if !on {
		bc.seq = nil
		bc.halt()
	}
}

// ReadyForRemoval reports whether the death grace period has run out.
func (bc *BossController) ReadyForRemoval() bool {
	return bc.dead && bc.now >= bc.deathAt+bc.cfg.Combat.DeathGrace
}

func (bc *BossController) emitLog(format string, args ...any) {
	bc.emit(Event{T: bc.now, Type: "LogLine", Payload: map[string]any{
		"text":   fmt.Sprintf(format, args...),
		"source": "boss",
		"id":     bc.id,
	}})
}

func (bc *BossController) diag(format string, args ...any) {
	bc.emit(Event{T: bc.now, Type: "Diagnostic", Payload: map[string]any{
		"text": fmt.Sprintf(format, args...),
		"id":   bc.id,
	}})
}

func (bc *BossController) enter(s BossState) {
	if bc.machine.Current() == string(s) {
		return
	}
	if err := bc.machine.Event(bc.ctx, transitionEvent[s]); err != nil {
		var nt fsm.NoTransitionError
		if errors.As(err, &nt) {
			return
		}
		bc.diag("transition %s -> %s rejected: %v", bc.machine.Current(), s, err)
	}
}

func (bc *BossController) ready(last, cooldown, scale float64) bool {
	return bc.now-last >= cooldown*scale
}

func (bc *BossController) healthFraction() float64 {
	if bc.maxHealth <= 0 {
		return 0
	}
	return bc.health / bc.maxHealth
}

func (bc *BossController) applyPhase() {
	spec := bc.phaser.PhaseSpec()
	if spec == nil {
		bc.attackScale, bc.chaseScale = 1, 1
		bc.attacks.reweight(nil)
		return
	}
	bc.attackScale = spec.AttackCooldownScale
	bc.chaseScale = spec.ChaseSpeedScale
	bc.attacks.reweight(spec.Weights)
}

func (bc *BossController) checkPhase() {
	if bc.phaser.Tick(bc.healthFraction(), bc.now) {
		bc.applyPhase()
		bc.emitLog("%s enters %s", bc.cfg.Name, bc.phaser.PhaseName())
	}
}

// Tick advances the boss by one decision step. A nil target, or one with a
// non-finite position, means the target is gone; the boss idles.
func (bc *BossController) Tick(dt float64, target *TargetSnapshot) {
	if dt > 0 {
		bc.now += dt
	}
	if bc.dead || !bc.enabled {
		return
	}
	bc.checkPhase()

	if target == nil || !target.Pos.Finite() {
		bc.hasTarget = false
		bc.seq = nil
		bc.settleUntil = 0
		bc.halt()
		bc.enter(StateIdle)
		if !bc.targetLost {
			bc.targetLost = true
			bc.diag("no target; idling")
		}
		return
	}
	bc.target = *target
	bc.hasTarget = true
	bc.targetLost = false

	if bc.seq != nil {
		if !bc.seq.step(bc) {
			return
		}
		bc.seq = nil
	}
	if bc.now < bc.settleUntil {
		return
	}
	bc.decide()
}

func (bc *BossController) decide() {
	tp := bc.cfg.Teleport
	dist := bc.pos.Dist(bc.target.Pos)

	// Without points there is no escape to make; fall through to combat.
	if len(bc.points) > 0 && dist <= tp.TooCloseDistance && bc.ready(bc.lastTeleport, tp.Cooldown, tp.TooCloseCooldownScale) {
		if tp.TriggerHazardsOnEscape {
			bc.triggerHazards()
		}
		bc.TeleportTo(TeleportFarthest)
		return
	}
	if dist > bc.cfg.Movement.DetectionRange {
		bc.halt()
		bc.enter(StateIdle)
		return
	}
	if bc.ready(bc.lastAttack, bc.cfg.Combat.AttackCooldown, bc.attackScale) {
		bc.beginAttack()
		return
	}
	if bc.ready(bc.lastTeleport, tp.Cooldown, tp.EscapeCooldownScale) && bc.rng.Float64() < tp.EscapeProbability {
		if bc.TeleportTo(TeleportRandom) {
			return
		}
	}
	bc.chase()
}

func (bc *BossController) halt() {
	bc.vel.X = 0
}

func (bc *BossController) triggerHazards() {
	if bc.col.Hazards == nil {
		return
	}
	bc.col.Hazards.TriggerNear(bc.target.Pos)
	bc.emit(Event{T: bc.now, Type: "HazardTrigger", Payload: map[string]any{
		"id": bc.id,
		"at": bc.target.Pos.pair(),
	}})
}

func (bc *BossController) chase() {
	mv := bc.cfg.Movement
	dx := bc.target.Pos.X - bc.pos.X
	if d := sign(dx); d != 0 {
		bc.facing = d
	}
	bc.vel.X = sign(dx) * mv.ChaseSpeed * bc.chaseScale
	bc.enter(StateChasing)

	body := bc.col.Body
	if body == nil || !body.Grounded(bc.pos) || !bc.ready(bc.lastJump, mv.JumpCooldown, 1) {
		return
	}
	gap := body.GapAhead(bc.pos, bc.facing)
	higher := bc.target.Pos.Y-bc.pos.Y > mv.JumpHeightTrigger
	if !gap && !higher {
		return
	}
	bc.vel.Y = mv.JumpVelocity
	bc.lastJump = bc.now
	bc.emit(Event{T: bc.now, Type: "BossJump", Payload: map[string]any{
		"id":  bc.id,
		"gap": gap,
	}})
}

// PhysicsStep integrates the desired velocity, with gravity while airborne.
// Without a Body the boss moves freely. A dead boss only falls.
func (bc *BossController) PhysicsStep(dt float64) {
	if dt <= 0 {
		return
	}
	if bc.dead {
		bc.vel.X = 0
	}
	body := bc.col.Body
	if body == nil {
		bc.pos = bc.pos.Add(bc.vel.Scale(dt))
		return
	}
	if !body.Grounded(bc.pos) {
		bc.vel.Y -= bc.cfg.Movement.Gravity * dt
	} else if bc.vel.Y < 0 {
		bc.vel.Y = 0
	}
	bc.pos = body.Move(bc.pos, bc.vel, dt)
	if bc.vel.Y < 0 && body.Grounded(bc.pos) {
		bc.vel.Y = 0
	}
}

// SelectAttack rolls the weighted attack table and aims the result at the
// last known target position.
func (bc *BossController) SelectAttack() Projectile {
	p := bc.attacks.pick(bc.rng)
	p.Owner = bc.id
	p.Origin = bc.muzzle()
	p.Dir = bc.aim(p.Origin)
	return p
}

func (bc *BossController) muzzle() Vec2 {
	off := bc.cfg.Combat.MuzzleOffset
	return bc.pos.Add(Vec2{X: off.X * bc.facing, Y: off.Y})
}

func (bc *BossController) aim(origin Vec2) Vec2 {
	if bc.hasTarget {
		if dir := bc.target.Pos.Sub(origin).Norm(); !dir.IsZero() {
			return dir
		}
	}
	return Vec2{X: bc.facing}
}

func (bc *BossController) beginAttack() {
	shot := bc.SelectAttack()
	c := bc.cfg.Combat
	bc.lastAttack = bc.now
	bc.halt()
	if d := sign(bc.target.Pos.X - bc.pos.X); d != 0 {
		bc.facing = d
	}
	bc.enter(StateAttacking)
	bc.emitLog("%s readies %s x%d", bc.cfg.Name, shot.Kind, c.ShotsPerAttack)
	bc.seq = newAttackSequence(shot, bc.now, c.ShotsPerAttack, c.ShotInterval, c.AttackRecovery)
	bc.seq.step(bc)
}

func (bc *BossController) fire(shot Projectile) {
	if bc.col.Spawner == nil {
		bc.diag("no projectile spawner; %s shot skipped", shot.Kind)
		return
	}
	shot.Origin = bc.muzzle()
	shot.Dir = bc.aim(shot.Origin)
	for _, p := range expand(shot) {
		p.ID = uuid.NewString()
		bc.col.Spawner.Spawn(p)
		bc.emit(Event{T: bc.now, Type: "BossAttack", Payload: map[string]any{
			"id":                  bc.id,
			"shot":                p.ID,
			"kind":                p.Kind.String(),
			"from":                p.Origin.pair(),
			"dir":                 p.Dir.pair(),
			"speed":               p.Speed,
			"damage":              p.Damage,
			"target_invulnerable": bc.hasTarget && bc.target.Invulnerable,
		}})
	}
}

// FarthestPoint returns the index of the point farthest from ref among those
// at least minSafe away. If none qualifies it returns the overall farthest
// point and false. Ties keep the earlier point. Empty input returns -1.
func FarthestPoint(points []Vec2, ref Vec2, minSafe float64) (int, bool) {
	best, bestSafe := -1, -1
	bestD, bestSafeD := -1.0, -1.0
	for i, p := range points {
		d := p.Dist(ref)
		if d > bestD {
			best, bestD = i, d
		}
		if d >= minSafe && d > bestSafeD {
			bestSafe, bestSafeD = i, d
		}
	}
	if bestSafe >= 0 {
		return bestSafe, true
	}
	return best, false
}

// TeleportTo moves the boss to a configured teleport point and starts the
// settle wait. It reports false, and does nothing, when the boss is dead or
// no points are configured.
func (bc *BossController) TeleportTo(mode TeleportMode) bool {
	if bc.dead {
		return false
	}
	if len(bc.points) == 0 {
		bc.diag("no teleport points configured; %s teleport skipped", mode)
		return false
	}
	idx := 0
	switch mode {
	case TeleportFarthest:
		ref := bc.pos
		if bc.hasTarget {
			ref = bc.target.Pos
		}
		var safe bool
		idx, safe = FarthestPoint(bc.points, ref, bc.cfg.Teleport.MinSafeDistance)
		if !safe {
			bc.diag("no teleport point is %.1f from the target; using the farthest", bc.cfg.Teleport.MinSafeDistance)
		}
	default:
		idx = bc.rng.Intn(len(bc.points))
	}

	from := bc.pos
	bc.pos = bc.points[idx]
	bc.vel = Vec2{}
	bc.lastTeleport = bc.now
	bc.settleUntil = bc.now + bc.cfg.Teleport.Settle
	bc.enter(StateTeleporting)
	bc.emit(Event{T: bc.now, Type: "BossTeleport", Payload: map[string]any{
		"id":   bc.id,
		"mode": mode.String(),
		"from": from.pair(),
		"to":   bc.pos.pair(),
	}})
	return true
}

// TakeDamage applies a hit. Hits while dead, or within the debounce window of
// the last accepted hit, are dropped.
func (bc *BossController) TakeDamage(amount float64, source Actor) {
	if bc.dead {
		return
	}
	if !finite(amount) {
		bc.diag("dropped non-finite damage %v from %q", amount, actorID(source))
		return
	}
	if bc.now-bc.lastDamage < bc.cfg.Combat.DamageDebounce {
		return
	}
	bc.lastDamage = bc.now

	prev := bc.health
	bc.health = math.Min(math.Max(bc.health-amount, 0), bc.maxHealth)
	bc.emit(Event{T: bc.now, Type: "BossDamaged", Payload: map[string]any{
		"id":     bc.id,
		"amount": amount,
		"hp":     bc.health,
		"prev":   prev,
		"source": actorID(source),
	}})
	if bc.col.Flash != nil {
		bc.col.Flash.Flash()
	}
	if bc.col.Health != nil {
		bc.col.Health.SetHealth(bc.health, bc.maxHealth)
	}
	if bc.health <= 0 {
		bc.die(source)
		return
	}
	bc.checkPhase()

	if !bc.enabled {
		return
	}
	tp := bc.cfg.Teleport
	if bc.rng.Float64() < tp.ChanceOnHit && bc.ready(bc.lastTeleport, tp.Cooldown, tp.OnHitCooldownScale) {
		bc.seq = nil
		bc.TeleportTo(TeleportRandom)
	}
}

func (bc *BossController) die(source Actor) {
	bc.dead = true
	bc.deathAt = bc.now
	bc.seq = nil
	bc.vel = Vec2{}
	bc.enter(StateDead)
	bc.emit(Event{T: bc.now, Type: "BossDeath", Payload: map[string]any{
		"id":     bc.id,
		"killer": actorID(source),
		"grace":  bc.cfg.Combat.DeathGrace,
	}})
	bc.emitLog("%s is defeated", bc.cfg.Name)
	if bc.col.Owner == nil {
		bc.diag("no encounter owner to notify")
		return
	}
	bc.col.Owner.BattleWon(bc.id)
}
