package combat

import "math"

// Duelist is the scripted player used by the simulator: it walks up to the
// boss, swings when in reach and dodges incoming bolts with a short
// invulnerability window.
type Duelist struct {
	id    string
	pos   Vec2
	hp    float64
	maxHP float64

	Speed       float64
	Reach       float64
	SwingCD     float64
	SwingDamage float64
	DodgeCD     float64
	IFrames     float64

	now         float64
	nextSwing   float64
	nextDodge   float64
	invulnUntil float64
	frozenUntil float64
}

func NewDuelist(id string, pos Vec2) *Duelist {
	return &Duelist{
		id: id, pos: pos, hp: 100, maxHP: 100,
		Speed: 4.5, Reach: 1.8, SwingCD: 0.5, SwingDamage: 25,
		DodgeCD: 2.5, IFrames: 0.4,
	}
}

func (d *Duelist) ID() string         { return d.id }
func (d *Duelist) Kind() Kind         { return KindPlayer }
func (d *Duelist) Position() Vec2     { return d.pos }
func (d *Duelist) HP() float64        { return d.hp }
func (d *Duelist) MaxHP() float64     { return d.maxHP }
func (d *Duelist) Alive() bool        { return d.hp > 0 }
func (d *Duelist) Frozen() bool       { return d.now < d.frozenUntil }
func (d *Duelist) Invulnerable() bool { return d.now < d.invulnUntil }

func (d *Duelist) ApplyDamage(amount float64, _ string) {
	if amount <= 0 || d.Invulnerable() {
		return
	}
	d.hp = math.Max(d.hp-amount, 0)
}

func (d *Duelist) Freeze(until float64) {
	if d.Invulnerable() {
		return
	}
	if until > d.frozenUntil {
		d.frozenUntil = until
	}
}

// Snapshot is what the boss sees; nil once the duelist is down.
func (d *Duelist) Snapshot() *TargetSnapshot {
	if !d.Alive() {
		return nil
	}
	return &TargetSnapshot{Pos: d.pos, Invulnerable: d.Invulnerable()}
}

func (d *Duelist) Update(now, dt float64, boss *BossController, threatened bool) {
	d.now = now
	if !d.Alive() || boss == nil || boss.IsDead() {
		return
	}
	if threatened && now >= d.nextDodge {
		d.invulnUntil = now + d.IFrames
		d.nextDodge = now + d.DodgeCD
	}
	if d.Frozen() {
		return
	}
	diff := boss.Position().Sub(d.pos)
	if math.Abs(diff.X) > d.Reach {
		step := math.Min(d.Speed*dt, math.Abs(diff.X)-d.Reach*0.5)
		d.pos.X += sign(diff.X) * step
		return
	}
	if math.Abs(diff.Y) <= d.Reach*2 && now >= d.nextSwing {
		d.nextSwing = now + d.SwingCD
		boss.TakeDamage(d.SwingDamage, d)
	}
}
