package combat

// Body resolves the boss's movement against the world. The boss owns its
// position; Move only reports where a step from `from` ends up.
type Body interface {
	Move(from, vel Vec2, dt float64) Vec2
	Grounded(at Vec2) bool
	GapAhead(at Vec2, dir float64) bool
}

type Spawner interface {
	Spawn(p Projectile)
}

type HealthBar interface {
	SetHealth(current, max float64)
}

type HazardNotifier interface {
	TriggerNear(pos Vec2)
}

type EncounterOwner interface {
	BattleWon(bossID string)
}

type Flasher interface {
	Flash()
}

// Collaborators are the engine-side systems the boss calls into. Any of them
// may be nil.
type Collaborators struct {
	Body    Body
	Spawner Spawner
	Health  HealthBar
	Hazards HazardNotifier
	Owner   EncounterOwner
	Flash   Flasher
}
