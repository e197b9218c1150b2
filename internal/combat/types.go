package combat

type Event struct {
	T       float64        `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Status struct {
	Name     string
	ExpireAt float64
}

// Kind is the category of something that can be struck or strike.
type Kind int

const (
	KindPlayer Kind = iota
	KindFish
	KindBoss
	KindEnemy
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindFish:
		return "fish"
	case KindBoss:
		return "boss"
	case KindEnemy:
		return "enemy"
	case KindProjectile:
		return "projectile"
	}
	return "unknown"
}

type Actor interface {
	ID() string
	Kind() Kind
	Position() Vec2
}

// Damageable is an actor that takes hits and can be temporarily immune.
type Damageable interface {
	Actor
	Invulnerable() bool
	ApplyDamage(amount float64, source string)
}

// Freezable actors can be rooted in place until a point in time.
type Freezable interface {
	Freeze(until float64)
}

// TargetSnapshot is what the boss reads about its target on a decision tick.
// Invulnerable does not change the boss's decisions; it is reported on each
// BossAttack event. ResolveHit and StatusBook enforce it.
type TargetSnapshot struct {
	Pos          Vec2
	Invulnerable bool
}

func actorID(a Actor) string {
	if a == nil {
		return ""
	}
	return a.ID()
}
