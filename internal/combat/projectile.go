package combat

// Flight is a spawned projectile travelling through the arena.
type Flight struct {
	Shot Projectile
	Pos  Vec2
	Age  float64
	Done bool
}

func Launch(p Projectile) *Flight {
	return &Flight{Shot: p, Pos: p.Origin}
}

func (f *Flight) ID() string     { return f.Shot.ID }
func (f *Flight) Kind() Kind     { return KindProjectile }
func (f *Flight) Position() Vec2 { return f.Pos }

func (f *Flight) Advance(dt float64) {
	f.Pos = f.Pos.Add(f.Shot.Dir.Scale(f.Shot.Speed * dt))
	f.Age += dt
}

// ResolveHit applies a projectile to the actor it touched and reports whether
// the projectile is used up. Players take the damage and any on-hit status
// unless invulnerable; fish block shots; bosses, enemies and other
// projectiles are passed through.
func ResolveHit(p Projectile, struck Actor, statuses *StatusBook) bool {
	if struck == nil {
		return false
	}
	switch struck.Kind() {
	case KindPlayer:
		d, ok := struck.(Damageable)
		if !ok || d.Invulnerable() {
			return true
		}
		d.ApplyDamage(p.Damage, p.Owner)
		if p.Status != nil && statuses != nil {
			statuses.Apply(d, *p.Status, p.Owner)
		}
		return true
	case KindFish:
		return true
	}
	return false
}
