package combat

import "testing"

type prop struct {
	id   string
	kind Kind
}

func (p prop) ID() string     { return p.id }
func (p prop) Kind() Kind     { return p.kind }
func (p prop) Position() Vec2 { return Vec2{} }

func TestResolveHit(t *testing.T) {
	t.Parallel()

	shot := Projectile{ID: "s1", Owner: "boss", Kind: IceBolt, Damage: 8,
		Status: &StatusSpec{ID: StatusFreeze, Duration: 1.5, ICD: 3}}

	cases := []struct {
		name     string
		struck   Actor
		consumed bool
	}{
		{"fish blocks", prop{"koi", KindFish}, true},
		{"boss passes", prop{"boss", KindBoss}, false},
		{"enemy passes", prop{"bat", KindEnemy}, false},
		{"projectile passes", prop{"s2", KindProjectile}, false},
		{"nothing", nil, false},
	}
	for _, tc := range cases {
		if got := ResolveHit(shot, tc.struck, nil); got != tc.consumed {
			t.Errorf("%s: ResolveHit() = %v; want %v", tc.name, got, tc.consumed)
		}
	}
}

func TestResolveHit_Player(t *testing.T) {
	t.Parallel()

	shot := Projectile{ID: "s1", Owner: "boss", Kind: IceBolt, Damage: 8,
		Status: &StatusSpec{ID: StatusFreeze, Duration: 1.5, ICD: 3}}
	sb := NewStatusBook(func() float64 { return 0 }, nil)

	d := NewDuelist("p", Vec2{})
	if !ResolveHit(shot, d, sb) {
		t.Fatal("player hit did not consume the shot")
	}
	if d.HP() != 92 || !d.Frozen() {
		t.Errorf("HP() = %v, Frozen() = %v; want 92, true", d.HP(), d.Frozen())
	}

	dodging := NewDuelist("q", Vec2{})
	dodging.invulnUntil = 1
	if !ResolveHit(shot, dodging, sb) {
		t.Fatal("dodged hit did not consume the shot")
	}
	if dodging.HP() != 100 || dodging.Frozen() {
		t.Errorf("invulnerable player took the hit: HP() = %v, Frozen() = %v", dodging.HP(), dodging.Frozen())
	}
}

func TestFlightAdvance(t *testing.T) {
	t.Parallel()

	f := Launch(Projectile{Origin: Vec2{X: 1, Y: 1}, Dir: Vec2{X: -1}, Speed: 10})
	f.Advance(0.5)
	if f.Pos != (Vec2{X: -4, Y: 1}) || f.Age != 0.5 {
		t.Errorf("after Advance: Pos = %v, Age = %v; want {-4 1}, 0.5", f.Pos, f.Age)
	}
}
