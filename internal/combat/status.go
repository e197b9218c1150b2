package combat

import (
	"fmt"
	"sort"
)

const (
	StatusFreeze = "freeze"
	StatusPoison = "poison"
)

// StatusSpec is an on-hit effect carried by a projectile.
type StatusSpec struct {
	ID       string
	Duration float64
	Tick     float64
	Damage   float64
	ICD      float64
}

type activeStatus struct {
	Status
	target   Damageable
	spec     StatusSpec
	nextTick float64
	source   string
}

// StatusBook applies and ticks statuses on damageable targets. A status
// cannot be reapplied to the same target until its ICD has passed, and
// nothing takes hold on an invulnerable target.
type StatusBook struct {
	icd     map[string]float64 // targetID|statusID -> nextAllowedTime
	active  map[string]*activeStatus
	Emit    func(ev Event)
	TimeNow func() float64
}

func NewStatusBook(now func() float64, emit func(Event)) *StatusBook {
	if emit == nil {
		emit = func(Event) {}
	}
	return &StatusBook{
		icd:     map[string]float64{},
		active:  map[string]*activeStatus{},
		Emit:    emit,
		TimeNow: now,
	}
}

func statusKey(targetID, statusID string) string {
	return fmt.Sprintf("%s|%s", targetID, statusID)
}

func (sb *StatusBook) Apply(target Damageable, spec StatusSpec, source string) bool {
	if target == nil || spec.ID == "" || spec.Duration <= 0 {
		return false
	}
	now := sb.TimeNow()
	if target.Invulnerable() {
		sb.Emit(Event{T: now, Type: "StatusResisted", Payload: map[string]any{
			"target": target.ID(), "status": spec.ID,
		}})
		return false
	}
	key := statusKey(target.ID(), spec.ID)
	if next, ok := sb.icd[key]; ok && now < next {
		return false
	}
	sb.icd[key] = now + spec.ICD

	st := &activeStatus{
		Status: Status{Name: spec.ID, ExpireAt: now + spec.Duration},
		target: target,
		spec:   spec,
		source: source,
	}
	if spec.Tick > 0 {
		st.nextTick = now + spec.Tick
	}
	sb.active[key] = st
	if spec.ID == StatusFreeze {
		if f, ok := target.(Freezable); ok {
			f.Freeze(st.ExpireAt)
		}
	}
	sb.Emit(Event{T: now, Type: "ApplyStatus", Payload: map[string]any{
		"target": target.ID(), "status": spec.ID, "dur": spec.Duration, "source": source,
	}})
	return true
}

func (sb *StatusBook) Active(targetID, statusID string) bool {
	_, ok := sb.active[statusKey(targetID, statusID)]
	return ok
}

// Update deals due damage ticks and drops expired statuses.
func (sb *StatusBook) Update() {
	now := sb.TimeNow()
	keys := make([]string, 0, len(sb.active))
	for k := range sb.active {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		st := sb.active[key]
		if st.spec.Tick > 0 {
			for st.nextTick <= now && st.nextTick <= st.ExpireAt {
				if !st.target.Invulnerable() {
					st.target.ApplyDamage(st.spec.Damage, st.source)
					sb.Emit(Event{T: st.nextTick, Type: "StatusTick", Payload: map[string]any{
						"target": st.target.ID(), "status": st.Name, "dmg": st.spec.Damage,
					}})
				}
				st.nextTick += st.spec.Tick
			}
		}
		if now >= st.ExpireAt {
			delete(sb.active, key)
			sb.Emit(Event{T: now, Type: "StatusExpired", Payload: map[string]any{
				"target": st.target.ID(), "status": st.Name,
			}})
		}
	}
}
