package light

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

const (
	fireflyTurnInterval = 1.0
	fireflyTurnRate     = 0.05
	fireflyMinY         = 1.0
	fireflyMaxY         = 4.0
	fireflySpread       = 10.0
)

// Firefly is a small point light that wanders randomly between heights 1 and 4.
type Firefly interface {
	Light

	// Update advances the wandering movement by dt seconds. A new random heading is chosen
	// every second and the current heading eases towards it.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Update(dt float32)
}

type fireflyImpl struct {
	*lightImpl
	rng       *rand.Rand
	heading   common.Vec3
	target    common.Vec3
	sinceTurn float32
}

var _ Firefly = &fireflyImpl{}

// NewFirefly adds a yellow firefly at a random position within 10 units of the origin on the
// XZ plane, at height 2. Defaults: color (1, 1, 0.3), attenuation (0.7, 0.4, 0.2), marker
// scale 0.05.
//
// Parameters:
//   - collection: the collection the record is added to
//   - rng: the random source; nil seeds a new one
//   - options: functional options applied after the firefly defaults
//
// Returns:
//   - Firefly: the firefly
func NewFirefly(collection Collection, rng *rand.Rand, options ...LightBuilderOption) Firefly {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	f := &fireflyImpl{
		rng:     rng,
		heading: common.Vec3{1, 1, 1},
		target:  common.Vec3{1, 1, 1},
	}
	start := common.Vec3{f.signed() * fireflySpread, 2, f.signed() * fireflySpread}
	defaults := []LightBuilderOption{
		WithPosition(start),
		WithColor(common.Vec3{1, 1, 0.3}),
		WithAttenuation(common.Vec3{0.7, 0.4, 0.2}),
		WithMarkerScale(0.05),
	}
	f.lightImpl = newLight(collection, append(defaults, options...)...)
	return f
}

func (f *fireflyImpl) Update(dt float32) {
	pos := f.position

	f.sinceTurn += dt
	if f.sinceTurn >= fireflyTurnInterval {
		f.target = common.Vec3{f.signed(), f.signed(), f.signed()}.Normalize()
		switch {
		case pos[1] >= fireflyMaxY:
			f.target[1] = min(f.target[1], -0.5)
		case pos[1] <= fireflyMinY:
			f.target[1] = max(f.target[1], 0.5)
		}
		f.sinceTurn = 0
	}

	f.heading = f.heading.Add(f.target.Sub(f.heading).Scale(fireflyTurnRate)).Normalize()

	next := pos.Add(f.heading.Scale(dt))
	next[1] = common.Clamp(next[1], fireflyMinY, fireflyMaxY)
	f.SetPosition(next)
}

// signed returns a uniform value in [-1, 1).
func (f *fireflyImpl) signed() float32 {
	return f.rng.Float32()*2 - 1
}
