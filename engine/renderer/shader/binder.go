package shader

import "github.com/Carmen-Shannon/oxy-viewer/engine/renderer"

// Binder records which Resource is bound on one GPU context. Every Resource created against a
// Binder shares its single bound slot. It is not safe for concurrent use.
type Binder struct {
	backend renderer.Backend
	active  *resource
}

// NewBinder creates the Binder for a backend.
func NewBinder(backend renderer.Backend) *Binder {
	return &Binder{backend: backend}
}

// Backend returns the GPU context this Binder tracks.
func (b *Binder) Backend() renderer.Backend {
	return b.backend
}

// Active returns the bound Resource, or nil.
func (b *Binder) Active() Resource {
	if b.active == nil {
		return nil
	}
	return b.active
}
