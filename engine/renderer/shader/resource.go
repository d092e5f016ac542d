// Package shader owns the binding state machine of GPU programs and the reactive Program built
// on it. A Resource is a compiled program that moves between Unbound and Bound; at most one
// Resource per Binder is Bound at any time, and uniform uploads and draws are only legal while
// Bound. Violations are programming errors and panic.
package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// Resource is a compiled GPU program with an explicit bind/unbind lifecycle.
type Resource interface {
	// Bind makes this program the active one on its Binder. Binding while this or any other
	// Resource on the same Binder is bound panics.
	Bind()

	// Unbind clears the active program. Unbinding a Resource that is not the active one panics.
	Unbind()

	// IsBound reports whether this Resource is the active one.
	//
	// Returns:
	//   - bool: true while bound
	IsBound() bool

	// BindParam uploads a uniform value by member path, such as "view" or "material.ambient".
	// Calling it while unbound, or with a name the program does not declare, panics.
	//
	// Parameters:
	//   - name: the dotted uniform member path
	//   - value: the value to upload
	BindParam(name string, value Value)

	// HasParam reports whether the program declares a uniform member.
	//
	// Parameters:
	//   - name: the dotted uniform member path
	//
	// Returns:
	//   - bool: true if declared
	HasParam(name string) bool

	// WithBound runs fn with this Resource bound, binding it first if needed and restoring the
	// previous state afterwards.
	//
	// Parameters:
	//   - fn: the work to run while bound
	WithBound(fn func())

	// Draw issues a draw of mesh with this program. Drawing while unbound panics.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	Draw(mesh renderer.MeshID)

	// Reload recompiles the program from new sources. On error the previous program stays in
	// use and the error is returned. Reloading while bound panics.
	//
	// Parameters:
	//   - vertexSource: the new vertex stage source
	//   - fragmentSource: the new fragment stage source
	//
	// Returns:
	//   - error: error if compilation fails
	Reload(vertexSource, fragmentSource string) error

	// Label returns the program's debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// ProgramID returns the backend program currently backing this Resource.
	//
	// Returns:
	//   - renderer.ProgramID: the program id
	ProgramID() renderer.ProgramID

	// Release destroys the program. Releasing while bound panics.
	Release()
}

type resource struct {
	binder   *Binder
	desc     renderer.ProgramDescriptor
	id       renderer.ProgramID
	released bool
}

var _ Resource = &resource{}

// NewResource compiles desc on the binder's backend. A compile failure returns the error and
// no Resource.
//
// Parameters:
//   - binder: the GPU context the Resource binds on
//   - desc: the program sources and pipeline state
//
// Returns:
//   - Resource: the compiled, unbound Resource
//   - error: error if compilation fails
func NewResource(binder *Binder, desc renderer.ProgramDescriptor) (Resource, error) {
	id, err := binder.backend.CompileProgram(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile program %q: %w", desc.Label, err)
	}
	return &resource{binder: binder, desc: desc, id: id}, nil
}

func (r *resource) Bind() {
	r.mustLive()
	if r.binder.active == r {
		panic(fmt.Sprintf("shader: %s is already bound", r.desc.Label))
	}
	if r.binder.active != nil {
		panic(fmt.Sprintf("shader: cannot bind %s while %s is bound", r.desc.Label, r.binder.active.desc.Label))
	}
	r.binder.active = r
	r.binder.backend.UseProgram(r.id)
}

func (r *resource) Unbind() {
	if r.binder.active != r {
		panic(fmt.Sprintf("shader: unbind of %s which is not the bound program", r.desc.Label))
	}
	r.binder.active = nil
	r.binder.backend.UseProgram(0)
}

func (r *resource) IsBound() bool {
	return r.binder.active == r
}

func (r *resource) BindParam(name string, value Value) {
	if r.binder.active != r {
		panic(fmt.Sprintf("shader: BindParam(%q) on %s while unbound", name, r.desc.Label))
	}
	loc, ok := r.binder.backend.UniformLocation(r.id, name)
	if !ok {
		panic(fmt.Sprintf("shader: %s declares no uniform %q", r.desc.Label, name))
	}
	r.binder.backend.SetUniform(r.id, loc, value.bytes())
}

func (r *resource) HasParam(name string) bool {
	_, ok := r.binder.backend.UniformLocation(r.id, name)
	return ok
}

func (r *resource) WithBound(fn func()) {
	if r.IsBound() {
		fn()
		return
	}
	r.Bind()
	defer r.Unbind()
	fn()
}

func (r *resource) Draw(mesh renderer.MeshID) {
	if r.binder.active != r {
		panic(fmt.Sprintf("shader: draw with %s while unbound", r.desc.Label))
	}
	r.binder.backend.Draw(mesh)
}

func (r *resource) Reload(vertexSource, fragmentSource string) error {
	r.mustLive()
	if r.IsBound() {
		panic(fmt.Sprintf("shader: reload of %s while bound", r.desc.Label))
	}
	desc := r.desc
	desc.VertexSource = vertexSource
	desc.FragmentSource = fragmentSource
	id, err := r.binder.backend.CompileProgram(desc)
	if err != nil {
		return fmt.Errorf("failed to recompile program %q: %w", desc.Label, err)
	}
	r.binder.backend.ReleaseProgram(r.id)
	r.id = id
	r.desc = desc
	return nil
}

func (r *resource) Label() string {
	return r.desc.Label
}

func (r *resource) ProgramID() renderer.ProgramID {
	return r.id
}

func (r *resource) Release() {
	if r.released {
		return
	}
	if r.IsBound() {
		panic(fmt.Sprintf("shader: release of %s while bound", r.desc.Label))
	}
	r.binder.backend.ReleaseProgram(r.id)
	r.released = true
}

func (r *resource) mustLive() {
	if r.released {
		panic(fmt.Sprintf("shader: use of released program %s", r.desc.Label))
	}
}
