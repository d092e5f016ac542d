// Package transform composes model matrices from an ordered list of translate, rotate and scale
// steps. Steps stay addressable by index so animated objects can mutate a single step in place
// and rebuild the matrix every frame.
package transform

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// Kind identifies the variant held by a Step.
type Kind int

const (
	Translate Kind = iota
	Rotate
	Scale
)

func (k Kind) String() string {
	switch k {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrIndexOutOfRange is returned when a step index does not exist.
	ErrIndexOutOfRange = errors.New("transform: step index out of range")
	// ErrKindMismatch is returned when a typed mutation targets a step of another kind.
	ErrKindMismatch = errors.New("transform: step kind mismatch")
)

// Step is one transformation. Only the fields of its Kind are meaningful: Vector for Translate
// and Scale, Axis and Angle (radians) for Rotate.
type Step struct {
	Kind   Kind
	Vector common.Vec3
	Axis   common.Vec3
	Angle  float32
}

// Matrix returns the 4x4 matrix of the step.
func (s Step) Matrix() common.Mat4 {
	switch s.Kind {
	case Translate:
		return common.TranslationMatrix(s.Vector)
	case Rotate:
		return common.RotationMatrix(s.Axis, s.Angle)
	case Scale:
		return common.ScaleMatrix(s.Vector)
	default:
		panic(fmt.Sprintf("transform: unknown step kind %d", int(s.Kind)))
	}
}

// Builder is an ordered list of steps. The zero value is an empty builder.
type Builder struct {
	steps []Step
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) push(s Step) *Builder {
	b.steps = append(b.steps, s)
	return b
}

// Translate appends a translation by v.
func (b *Builder) Translate(v common.Vec3) *Builder {
	return b.push(Step{Kind: Translate, Vector: v})
}

// MoveX appends a translation along X.
func (b *Builder) MoveX(d float32) *Builder {
	return b.Translate(common.Vec3{d, 0, 0})
}

// MoveY appends a translation along Y.
func (b *Builder) MoveY(d float32) *Builder {
	return b.Translate(common.Vec3{0, d, 0})
}

// MoveZ appends a translation along Z.
func (b *Builder) MoveZ(d float32) *Builder {
	return b.Translate(common.Vec3{0, 0, d})
}

// Rotate appends a rotation of rad radians about axis.
func (b *Builder) Rotate(axis common.Vec3, rad float32) *Builder {
	return b.push(Step{Kind: Rotate, Axis: axis, Angle: rad})
}

// RotateX appends a rotation about the X axis.
func (b *Builder) RotateX(rad float32) *Builder {
	return b.Rotate(common.Vec3{1, 0, 0}, rad)
}

// RotateY appends a rotation about the Y axis.
func (b *Builder) RotateY(rad float32) *Builder {
	return b.Rotate(common.Vec3{0, 1, 0}, rad)
}

// RotateZ appends a rotation about the Z axis.
func (b *Builder) RotateZ(rad float32) *Builder {
	return b.Rotate(common.Vec3{0, 0, 1}, rad)
}

// Scale appends a per-axis scale.
func (b *Builder) Scale(v common.Vec3) *Builder {
	return b.push(Step{Kind: Scale, Vector: v})
}

// ScaleUniform appends a uniform scale.
func (b *Builder) ScaleUniform(s float32) *Builder {
	return b.Scale(common.Vec3{s, s, s})
}

// Len returns the number of steps.
func (b *Builder) Len() int {
	return len(b.steps)
}

// At returns a copy of step i.
//
// Parameters:
//   - i: the step index
//
// Returns:
//   - Step: the step
//   - error: ErrIndexOutOfRange if i does not exist
func (b *Builder) At(i int) (Step, error) {
	if i < 0 || i >= len(b.steps) {
		return Step{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(b.steps))
	}
	return b.steps[i], nil
}

func (b *Builder) step(i int, kind Kind) (*Step, error) {
	if i < 0 || i >= len(b.steps) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(b.steps))
	}
	s := &b.steps[i]
	if s.Kind != kind {
		return nil, fmt.Errorf("%w: step %d is %s, not %s", ErrKindMismatch, i, s.Kind, kind)
	}
	return s, nil
}

// SetTranslation replaces the vector of translate step i.
func (b *Builder) SetTranslation(i int, v common.Vec3) error {
	s, err := b.step(i, Translate)
	if err != nil {
		return err
	}
	s.Vector = v
	return nil
}

// SetRotation replaces the angle of rotate step i.
func (b *Builder) SetRotation(i int, rad float32) error {
	s, err := b.step(i, Rotate)
	if err != nil {
		return err
	}
	s.Angle = rad
	return nil
}

// AddRotation adds delta radians to the angle of rotate step i.
func (b *Builder) AddRotation(i int, delta float32) error {
	s, err := b.step(i, Rotate)
	if err != nil {
		return err
	}
	s.Angle += delta
	return nil
}

// SetScale replaces the vector of scale step i.
func (b *Builder) SetScale(i int, v common.Vec3) error {
	s, err := b.step(i, Scale)
	if err != nil {
		return err
	}
	s.Vector = v
	return nil
}

// MustSetTranslation is SetTranslation that panics on error.
func (b *Builder) MustSetTranslation(i int, v common.Vec3) {
	must(b.SetTranslation(i, v))
}

// MustSetRotation is SetRotation that panics on error.
func (b *Builder) MustSetRotation(i int, rad float32) {
	must(b.SetRotation(i, rad))
}

// MustAddRotation is AddRotation that panics on error.
func (b *Builder) MustAddRotation(i int, delta float32) {
	must(b.AddRotation(i, delta))
}

// MustSetScale is SetScale that panics on error.
func (b *Builder) MustSetScale(i int, v common.Vec3) {
	must(b.SetScale(i, v))
}

func must(err error) {
	if err != nil {
		panic(err.Error())
	}
}

// Build returns identity post-multiplied by every step in insertion order.
func (b *Builder) Build() common.Mat4 {
	return b.BuildFrom(common.Ident4())
}

// BuildFrom returns m post-multiplied by every step in insertion order.
func (b *Builder) BuildFrom(m common.Mat4) common.Mat4 {
	for _, s := range b.steps {
		m = m.Mul(s.Matrix())
	}
	return m
}

// Clone returns an independent copy of the builder.
func (b *Builder) Clone() *Builder {
	return &Builder{steps: append([]Step(nil), b.steps...)}
}
