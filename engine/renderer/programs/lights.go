package programs

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// Lights shades meshes with the Phong model against every record of a light collection. The
// collection is bound to LightsSlot on every Bind, so all Lights programs sharing a collection
// see the same lights. The textured variant multiplies the lit color by a diffuse texture.
type Lights struct {
	*shader.Program
	backend    renderer.Backend
	collection light.Collection
	material   material.Material
	flags      material.LightingFlags
	textured   bool
	texture    renderer.TextureID
}

// LoadLights loads the lighting program from "lights.vert.wgsl" and "lights.frag.wgsl" and
// uploads the default material with ambient, diffuse and specular terms enabled.
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - collection: the lights to shade with
//   - options: extra program options
//
// Returns:
//   - *Lights: the unbound program
//   - error: error if loading fails
func LoadLights(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, collection light.Collection, options ...shader.ProgramBuilderOption) (*Lights, error) {
	return loadLights(ctx, binder, sources, collection, false, options...)
}

// LoadLightsTextured loads the textured lighting program from "lights.vert.wgsl" and
// "lights_texture.frag.wgsl". A texture must be selected with SetTexture before drawing.
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - collection: the lights to shade with
//   - options: extra program options
//
// Returns:
//   - *Lights: the unbound program
//   - error: error if loading fails
func LoadLightsTextured(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, collection light.Collection, options ...shader.ProgramBuilderOption) (*Lights, error) {
	return loadLights(ctx, binder, sources, collection, true, append([]shader.ProgramBuilderOption{shader.WithLabel("lights_texture")}, options...)...)
}

func loadLights(ctx context.Context, binder *shader.Binder, sources shader.SourceReader, collection light.Collection, textured bool, options ...shader.ProgramBuilderOption) (*Lights, error) {
	if collection == nil {
		panic("programs: lights program requires a light collection")
	}
	fragment := "lights"
	if textured {
		fragment = "lights_texture"
	}
	p, err := load(ctx, binder, sources, "lights", fragment, options...)
	if err != nil {
		return nil, err
	}
	l := &Lights{
		Program:    p,
		backend:    binder.Backend(),
		collection: collection,
		material:   material.NewMaterial(),
		flags:      material.FlagsPhong,
		textured:   textured,
	}
	l.OnBind(l.bindState)
	l.uploadState()
	return l, nil
}

func (l *Lights) uploadState() {
	l.material.Upload(l)
	l.WithBound(func() {
		l.BindParam("lightingFlags", shader.Uint(l.flags))
	})
}

// SetMaterial uploads m and keeps it for reloads.
//
// Parameters:
//   - m: the material
func (l *Lights) SetMaterial(m material.Material) {
	l.material = m
	m.Upload(l)
}

// Material returns the material last set.
func (l *Lights) Material() material.Material {
	return l.material
}

// SetFlags replaces the lighting flags.
//
// Parameters:
//   - flags: the terms to evaluate
func (l *Lights) SetFlags(flags material.LightingFlags) {
	l.flags = flags
	l.WithBound(func() {
		l.BindParam("lightingFlags", shader.Uint(flags))
	})
}

// Flags returns the current lighting flags.
func (l *Lights) Flags() material.LightingFlags {
	return l.flags
}

// SetFlag turns one lighting term on or off.
//
// Parameters:
//   - flag: the term
//   - on: whether to evaluate it
func (l *Lights) SetFlag(flag material.LightingFlags, on bool) {
	l.SetFlags(l.flags.With(flag, on))
}

// ApplyBlinnPhong enables every term with the halfway-vector specular.
func (l *Lights) ApplyBlinnPhong() {
	l.SetFlags(material.FlagsBlinnPhong)
}

// SetLightCollection replaces the collection bound on the next Bind.
//
// Parameters:
//   - collection: the lights to shade with
func (l *Lights) SetLightCollection(collection light.Collection) {
	l.collection = collection
	if l.IsBound() {
		collection.Bind(LightsSlot)
	}
}

// Collection returns the light collection the program shades with.
func (l *Lights) Collection() light.Collection {
	return l.collection
}

// SetTexture selects the diffuse texture of the textured variant. It panics on the untextured
// variant.
//
// Parameters:
//   - tex: the texture
func (l *Lights) SetTexture(tex renderer.TextureID) {
	if !l.textured {
		panic(fmt.Sprintf("programs: %s samples no texture", l.Label()))
	}
	l.texture = tex
	if l.IsBound() {
		l.backend.BindTexture(tex, DiffuseUnit)
	}
}

// bindState attaches the light collection and the selected texture on every Bind.
func (l *Lights) bindState() {
	l.collection.Bind(LightsSlot)
	if l.texture != 0 {
		l.backend.BindTexture(l.texture, DiffuseUnit)
	}
}

func (l *Lights) Draw(mesh renderer.MeshID) {
	if l.textured && l.texture == 0 {
		panic(fmt.Sprintf("programs: draw with %s before a texture was selected", l.Label()))
	}
	l.Program.Draw(mesh)
}

// ReloadSources recompiles the program and re-uploads the material and flags.
func (l *Lights) ReloadSources(ctx context.Context) error {
	if err := l.Program.ReloadSources(ctx); err != nil {
		return err
	}
	l.uploadState()
	return nil
}
