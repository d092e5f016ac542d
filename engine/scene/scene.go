// Package scene composes the viewer's scenes: the Scene contract the render loop drives, the
// Switcher menu that selects between scenes, the first-person Basic scene that owns a camera
// and its controls, and the concrete scenes built on it.
package scene

import (
	"context"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// Frame is the per-frame input of Scene.Render.
type Frame struct {
	// Delta is the number of seconds since the previous frame.
	Delta float32
}

// Scene is one renderable state of the viewer.
type Scene interface {
	// Render handles the frame's input and draws the scene. It is called between
	// Backend.BeginFrame and Backend.EndFrame with no program bound.
	//
	// Parameters:
	//   - frame: the frame timing
	Render(frame Frame)

	// ShouldExit reports whether the scene asked to be left. Reading a true result resets
	// the request, so the scene can be entered again.
	//
	// Returns:
	//   - bool: true once after the scene asked to exit
	ShouldExit() bool

	// ID returns the scene identifier shown in the menu.
	//
	// Returns:
	//   - string: the identifier
	ID() string

	// Close releases the scene's GPU resources and subscriptions.
	Close()
}

// Host is the part of the window a scene uses.
type Host interface {
	// Input returns the keyboard and cursor state.
	Input() window.Input

	// Sizes returns the framebuffer resize channel.
	Sizes() *observable.Observable[common.Size]

	// SetCursorCaptured captures the cursor for mouse look or releases it.
	SetCursorCaptured(captured bool)

	// SetTitle replaces the window title.
	SetTitle(title string)
}

var _ Host = window.Window(nil)

// Settings are the configurable starting values of a scene.
type Settings struct {
	Fov             float32
	Near            float32
	Far             float32
	SensitivityStep int
	WalkingStep     int

	// Model is the file within the model directory shown by the models scene.
	Model string
	// Skybox holds the six cubemap faces within the texture directory, in +X, -X, +Y, -Y,
	// +Z, -Z order.
	Skybox [6]string
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		Fov:             60,
		Near:            0.1,
		Far:             100,
		SensitivityStep: 5,
		WalkingStep:     10,
		Model:           "house.glb",
		Skybox:          SkyboxFaces("skybox", "jpg"),
	}
}

// SkyboxFaces names the six faces "<dir>/right.<ext>", "left", "top", "bottom", "front" and
// "back" in cubemap order.
func SkyboxFaces(dir, ext string) [6]string {
	var faces [6]string
	for i, face := range []string{"right", "left", "top", "bottom", "front", "back"} {
		faces[i] = dir + "/" + face + "." + ext
	}
	return faces
}

// Env is everything a scene needs from the application. It is passed explicitly to every
// scene constructor.
type Env struct {
	// Ctx bounds asset reads during construction.
	Ctx context.Context
	// Binder is the GPU context programs bind on.
	Binder *shader.Binder
	// Assets resolves shader sources, textures and models.
	Assets loader.AssetManager
	// Host is the window.
	Host Host
	// Watcher, when set, hot-reloads the programs of open scenes.
	Watcher loader.Watcher
	// Settings are the starting camera and content settings.
	Settings Settings
	// Rand drives procedural placement; nil seeds a new source.
	Rand *rand.Rand
}

// Backend returns the GPU backend of the binder.
func (e Env) Backend() renderer.Backend {
	return e.Binder.Backend()
}

func (e Env) context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e Env) rand() *rand.Rand {
	if e.Rand == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e.Rand
}
