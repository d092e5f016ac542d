package scene

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

const (
	minFov  = 30
	maxFov  = 130
	fovStep = 5
)

// Content is the scene-specific part of a Basic scene.
type Content interface {
	// RenderScene draws one frame. It runs every frame in both menu and scene mode, after
	// input has been handled.
	//
	// Parameters:
	//   - frame: the frame timing
	RenderScene(frame Frame)
}

// MenuHandler is implemented by Content that edits its own parameters from the keyboard while
// the menu is open.
type MenuHandler interface {
	// HandleMenuKeys reacts to the keys pressed this frame.
	//
	// Parameters:
	//   - input: the input state
	//
	// Returns:
	//   - bool: true if a parameter changed
	HandleMenuKeys(input window.Input) bool
}

// StatusReporter is implemented by Content that adds its state to the window title.
type StatusReporter interface {
	// Status returns a short description of the scene parameters.
	Status() string
}

// observed is a program that follows a camera and projection and can be hot-reloaded.
type observed interface {
	loader.Reloadable
	AttachCamera(channel *observable.Observable[camera.Properties])
	AttachProjection(channel *observable.Observable[common.Mat4])
	Close()
}

// Basic is a first-person scene. It starts in menu mode with the cursor released; ESC toggles
// between menu and scene mode. In scene mode WASD walks and the mouse turns the camera. In
// menu mode Up/Down change the sensitivity step, Right/Left the walking step, PageUp/PageDown
// the field of view, and Backspace leaves the scene.
type Basic struct {
	env        Env
	id         string
	content    Content
	camera     camera.Camera
	controller camera.Controller

	active        bool
	inMenu        bool
	exitRequested bool
	closed        bool

	programs []loader.Reloadable
	closers  []func()
}

var _ Scene = &Basic{}

// NewBasic creates a Basic scene drawing content. The camera's projection follows the host's
// resize channel from the start.
//
// Parameters:
//   - env: the application environment
//   - id: the scene identifier
//   - content: the scene-specific drawing
//   - options: functional options to configure the scene
//
// Returns:
//   - *Basic: the scene
func NewBasic(env Env, id string, content Content, options ...BasicBuilderOption) *Basic {
	if content == nil {
		panic(fmt.Sprintf("scene: %s has no content", id))
	}
	cfg := basicConfig{}
	for _, option := range options {
		option(&cfg)
	}

	s := env.Settings
	projection := camera.NewProjection(
		camera.WithFov(common.Clamp(common.Coalesce(s.Fov, 60), minFov, maxFov)),
		camera.WithNear(common.Coalesce(s.Near, 0.1)),
		camera.WithFar(common.Coalesce(s.Far, 100)),
	)
	projection.AttachTo(env.Host.Sizes())

	cam := camera.NewCamera(append([]camera.CameraBuilderOption{camera.WithProjection(projection)}, cfg.cameraOptions...)...)
	b := &Basic{
		env:     env,
		id:      id,
		content: content,
		camera:  cam,
		controller: camera.NewController(cam, env.Host.Input(),
			camera.WithSensitivityStep(s.SensitivityStep),
			camera.WithWalkingStep(s.WalkingStep),
		),
		inMenu: true,
	}
	return b
}

// Camera returns the scene camera.
func (b *Basic) Camera() camera.Camera {
	return b.camera
}

// Controller returns the first-person controller driving the camera.
func (b *Basic) Controller() camera.Controller {
	return b.controller
}

// Env returns the environment the scene was created with.
func (b *Basic) Env() Env {
	return b.env
}

// InMenu reports whether the scene is in menu mode.
func (b *Basic) InMenu() bool {
	return b.inMenu
}

// Observe subscribes p to the scene camera and projection and tracks it for hot reload and
// Close.
//
// Parameters:
//   - p: the program
func (b *Basic) Observe(p observed) {
	p.AttachCamera(b.camera.Channel())
	p.AttachProjection(b.camera.Projection().Channel())
	b.Track(p)
}

// Track registers p for hot reload and closes it with the scene.
//
// Parameters:
//   - p: the program
func (b *Basic) Track(p interface {
	loader.Reloadable
	Close()
}) {
	b.programs = append(b.programs, p)
	if b.env.Watcher != nil {
		b.env.Watcher.Add(p)
	}
	b.OnClose(p.Close)
}

// OnClose registers fn to run on Close. Functions run in reverse registration order.
//
// Parameters:
//   - fn: the release function
func (b *Basic) OnClose(fn func()) {
	b.closers = append(b.closers, fn)
}

// UploadMesh creates a GPU mesh released with the scene.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - renderer.MeshID: the GPU mesh
//   - error: error if the mesh cannot be created
func (b *Basic) UploadMesh(m model.Mesh) (renderer.MeshID, error) {
	backend := b.env.Backend()
	id, err := backend.CreateMesh(m.Name, model.MarshalVertices(m.Vertices), m.Indices)
	if err != nil {
		return 0, fmt.Errorf("failed to upload mesh %s: %w", m.Name, err)
	}
	b.OnClose(func() { backend.ReleaseMesh(id) })
	return id, nil
}

// UploadTexture decodes "textures/<name>" and creates a GPU texture released with the scene.
//
// Parameters:
//   - name: the file within the texture directory
//
// Returns:
//   - renderer.TextureID: the GPU texture
//   - error: error if the texture cannot be loaded or created
func (b *Basic) UploadTexture(name string) (renderer.TextureID, error) {
	data, err := b.env.Assets.Texture(b.env.context(), name)
	if err != nil {
		return 0, err
	}
	backend := b.env.Backend()
	id, err := backend.CreateTexture(name, data)
	if err != nil {
		return 0, fmt.Errorf("failed to create texture %s: %w", name, err)
	}
	b.OnClose(func() { backend.ReleaseTexture(id) })
	return id, nil
}

// UploadCubemap decodes six faces and creates a GPU cubemap released with the scene.
//
// Parameters:
//   - faces: the files within the texture directory, in +X, -X, +Y, -Y, +Z, -Z order
//
// Returns:
//   - renderer.TextureID: the GPU cubemap
//   - error: error if a face cannot be loaded or the cubemap cannot be created
func (b *Basic) UploadCubemap(faces [6]string) (renderer.TextureID, error) {
	data, err := b.env.Assets.Cubemap(b.env.context(), faces)
	if err != nil {
		return 0, err
	}
	backend := b.env.Backend()
	id, err := backend.CreateCubemap(faces[0], data)
	if err != nil {
		return 0, fmt.Errorf("failed to create cubemap %s: %w", faces[0], err)
	}
	b.OnClose(func() { backend.ReleaseTexture(id) })
	return id, nil
}

func (b *Basic) Render(frame Frame) {
	if b.closed {
		panic(fmt.Sprintf("scene: render of closed scene %s", b.id))
	}
	if !b.active {
		b.active = true
		b.showMenu()
	}

	input := b.env.Host.Input()
	if b.inMenu {
		b.handleMenuKeys(input)
	} else {
		b.controller.Update(frame.Delta)
		if input.WasPressed(common.KeyEsc) {
			b.showMenu()
		}
	}
	b.content.RenderScene(frame)
}

func (b *Basic) handleMenuKeys(input window.Input) {
	if input.WasPressed(common.KeyEsc) {
		b.hideMenu()
		return
	}
	if input.WasPressed(common.KeyBackspace) {
		b.Exit()
		return
	}

	changed := false
	step := func(key common.Key, delta int, get func() int, set func(int)) {
		if input.WasPressed(key) {
			set(get() + delta)
			changed = true
		}
	}
	c := b.controller
	step(common.KeyUp, 1, c.SensitivityStep, c.SetSensitivityStep)
	step(common.KeyDown, -1, c.SensitivityStep, c.SetSensitivityStep)
	step(common.KeyRight, 1, c.WalkingStep, c.SetWalkingStep)
	step(common.KeyLeft, -1, c.WalkingStep, c.SetWalkingStep)

	projection := b.camera.Projection()
	fov := func() int { return int(projection.Fov()) }
	setFov := func(v int) { projection.SetFov(common.Clamp(float32(v), minFov, maxFov)) }
	step(common.KeyPageUp, fovStep, fov, setFov)
	step(common.KeyPageDown, -fovStep, fov, setFov)

	if h, ok := b.content.(MenuHandler); ok {
		changed = h.HandleMenuKeys(input) || changed
	}
	if changed {
		b.updateTitle()
	}
}

func (b *Basic) showMenu() {
	b.inMenu = true
	b.env.Host.SetCursorCaptured(false)
	b.updateTitle()
}

func (b *Basic) hideMenu() {
	b.inMenu = false
	b.env.Host.SetCursorCaptured(true)
	b.camera.ResetMouse()
	b.updateTitle()
}

func (b *Basic) updateTitle() {
	parts := []string{"oxy-viewer", b.id}
	if b.inMenu {
		parts = append(parts, fmt.Sprintf("menu: ESC resume, Backspace exit | sens %d walk %d fov %.0f",
			b.controller.SensitivityStep(), b.controller.WalkingStep(), b.camera.Projection().Fov()))
	}
	if r, ok := b.content.(StatusReporter); ok {
		if status := r.Status(); status != "" {
			parts = append(parts, status)
		}
	}
	b.env.Host.SetTitle(strings.Join(parts, " | "))
}

// Exit asks to leave the scene; the next ShouldExit reports it.
func (b *Basic) Exit() {
	b.exitRequested = true
}

func (b *Basic) ShouldExit() bool {
	if !b.exitRequested {
		return false
	}
	b.exitRequested = false
	b.active = false
	return true
}

func (b *Basic) ID() string {
	return b.id
}

func (b *Basic) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.env.Watcher != nil {
		for _, p := range b.programs {
			b.env.Watcher.Remove(p)
		}
	}
	for _, fn := range slices.Backward(b.closers) {
		fn()
	}
	b.closers = nil
	b.programs = nil
	b.camera.Close()
	log.Printf("[Scene] closed %s", b.id)
}
