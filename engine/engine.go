package engine

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// engine implements the Engine interface.
// Owns the window, the GPU backend and everything the scenes share, and drives the frame loop.
type engine struct {
	cfg config.Config

	window   window.Window
	backend  renderer.Backend
	binder   *shader.Binder
	assets   loader.AssetManager
	watcher  loader.Watcher
	profiler *profiler.Profiler
	switcher *scene.Switcher
	entries  []scene.Entry
	rng      *rand.Rand

	resizeSub *observable.Subscription[common.Size]

	// closers release what NewEngine created, run in reverse order by Close.
	closers []func()

	quitChannel chan struct{}
	quitOnce    sync.Once
	closeOnce   sync.Once
}

// Engine is the application context of the viewer. It is created once, passed explicitly to
// the scenes through scene.Env, and runs a single cooperative loop on the calling goroutine:
// poll input, reload changed shaders, render the current scene, present.
type Engine interface {
	// Window returns the window the engine renders into.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Backend returns the GPU backend.
	//
	// Returns:
	//   - renderer.Backend: the backend
	Backend() renderer.Backend

	// Assets returns the asset manager shared by the scenes.
	//
	// Returns:
	//   - loader.AssetManager: the asset manager
	Assets() loader.AssetManager

	// Config returns the configuration the engine was created with.
	//
	// Returns:
	//   - config.Config: the configuration
	Config() config.Config

	// Switcher returns the scene menu driven by Run.
	//
	// Returns:
	//   - *scene.Switcher: the menu
	Switcher() *scene.Switcher

	// Run drives frames until the window closes, the menu exits, ctx is cancelled or Quit is
	// called. When the configuration names a start scene it is opened first.
	//
	// Parameters:
	//   - ctx: cancellation for the loop and for asset reads during shader reloads
	//
	// Returns:
	//   - error: error if the start scene cannot be opened
	Run(ctx context.Context) error

	// Quit makes Run return after the current frame. Safe to call multiple times and from any
	// goroutine.
	Quit()

	// Close closes every scene and releases what the engine created in reverse creation order.
	// Calling Close twice is a no-op.
	Close()
}

var _ Engine = &engine{}

// NewEngine creates the window, the GPU backend, the asset manager and, when hot reload is
// configured, the shader watcher. Components supplied by options are used instead of created,
// and are still released by Close.
//
// Parameters:
//   - cfg: the configuration
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine
//   - error: error if a component cannot be created
func NewEngine(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	e := &engine{
		cfg:         cfg,
		entries:     scene.Catalog(),
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.init(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *engine) init() error {
	cfg := e.cfg

	if e.window == nil {
		w, err := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		if err != nil {
			return err
		}
		e.window = w
	}
	e.onClose(func() {
		if err := e.window.Close(); err != nil {
			log.Printf("[Window] close failed: %v", err)
		}
	})

	if e.backend == nil {
		size := e.window.Size()
		b, err := renderer.NewBackend(e.window.SurfaceDescriptor(), size.Width, size.Height, backendOptions(cfg.Window)...)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		e.backend = b
	}
	e.onClose(e.backend.Release)
	e.binder = shader.NewBinder(e.backend)

	e.resizeSub = e.window.Sizes().AttachFunc(func(size common.Size) {
		e.backend.Resize(size.Width, size.Height)
	})
	e.onClose(e.resizeSub.Detach)

	if e.assets == nil {
		shaders, err := fs.Sub(programs.Shaders, programs.ShaderDir)
		if err != nil {
			return fmt.Errorf("failed to open embedded shaders: %w", err)
		}
		e.assets = loader.NewAssetManager(
			loader.WithRoot(cfg.Assets.Root),
			loader.WithShaderFallback(shaders),
			loader.WithWorkers(cfg.Assets.Workers),
		)
	}

	if cfg.Assets.HotReload && e.watcher == nil {
		dir := filepath.Join(cfg.Assets.Root, loader.ShaderDir)
		w, err := loader.NewWatcher(dir)
		if err != nil {
			log.Printf("[Watcher] hot reload disabled: %v", err)
		} else {
			e.watcher = w
		}
	}
	if e.watcher != nil {
		e.onClose(func() {
			if err := e.watcher.Close(); err != nil {
				log.Printf("[Watcher] close failed: %v", err)
			}
		})
	}

	if cfg.Profiler.Enabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithInterval(time.Duration(cfg.Profiler.Interval)))
	}

	e.switcher = scene.NewSwitcher(scene.Env{
		Ctx:      context.Background(),
		Binder:   e.binder,
		Assets:   e.assets,
		Host:     e.window,
		Watcher:  e.watcher,
		Settings: sceneSettings(cfg),
		Rand:     e.rng,
	}, e.entries...)
	e.onClose(e.switcher.Close)

	log.Printf("[Engine] ready: %dx%d, assets in %q, hot reload %t", cfg.Window.Width, cfg.Window.Height, cfg.Assets.Root, e.watcher != nil)
	return nil
}

func (e *engine) onClose(fn func()) {
	e.closers = append(e.closers, fn)
}

// backendOptions maps the window configuration onto renderer options.
func backendOptions(cfg config.Window) []renderer.BackendBuilderOption {
	present := renderer.PresentModeUncapped
	if cfg.VSync {
		present = renderer.PresentModeVSync
	}
	msaa := renderer.MSAAOff
	if cfg.MSAA == 4 {
		msaa = renderer.MSAA4x
	}
	return []renderer.BackendBuilderOption{
		renderer.WithPresentMode(present),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.SoftwareRenderer),
	}
}

// sceneSettings maps the camera and asset configuration onto the scene settings.
func sceneSettings(cfg config.Config) scene.Settings {
	return scene.Settings{
		Fov:             cfg.Camera.Fov,
		Near:            cfg.Camera.Near,
		Far:             cfg.Camera.Far,
		SensitivityStep: cfg.Camera.SensitivityStep,
		WalkingStep:     cfg.Camera.WalkingStep,
		Model:           cfg.Assets.Model,
		Skybox:          scene.SkyboxFaces(cfg.Assets.Skybox, cfg.Assets.SkyboxExt),
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Backend() renderer.Backend {
	return e.backend
}

func (e *engine) Assets() loader.AssetManager {
	return e.assets
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) Switcher() *scene.Switcher {
	return e.switcher
}

func (e *engine) Run(ctx context.Context) error {
	if e.cfg.Scene != "" {
		if err := e.switcher.Select(e.cfg.Scene); err != nil {
			return fmt.Errorf("failed to open start scene: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Engine] stopping: %v", context.Cause(ctx))
			return nil
		case <-e.quitChannel:
			return nil
		default:
		}
		if !e.window.IsRunning() {
			return nil
		}

		if !e.frame(ctx) {
			e.window.RequestClose()
			return nil
		}
	}
}

// frame runs one iteration of the loop and reports whether the menu wants to keep running.
func (e *engine) frame(ctx context.Context) bool {
	dt := e.window.PollEvents()
	if e.watcher != nil {
		e.watcher.Flush(ctx)
	}

	if err := e.backend.BeginFrame(); err != nil {
		log.Printf("[Renderer] frame skipped: %v", err)
		return true
	}
	e.switcher.Render(scene.Frame{Delta: dt})
	e.backend.EndFrame()

	if e.profiler != nil {
		e.profiler.Tick()
	}
	return !e.switcher.ShouldExit()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Close() {
	e.closeOnce.Do(func() {
		for _, fn := range slices.Backward(e.closers) {
			fn()
		}
		e.closers = nil
	})
}
