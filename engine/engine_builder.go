package engine

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBackend sets the GPU backend instead of creating a wgpu backend for the window surface.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(b renderer.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.backend = b
	}
}

// WithAssets sets the asset manager instead of one rooted at the configured asset directory.
//
// Parameters:
//   - a: the asset manager
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAssets(a loader.AssetManager) EngineBuilderOption {
	return func(e *engine) {
		e.assets = a
	}
}

// WithWatcher sets the shader watcher regardless of the hot reload setting.
//
// Parameters:
//   - w: the watcher
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWatcher(w loader.Watcher) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
	}
}

// WithProfiler enables profiling with a pre-configured profiler.
//
// Parameters:
//   - p: the profiler ticked once per frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithScenes replaces the scene catalog shown by the menu.
//
// Parameters:
//   - entries: the scenes in menu order
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScenes(entries ...scene.Entry) EngineBuilderOption {
	return func(e *engine) {
		e.entries = entries
	}
}

// WithRand sets the random source of procedural scene content, making it reproducible.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRand(rng *rand.Rand) EngineBuilderOption {
	return func(e *engine) {
		e.rng = rng
	}
}
