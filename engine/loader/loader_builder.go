package loader

import (
	"io/fs"
	"os"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// AssetManagerBuilderOption is a functional option for configuring an AssetManager via
// NewAssetManager.
type AssetManagerBuilderOption func(*assetManager)

// WithRoot is an option builder that sets the asset root directory on disk.
//
// Parameters:
//   - dir: the root directory
//
// Returns:
//   - AssetManagerBuilderOption: a function that applies the root option to an assetManager
func WithRoot(dir string) AssetManagerBuilderOption {
	return func(a *assetManager) {
		a.rootDir = dir
		a.root = os.DirFS(dir)
	}
}

// WithRootFS is an option builder that searches fsys instead of a directory on disk.
//
// Parameters:
//   - fsys: the root file system
//
// Returns:
//   - AssetManagerBuilderOption: a function that applies the root file system to an assetManager
func WithRootFS(fsys fs.FS) AssetManagerBuilderOption {
	return func(a *assetManager) {
		a.rootDir = ""
		a.root = fsys
	}
}

// WithShaderFallback is an option builder that sets the file system searched for shader
// sources missing from the root. Names are looked up directly, without the shader directory.
//
// Parameters:
//   - fsys: the fallback file system, e.g. the embedded default shaders
//
// Returns:
//   - AssetManagerBuilderOption: a function that applies the fallback option to an assetManager
func WithShaderFallback(fsys fs.FS) AssetManagerBuilderOption {
	return func(a *assetManager) {
		a.shaderFallback = fsys
	}
}

// WithFlipTextures is an option builder that flips decoded textures vertically.
//
// Parameters:
//   - flip: true to put the last image row first
//
// Returns:
//   - AssetManagerBuilderOption: a function that applies the flip option to an assetManager
func WithFlipTextures(flip bool) AssetManagerBuilderOption {
	return func(a *assetManager) {
		a.flipTextures = flip
	}
}

// WithWorkers is an option builder that sets the number of Prefetch workers.
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - AssetManagerBuilderOption: a function that applies the worker option to an assetManager
func WithWorkers(n int) AssetManagerBuilderOption {
	return func(a *assetManager) {
		a.workers = max(n, 1)
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - AssetManagerBuilderOption: a function that applies the model option to an assetManager
func WithModel(key string, m model.Model) AssetManagerBuilderOption {
	return func(a *assetManager) {
		a.modelCache[key] = m
	}
}
