package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/h2non/filetype"
)

// Asset sub-directories, relative to every search root.
const (
	ShaderDir  = "shaders"
	TextureDir = "textures"
	ModelDir   = "models"
)

// IncludeDir is the sub-directory of ShaderDir holding the WGSL fragments shaders include.
const IncludeDir = "include"

// ErrAssetNotFound is returned when no search root contains the requested asset.
var ErrAssetNotFound = errors.New("loader: asset not found")

// assetManager is the implementation of the AssetManager interface.
type assetManager struct {
	mu sync.RWMutex

	rootDir        string
	root           fs.FS
	shaderFallback fs.FS
	flipTextures   bool
	workers        int

	backends     []modelBackend
	textureCache map[string]common.TextureStagingData
	modelCache   map[string]model.Model

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
}

// AssetManager resolves named assets for scenes and shader programs. Shader sources are read
// from "shaders/", textures from "textures/" and models from "models/" under the root
// directory; shaders missing on disk fall back to the embedded defaults. Decoded textures and
// imported models are cached by name.
type AssetManager interface {
	shader.SourceReader

	// Root retrieves the asset root directory on disk, or "" when the root is not a directory.
	//
	// Returns:
	//   - string: the root directory
	Root() string

	// ReadAsset reads the raw bytes of an asset by its path relative to the root.
	//
	// Parameters:
	//   - ctx: cancellation for the read
	//   - name: the slash-separated asset path, e.g. "textures/grass.png"
	//
	// Returns:
	//   - []byte: the file contents
	//   - error: ErrAssetNotFound when no root holds the asset, or the read error
	ReadAsset(ctx context.Context, name string) ([]byte, error)

	// Texture decodes an image from "textures/<name>" into RGBA pixels and caches it.
	//
	// Parameters:
	//   - ctx: cancellation for the read
	//   - name: the file name within the texture directory
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels
	//   - error: error if the texture cannot be found or decoded
	Texture(ctx context.Context, name string) (common.TextureStagingData, error)

	// Cubemap decodes six face images in +X, -X, +Y, -Y, +Z, -Z order.
	//
	// Parameters:
	//   - ctx: cancellation for the reads
	//   - faces: the six file names within the texture directory
	//
	// Returns:
	//   - common.CubemapStagingData: the decoded faces
	//   - error: error if a face cannot be loaded or the faces differ in size
	Cubemap(ctx context.Context, faces [6]string) (common.CubemapStagingData, error)

	// Model imports "models/<name>" with the backend selected by its extension and caches the
	// CPU-side result. The model is not uploaded.
	//
	// Parameters:
	//   - ctx: cancellation for the read
	//   - name: the file name within the model directory
	//
	// Returns:
	//   - model.Model: the cached model
	//   - error: error if the format is unsupported or the import fails
	Model(ctx context.Context, name string) (model.Model, error)

	// ModelReader imports a self-contained model from a stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key, whose extension selects the backend
	//   - r: the reader providing model data
	//   - binary: true for the binary variant of the format, e.g. GLB
	//
	// Returns:
	//   - model.Model: the cached model
	//   - error: error if the import fails
	ModelReader(name string, r io.Reader, binary bool) (model.Model, error)

	// Prefetch decodes textures and imports models in parallel on the worker pool so that
	// later Texture and Model calls hit the cache. Names ending in a model extension are
	// imported as models, names with an image extension are decoded as textures.
	//
	// Parameters:
	//   - ctx: cancellation; pending work is skipped once it is done
	//   - names: file names within the texture or model directory
	//
	// Returns:
	//   - error: the joined errors of every failed asset
	Prefetch(ctx context.Context, names ...string) error
}

var _ AssetManager = &assetManager{}

// NewAssetManager creates a new AssetManager configured with the provided options. Without
// WithRoot or WithRootFS the current directory is the root.
//
// Parameters:
//   - options: a variadic list of AssetManagerBuilderOption functions
//
// Returns:
//   - AssetManager: the asset manager
func NewAssetManager(options ...AssetManagerBuilderOption) AssetManager {
	a := &assetManager{
		backends:     []modelBackend{newGLTFModelBackend()},
		textureCache: make(map[string]common.TextureStagingData),
		modelCache:   make(map[string]model.Model),
		workers:      max(runtime.NumCPU()-1, 1),
	}
	WithRoot(".")(a)

	for _, option := range options {
		option(a)
	}
	return a
}

func (a *assetManager) Root() string {
	return a.rootDir
}

// locate returns the first file system holding name, searching the root and then extra.
func (a *assetManager) locate(name string, extra ...fs.FS) (fs.FS, error) {
	for _, fsys := range append([]fs.FS{a.root}, extra...) {
		if fsys == nil {
			continue
		}
		if _, err := fs.Stat(fsys, name); err == nil {
			return fsys, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
}

func (a *assetManager) read(ctx context.Context, name string, extra ...fs.FS) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fsys, err := a.locate(name, extra...)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (a *assetManager) ReadAsset(ctx context.Context, name string) ([]byte, error) {
	return a.read(ctx, name)
}

func (a *assetManager) ReadShader(ctx context.Context, name string) (string, error) {
	var fallback []fs.FS
	if a.shaderFallback != nil {
		fallback = append(fallback, shaderFallbackFS{a.shaderFallback})
	}
	data, err := a.read(ctx, path.Join(ShaderDir, name), fallback...)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *assetManager) Texture(ctx context.Context, name string) (common.TextureStagingData, error) {
	a.mu.RLock()
	if cached, ok := a.textureCache[name]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	data, err := a.read(ctx, path.Join(TextureDir, name))
	if err != nil {
		return common.TextureStagingData{}, err
	}
	staging, err := common.DecodeImage(data, a.flipTextures)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("texture %s: %w", name, err)
	}

	a.mu.Lock()
	a.textureCache[name] = staging
	a.mu.Unlock()
	return staging, nil
}

func (a *assetManager) Cubemap(ctx context.Context, faces [6]string) (common.CubemapStagingData, error) {
	var cube common.CubemapStagingData
	for i, face := range faces {
		tex, err := a.Texture(ctx, face)
		if err != nil {
			return common.CubemapStagingData{}, fmt.Errorf("cubemap face %d: %w", i, err)
		}
		cube.Faces[i] = tex
	}
	if _, err := cube.Size(); err != nil {
		return common.CubemapStagingData{}, err
	}
	return cube, nil
}

// backendFor selects the model backend registered for the extension of name.
func (a *assetManager) backendFor(name string) (modelBackend, error) {
	ext := strings.ToLower(path.Ext(name))
	for _, b := range a.backends {
		for _, e := range b.Extensions() {
			if e == ext {
				return b, nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported model format: %q", ext)
}

func (a *assetManager) cachedModel(name string) (model.Model, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.modelCache[name]
	return m, ok
}

// storeModel caches m unless another caller stored one first, returning the cached model.
func (a *assetManager) storeModel(name string, m model.Model) model.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.modelCache[name]; ok {
		return existing
	}
	a.modelCache[name] = m
	return m
}

func (a *assetManager) Model(ctx context.Context, name string) (model.Model, error) {
	if cached, ok := a.cachedModel(name); ok {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backend, err := a.backendFor(name)
	if err != nil {
		return nil, err
	}
	full := path.Join(ModelDir, name)
	fsys, err := a.locate(full)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	imported, err := backend.Load(fsys, full)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	log.Printf("[Assets] imported %s: %d meshes, %d materials in %s", name, len(imported.Meshes), len(imported.Materials), time.Since(start).Round(time.Millisecond))

	return a.storeModel(name, model.NewModelFromImport(imported)), nil
}

func (a *assetManager) ModelReader(name string, r io.Reader, binary bool) (model.Model, error) {
	if cached, ok := a.cachedModel(name); ok {
		return cached, nil
	}

	backend, err := a.backendFor(name)
	if err != nil {
		return nil, err
	}
	imported, err := backend.LoadReader(r, binary)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return a.storeModel(name, model.NewModelFromImport(imported)), nil
}

func (a *assetManager) Prefetch(ctx context.Context, names ...string) error {
	a.poolOnce.Do(func() {
		a.pool = worker.NewDynamicWorkerPool(a.workers, 256, 1*time.Second)
	})

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for id, name := range names {
		var load func() error
		switch {
		case a.isModel(name):
			load = func() error {
				_, err := a.Model(ctx, name)
				return err
			}
		case filetype.IsSupported(strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")):
			load = func() error {
				_, err := a.Texture(ctx, name)
				return err
			}
		default:
			fail(fmt.Errorf("prefetch %s: unsupported asset type", name))
			continue
		}

		wg.Add(1)
		a.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if err := load(); err != nil {
					fail(fmt.Errorf("prefetch %s: %w", name, err))
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (a *assetManager) isModel(name string) bool {
	_, err := a.backendFor(name)
	return err == nil
}

// shaderFallbackFS maps "shaders/<name>" lookups onto a flat fallback file system.
type shaderFallbackFS struct {
	fsys fs.FS
}

func (s shaderFallbackFS) Open(name string) (fs.File, error) {
	rel, ok := strings.CutPrefix(name, ShaderDir+"/")
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return s.fsys.Open(rel)
}
