package loader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Reloadable is a shader program that can re-read its sources, such as *shader.Program or
// the wrappers in the programs package.
type Reloadable interface {
	// Sources retrieves the asset names of the vertex and fragment shaders.
	//
	// Returns:
	//   - vertexName: the vertex shader name
	//   - fragmentName: the fragment shader name
	Sources() (vertexName, fragmentName string)

	// ReloadSources re-reads and recompiles the program; on error the old program stays.
	//
	// Parameters:
	//   - ctx: cancellation for the reads
	//
	// Returns:
	//   - error: error if reading or compiling fails
	ReloadSources(ctx context.Context) error
}

// watcher is the implementation of the Watcher interface.
type watcher struct {
	dir  string
	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	changed  map[string]bool
	programs []Reloadable
}

// Watcher observes a shader directory and reloads the programs that read a changed file. The
// IncludeDir subdirectory is watched as well, and a changed include reloads every program.
// File events arrive on a background goroutine, but programs are only reloaded from Flush,
// which the render loop calls on the thread that owns the GPU context.
type Watcher interface {
	// Add registers a program for reloading.
	//
	// Parameters:
	//   - r: the program
	Add(r Reloadable)

	// Remove unregisters a program. Unknown programs are ignored.
	//
	// Parameters:
	//   - r: the program
	Remove(r Reloadable)

	// Flush reloads every registered program whose vertex or fragment source changed since the
	// previous Flush, or every program when an include changed. Failures are logged and the old
	// program keeps running.
	//
	// Parameters:
	//   - ctx: cancellation for the reloads
	//
	// Returns:
	//   - int: the number of programs reloaded successfully
	Flush(ctx context.Context) int

	// Close stops watching. Flush keeps working but sees no further changes.
	//
	// Returns:
	//   - error: error from closing the underlying watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching dir, and dir/IncludeDir when it exists, for shader changes.
//
// Parameters:
//   - dir: the directory holding the shader sources
//
// Returns:
//   - Watcher: the watcher
//   - error: error if the directory cannot be watched
func NewWatcher(dir string) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	includes := filepath.Join(dir, IncludeDir)
	if info, err := os.Stat(includes); err == nil && info.IsDir() {
		if err := fsw.Add(includes); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", includes, err)
		}
	}

	w := &watcher{
		dir:     dir,
		fsw:     fsw,
		done:    make(chan struct{}),
		changed: make(map[string]bool),
	}
	w.wg.Add(1)
	go w.run()
	log.Printf("[Watcher] watching %s", dir)
	return w, nil
}

func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mark(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[Watcher] %v", err)
		}
	}
}

// mark records a changed file by its slash-separated path relative to the watched directory.
func (w *watcher) mark(name string) {
	if rel, err := filepath.Rel(w.dir, name); err == nil {
		name = rel
	}
	w.mu.Lock()
	w.changed[filepath.ToSlash(name)] = true
	w.mu.Unlock()
}

func (w *watcher) Add(r Reloadable) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.programs = append(w.programs, r)
}

func (w *watcher) Remove(r Reloadable) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := slices.Index(w.programs, r); i >= 0 {
		w.programs = slices.Delete(w.programs, i, i+1)
	}
}

func (w *watcher) Flush(ctx context.Context) int {
	w.mu.Lock()
	if len(w.changed) == 0 {
		w.mu.Unlock()
		return 0
	}
	changed := w.changed
	w.changed = make(map[string]bool)
	programs := slices.Clone(w.programs)
	w.mu.Unlock()

	all := false
	for name := range changed {
		if strings.HasPrefix(name, IncludeDir+"/") {
			all = true
			break
		}
	}

	reloaded := 0
	for _, p := range programs {
		vs, fs := p.Sources()
		if !all && !changed[vs] && !changed[fs] {
			continue
		}
		if err := p.ReloadSources(ctx); err != nil {
			log.Printf("[Watcher] keeping previous %s + %s: %v", vs, fs, err)
			continue
		}
		log.Printf("[Watcher] reloaded %s + %s", vs, fs)
		reloaded++
	}
	return reloaded
}

func (w *watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
