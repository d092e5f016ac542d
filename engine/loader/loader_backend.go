package loader

import (
	"io"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// modelBackend defines the interface for importing models of one file format.
// Concrete implementations (e.g., gltfModelBackend) handle format-specific details.
type modelBackend interface {
	// Extensions lists the lower-case file extensions, with the dot, the backend imports.
	//
	// Returns:
	//   - []string: the extensions
	Extensions() []string

	// Load imports the model stored at name in fsys.
	//
	// Parameters:
	//   - fsys: the file system holding the model and its side files
	//   - name: slash-separated path of the model within fsys
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(fsys fs.FS, name string) (*model.ImportedModel, error)

	// LoadReader imports a self-contained model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - binary: true if the reader provides the binary variant of the format
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(r io.Reader, binary bool) (*model.ImportedModel, error)
}
