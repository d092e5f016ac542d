package loader

import (
	"io"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfModelBackend is the modelBackend for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfModelBackend struct {
	importer gltfImporter
}

var _ modelBackend = &gltfModelBackend{}

// newGLTFModelBackend creates a new glTF model backend.
//
// Returns:
//   - modelBackend: the backend for glTF/GLB files
func newGLTFModelBackend() modelBackend {
	return &gltfModelBackend{
		importer: newGLTFImporter(),
	}
}

func (b *gltfModelBackend) Extensions() []string {
	return []string{".gltf", ".glb"}
}

func (b *gltfModelBackend) Load(fsys fs.FS, name string) (*model.ImportedModel, error) {
	return b.importer.Import(fsys, name)
}

func (b *gltfModelBackend) LoadReader(r io.Reader, binary bool) (*model.ImportedModel, error) {
	return b.importer.ImportReader(r, binary)
}
