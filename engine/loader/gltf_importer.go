package loader

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a static glTF/GLB import.
// It combines the parser and the mesh and material extractors to produce an ImportedModel
// whose meshes are already placed by the node hierarchy.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts its meshes and materials.
	//
	// Parameters:
	//   - fsys: the file system holding the document
	//   - name: slash-separated path of the document within fsys
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	Import(fsys fs.FS, name string) (*model.ImportedModel, error)

	// ImportReader loads a self-contained glTF document from a reader.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(fsys fs.FS, name string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(fsys, name); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return imp.importFromParser(parser, name)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, "")
}

// importFromParser extracts every mesh instance reachable from the default scene. When the
// document has no scene graph, each mesh is imported once in its local space.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackPath string) (*model.ImportedModel, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	meshExtractor := newGLTFMeshExtractor(parser)
	cache := make(map[int][]model.Mesh)
	extract := func(meshIndex int) ([]model.Mesh, error) {
		if m, ok := cache[meshIndex]; ok {
			return m, nil
		}
		m, err := meshExtractor.ExtractMesh(meshIndex)
		if err != nil {
			return nil, fmt.Errorf("mesh extraction failed: %w", err)
		}
		cache[meshIndex] = m
		return m, nil
	}

	var meshes []model.Mesh
	roots := gltfSceneRoots(doc)
	if len(roots) == 0 {
		for i := range doc.Meshes {
			m, err := extract(i)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, m...)
		}
	}

	visited := make(map[int]bool)
	var walk func(node int, parent common.Mat4) error
	walk = func(node int, parent common.Mat4) error {
		if node < 0 || node >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", node)
		}
		if visited[node] {
			return fmt.Errorf("node %d appears twice in the hierarchy", node)
		}
		visited[node] = true

		n := &doc.Nodes[node]
		world := parent.Mul(gltfNodeMatrix(n))
		if n.Mesh != nil {
			local, err := extract(*n.Mesh)
			if err != nil {
				return err
			}
			for _, m := range local {
				placed := m.Transformed(world)
				if n.Name != "" {
					placed.Name = n.Name + "/" + m.Name
				}
				meshes = append(meshes, placed)
			}
		}
		for _, child := range n.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range roots {
		if err := walk(root, common.Ident4()); err != nil {
			return nil, err
		}
	}

	for _, m := range meshes {
		if m.MaterialIndex >= len(doc.Materials) {
			return nil, fmt.Errorf("mesh %q references material %d of %d", m.Name, m.MaterialIndex, len(doc.Materials))
		}
	}

	materials, err := newGLTFMaterialExtractor(parser).ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}

	return &model.ImportedModel{
		Name:      gltfExtractModelName(doc, fallbackPath),
		Meshes:    meshes,
		Materials: materials,
	}, nil
}

// --- Helper Functions ---

// gltfSceneRoots returns the root nodes of the default scene, falling back to the first scene.
func gltfSceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	idx := 0
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		idx = *doc.Scene
	}
	return doc.Scenes[idx].Nodes
}

// gltfNodeMatrix returns the local transform of a node: its matrix when present, otherwise
// T * R * S from the translation, rotation quaternion and scale.
func gltfNodeMatrix(n *gltfNode) common.Mat4 {
	if n.Matrix != nil {
		return common.Mat4(*n.Matrix)
	}

	m := common.Ident4()
	if n.Translation != nil {
		m = m.Mul(common.TranslationMatrix(common.Vec3(*n.Translation)))
	}
	if n.Rotation != nil {
		m = m.Mul(quaternionMatrix(*n.Rotation))
	}
	if n.Scale != nil {
		m = m.Mul(common.ScaleMatrix(common.Vec3(*n.Scale)))
	}
	return m
}

// quaternionMatrix converts a unit quaternion (x, y, z, w) into a rotation matrix.
func quaternionMatrix(q [4]float32) common.Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	m := common.Ident4()
	m[0] = 1 - 2*(y*y+z*z)
	m[1] = 2 * (x*y + z*w)
	m[2] = 2 * (x*z - y*w)
	m[4] = 2 * (x*y - z*w)
	m[5] = 1 - 2*(x*x+z*z)
	m[6] = 2 * (y*z + x*w)
	m[8] = 2 * (x*z + y*w)
	m[9] = 2 * (y*z - x*w)
	m[10] = 1 - 2*(x*x+y*y)
	return m
}

// gltfExtractModelName derives a model name from the default scene or the file name.
func gltfExtractModelName(doc *gltfDocument, fallbackPath string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}

	if fallbackPath != "" {
		base := path.Base(fallbackPath)
		return strings.TrimSuffix(base, path.Ext(base))
	}

	return "unnamed_model"
}
