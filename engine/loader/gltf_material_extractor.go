package loader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor defines the interface for extracting materials from a parsed glTF
// document. Metallic-roughness parameters are approximated by Phong terms and the base color
// texture becomes the diffuse texture.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index, decoding its base color texture.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - material.Material: the extracted material
	//   - error: error if extraction or texture decoding fails
	ExtractMaterial(materialIndex int) (material.Material, error)

	// ExtractAllMaterials extracts all materials from the document.
	//
	// Returns:
	//   - []material.Material: all extracted materials in document order
	//   - error: error if extraction fails
	ExtractAllMaterials() ([]material.Material, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (material.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}

	mat := &doc.Materials[materialIndex]

	// glTF defaults: white base color, fully metallic and fully rough.
	base := common.Vec4{1, 1, 1, 1}
	metallic, roughness := float32(1), float32(1)
	var diffuseTexture *common.TextureStagingData

	if pbr := mat.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			base = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			metallic = common.Clamp(*pbr.MetallicFactor, 0, 1)
		}
		if pbr.RoughnessFactor != nil {
			roughness = common.Clamp(*pbr.RoughnessFactor, 0, 1)
		}
		if pbr.BaseColorTexture != nil {
			tex, err := e.loadTexture(pbr.BaseColorTexture.Index)
			if err != nil {
				return nil, fmt.Errorf("material %q: base color texture: %w", mat.Name, err)
			}
			diffuseTexture = tex
		}
	}

	ambient, specular, shininess := phongFromPBR(base, metallic, roughness)
	return material.NewMaterial(
		material.WithName(common.Coalesce(mat.Name, fmt.Sprintf("material_%d", materialIndex))),
		material.WithAmbient(ambient),
		material.WithDiffuse(base),
		material.WithSpecular(specular),
		material.WithShininess(shininess),
		material.WithDiffuseTexture(diffuseTexture),
	), nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]material.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	materials := make([]material.Material, len(doc.Materials))
	for i := range doc.Materials {
		mat, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		materials[i] = mat
	}

	return materials, nil
}

// phongFromPBR approximates metallic-roughness parameters with Phong terms: ambient is a tenth
// of the base color, specular blends from a 4% dielectric grey to the base color by
// metalness and fades with roughness, and shininess spans 2 (rough) to 128 (smooth).
func phongFromPBR(base common.Vec4, metallic, roughness float32) (ambient, specular common.Vec4, shininess float32) {
	gloss := 1 - roughness
	ambient = common.Vec4{base[0] * 0.1, base[1] * 0.1, base[2] * 0.1, 1}
	for i := range 3 {
		specular[i] = (0.04 + (base[i]-0.04)*metallic) * gloss
	}
	specular[3] = 1
	shininess = 2 + gloss*gloss*126
	return ambient, specular, shininess
}

// loadTexture resolves a glTF texture index and decodes its image. Images may be embedded in
// a buffer view (GLB), inlined as a data URI, or stored next to the document. glTF places the
// UV origin at the top-left like WebGPU, so rows are not flipped.
func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (*common.TextureStagingData, error) {
	doc := e.parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}

	tex := &doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil
	}

	imageIndex := *tex.Source
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imageIndex)
	}
	img := &doc.Images[imageIndex]

	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		data, err = e.parser.ReadBufferView(*img.BufferView)
	case strings.HasPrefix(img.URI, "data:"):
		data, _, err = gltfDecodeDataURI(img.URI)
	case img.URI != "":
		data, err = e.parser.ReadFile(img.URI)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %d: %w", imageIndex, err)
	}

	staging, err := common.DecodeImage(data, false)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %d: %w", imageIndex, err)
	}
	return &staging, nil
}
