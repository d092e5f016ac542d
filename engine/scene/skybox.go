package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
)

// brightSkybox is the daylight cubemap of the texture demo.
var brightSkybox = SkyboxFaces("skybox-bright", "jpg")

// LoadSkybox uploads a cube and the cubemap faces and loads a skybox program following the
// scene camera. Everything is released with the scene.
//
// Parameters:
//   - faces: the cubemap faces within the texture directory
//
// Returns:
//   - *programs.Skybox: the skybox; Render draws it
//   - error: error if a face, the mesh or the program cannot be created
func (b *Basic) LoadSkybox(faces [6]string) (*programs.Skybox, error) {
	cube, err := b.UploadMesh(model.Cube())
	if err != nil {
		return nil, err
	}
	cubemap, err := b.UploadCubemap(faces)
	if err != nil {
		return nil, err
	}
	env := b.env
	skybox, err := programs.LoadSkybox(env.context(), env.Binder, env.Assets, cube, cubemap)
	if err != nil {
		return nil, err
	}
	b.Observe(skybox)
	return skybox, nil
}
