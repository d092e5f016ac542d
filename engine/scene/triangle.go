package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
)

const TriangleID = "basic-triangle"

// triangle draws one normal-colored triangle at the origin with the basic program. It is the
// smallest scene and checks the camera, projection and model matrix path end to end.
type triangle struct {
	*Basic
	program *programs.Basic
	mesh    renderer.MeshID
}

// NewTriangle creates the triangle scene.
//
// Parameters:
//   - env: the application environment
//
// Returns:
//   - Scene: the scene
//   - error: error if the program or mesh cannot be created
func NewTriangle(env Env) (Scene, error) {
	s := &triangle{}
	s.Basic = NewBasic(env, TriangleID, s)
	if err := s.init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene %s: %w", TriangleID, err)
	}
	return s, nil
}

func (s *triangle) init() error {
	env := s.Env()
	var err error
	if s.mesh, err = s.UploadMesh(model.Triangle()); err != nil {
		return err
	}
	if s.program, err = programs.LoadBasic(env.context(), env.Binder, env.Assets); err != nil {
		return err
	}
	s.Observe(s.program)
	return nil
}

func (s *triangle) RenderScene(Frame) {
	s.program.Bind()
	s.program.ModelMatrix(common.Ident4())
	s.program.Draw(s.mesh)
	s.program.Unbind()
}
