package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPipelineForDepthAndCull(t *testing.T) {
	opaque := pipelineFor(ProgramDescriptor{Label: "lights"}, wgpu.TextureFormatBGRA8UnormSrgb, MSAA4x)
	assert.True(t, opaque.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, opaque.DepthCompare())
	assert.Equal(t, wgpu.CullModeNone, opaque.CullMode())
	assert.Equal(t, uint32(4), opaque.SampleCount())

	sky := pipelineFor(ProgramDescriptor{Label: "skybox", Depth: DepthReadOnly, Cull: CullBack}, wgpu.TextureFormatBGRA8UnormSrgb, MSAAOff)
	assert.False(t, sky.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, sky.DepthCompare())
	assert.Equal(t, wgpu.CullModeBack, sky.CullMode())
	assert.Equal(t, uint32(1), sky.SampleCount())
}
