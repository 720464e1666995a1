package pulse

import (
	"testing"
	"unsafe"

	"github.com/oliverbestmann/modelview/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDraws(t *testing.T) {
	meshes := []model.Mesh{
		{BaseVertex: 0, BaseIndex: 0, IndexCount: 36, MaterialIndex: 1},
		{BaseVertex: 24, BaseIndex: 36, IndexCount: 0, MaterialIndex: 0},
		{BaseVertex: 24, BaseIndex: 36, IndexCount: 6, MaterialIndex: 0},
	}

	draws, err := planDraws(meshes, 2)
	require.NoError(t, err)

	assert.Equal(t, []drawCommand{
		{IndexCount: 36, FirstIndex: 0, BaseVertex: 0, Material: 1},
		{IndexCount: 6, FirstIndex: 36, BaseVertex: 24, Material: 0},
	}, draws)
}

func TestPlanDrawsRejectsBadMaterial(t *testing.T) {
	meshes := []model.Mesh{{IndexCount: 3, MaterialIndex: 2}}

	_, err := planDraws(meshes, 2)
	assert.ErrorIs(t, err, model.ErrBadMaterial)
}

func TestMeshUniformsLayout(t *testing.T) {
	// three mat4x4<f32> without padding
	assert.Equal(t, uintptr(3*64), unsafe.Sizeof(meshUniforms{}))

	var uniforms meshUniforms
	assert.Len(t, uniforms.bytes(), 3*64)
}
