package glm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVec3InDelta(t *testing.T, expected, actual Vec3f) {
	t.Helper()

	for idx := range expected {
		assert.InDelta(t, expected[idx], actual[idx], tol, "component %d of %v", idx, actual)
	}
}

func TestMat4Mul(t *testing.T) {
	m := TranslationMat4[float32](1, 2, 3).Mul(ScaleMat4[float32](2, 2, 2))

	// scale first, then translate
	assert.Equal(t, Vec3f{3, 4, 5}, m.TransformPoint(Vec3f{1, 1, 1}))

	assert.Equal(t, m, m.Mul(IdentityMat4[float32]()))
	assert.Equal(t, m, IdentityMat4[float32]().Mul(m))
}

func TestMat4Of(t *testing.T) {
	m := Mat4Of([4][4]float32{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})

	assert.Equal(t, Mat4f{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, m)
}

func TestLookAt(t *testing.T) {
	view := LookAt(Vec3f{0, 0, 3}, Vec3f{0, 0, 0}, Vec3f{0, 1, 0})

	// the origin ends up three units in front of the camera
	assertVec3InDelta(t, Vec3f{0, 0, -3}, view.TransformPoint(Vec3f{0, 0, 0}))
	assertVec3InDelta(t, Vec3f{1, 1, -3}, view.TransformPoint(Vec3f{1, 1, 0}))
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective[float32](DegToRad[float32](45), 16.0/9.0, 0.1, 100)

	near := proj.Transform(Vec4f{0, 0, -0.1, 1})
	far := proj.Transform(Vec4f{0, 0, -100, 1})

	assert.InDelta(t, 0, near[2]/near[3], tol)
	assert.InDelta(t, 1, far[2]/far[3], tol)
}

func TestDegToRad(t *testing.T) {
	assert.InDelta(t, 3.14159265, float64(DegToRad[float32](180)), tol)
	assert.InDelta(t, 90, RadToDeg[float64](DegToRad[float64](90)), tol)
}

func TestAABB(t *testing.T) {
	assert.True(t, EmptyAABB[float32]().IsEmpty())

	box := AABBFromPoints([]Vec3f{
		{1, -2, 0},
		{-1, 4, 2},
		{0, 0, -2},
	})

	assert.False(t, box.IsEmpty())
	assert.Equal(t, Vec3f{-1, -2, -2}, box.Min)
	assert.Equal(t, Vec3f{1, 4, 2}, box.Max)
	assert.Equal(t, Vec3f{0, 1, 0}, box.Center())
	assert.Equal(t, Vec3f{2, 6, 4}, box.Size())
}

func TestVec3(t *testing.T) {
	x := Vec3f{1, 0, 0}
	y := Vec3f{0, 1, 0}

	assert.Equal(t, Vec3f{0, 0, 1}, x.Cross(y))
	assert.Equal(t, float32(0), x.Dot(y))
	assertVec3InDelta(t, Vec3f{0.6, 0.8, 0}, Vec3f{3, 4, 0}.Normalize())
	assert.Equal(t, Vec3f{}, Vec3f{}.Normalize())
}

func TestVec2FlipV(t *testing.T) {
	assert.Equal(t, Vec2f{0.25, 0.75}, Vec2f{0.25, 0.25}.FlipV())
	assert.Equal(t, Vec2f{1, 1}, Vec2f{1, 0}.FlipV())
}
