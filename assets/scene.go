// Package assets describes an imported 3D scene and converts model files
// into that description. A Scene is read-only input for staging: it is
// never handed to the GPU directly.
package assets

import (
	"github.com/oliverbestmann/modelview/glm"
)

// Face is a list of vertex indices into the Positions of its mesh.
// After import every face is a triangle.
type Face []uint32

type Mesh struct {
	Name string

	Positions []glm.Vec3f

	// Normals and TexCoords are either empty or have the same length as Positions.
	Normals   []glm.Vec3f
	TexCoords []glm.Vec2f

	Faces []Face

	// MaterialIndex is an index into Scene.Materials
	MaterialIndex uint32
}

type Material struct {
	Name string

	// DiffuseTexture is the texture path as written in the material file.
	// It may use either path separator and is empty without a texture.
	DiffuseTexture string
}

type Scene struct {
	RootTransform glm.Mat4f
	Meshes        []Mesh
	Materials     []Material
}

// VertexCount returns the number of vertices across all meshes.
func (s *Scene) VertexCount() int {
	var count int
	for idx := range s.Meshes {
		count += len(s.Meshes[idx].Positions)
	}

	return count
}

// FaceCount returns the number of faces across all meshes.
func (s *Scene) FaceCount() int {
	var count int
	for idx := range s.Meshes {
		count += len(s.Meshes[idx].Faces)
	}

	return count
}
