// Package model stages an imported scene into flat, GPU ready buffers.
//
// All meshes of a scene share one position, normal, texture coordinate and
// index buffer. Each mesh records where its vertices and indices start in
// those buffers, so it can be drawn with a single indexed draw call using a
// base vertex.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oliverbestmann/modelview/assets"
	"github.com/oliverbestmann/modelview/dynarray"
	"github.com/oliverbestmann/modelview/glm"
)

var ErrNotTriangulated = errors.New("face is not a triangle")
var ErrIndexOutOfMesh = errors.New("face index outside of mesh")
var ErrBadMaterial = errors.New("material index out of range")

const indicesPerFace = 3

type Mesh struct {
	BaseVertex    uint32
	BaseIndex     uint32
	IndexCount    uint32
	MaterialIndex uint32
}

type Options struct {
	// MaxBufferBytes limits the size of every single staging buffer.
	// Zero means no limit.
	MaxBufferBytes int
}

// Model is the staged form of a scene. The Textures table has one entry per
// material, holding the path of its diffuse texture or an empty string.
type Model struct {
	Meshes   *dynarray.Buffer[Mesh]
	Textures *dynarray.Buffer[string]

	Positions *dynarray.Buffer[glm.Vec3f]
	Normals   *dynarray.Buffer[glm.Vec3f]
	TexCoords *dynarray.Buffer[glm.Vec2f]
	Indices   *dynarray.Buffer[uint32]

	Bounds        glm.AABBf
	RootTransform glm.Mat4f
}

// Stage copies the scene into staging buffers. modelPath is the path the scene
// was loaded from, texture paths are resolved relative to its directory.
func Stage(scene *assets.Scene, modelPath string, opts Options) (m *Model, err error) {
	var bufOpts []dynarray.Option
	if opts.MaxBufferBytes > 0 {
		bufOpts = append(bufOpts, dynarray.WithMaxBytes(opts.MaxBufferBytes))
	}

	m = &Model{RootTransform: scene.RootTransform}
	if m.RootTransform.IsZero() {
		m.RootTransform = glm.IdentityMat4[float32]()
	}

	defer func() {
		if err != nil {
			m.Release()
			m = nil
		}
	}()

	if err := m.initTables(scene, bufOpts); err != nil {
		return m, err
	}

	numVertices, numIndices, err := m.layoutMeshes(scene)
	if err != nil {
		return m, err
	}

	if err := m.initVertexBuffers(numVertices, numIndices, bufOpts); err != nil {
		return m, err
	}

	for idx := range scene.Meshes {
		if err := m.stageMesh(&scene.Meshes[idx]); err != nil {
			return m, fmt.Errorf("mesh %d (%q): %w", idx, scene.Meshes[idx].Name, err)
		}
	}

	m.resolveTextures(scene, filepath.Dir(modelPath))

	m.Bounds = glm.AABBFromPoints(m.Positions.Data())

	return m, nil
}

func (m *Model) initTables(scene *assets.Scene, bufOpts []dynarray.Option) error {
	var err error

	if m.Meshes, err = dynarray.New[Mesh](0, bufOpts...); err != nil {
		return fmt.Errorf("mesh table: %w", err)
	}

	if err := m.Meshes.Resize(len(scene.Meshes)); err != nil {
		return fmt.Errorf("mesh table: %w", err)
	}

	if m.Textures, err = dynarray.New[string](0, bufOpts...); err != nil {
		return fmt.Errorf("texture table: %w", err)
	}

	if err := m.Textures.Resize(len(scene.Materials)); err != nil {
		return fmt.Errorf("texture table: %w", err)
	}

	return nil
}

// layoutMeshes fills the mesh table and returns the total number of
// vertices and indices.
func (m *Model) layoutMeshes(scene *assets.Scene) (numVertices, numIndices int, err error) {
	for idx := range scene.Meshes {
		mesh := &scene.Meshes[idx]

		if int(mesh.MaterialIndex) >= len(scene.Materials) {
			return 0, 0, fmt.Errorf("mesh %d (%q), material %d of %d: %w",
				idx, mesh.Name, mesh.MaterialIndex, len(scene.Materials), ErrBadMaterial)
		}

		entry := m.Meshes.MustAt(idx)
		entry.MaterialIndex = mesh.MaterialIndex
		entry.IndexCount = uint32(len(mesh.Faces) * indicesPerFace)
		entry.BaseVertex = uint32(numVertices)
		entry.BaseIndex = uint32(numIndices)

		numVertices += len(mesh.Positions)
		numIndices += int(entry.IndexCount)
	}

	return numVertices, numIndices, nil
}

func (m *Model) initVertexBuffers(numVertices, numIndices int, bufOpts []dynarray.Option) error {
	var err error

	if m.Positions, err = dynarray.New[glm.Vec3f](numVertices, bufOpts...); err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	if m.Normals, err = dynarray.New[glm.Vec3f](numVertices, bufOpts...); err != nil {
		return fmt.Errorf("normals: %w", err)
	}

	if m.TexCoords, err = dynarray.New[glm.Vec2f](numVertices, bufOpts...); err != nil {
		return fmt.Errorf("texture coordinates: %w", err)
	}

	if m.Indices, err = dynarray.New[uint32](numIndices, bufOpts...); err != nil {
		return fmt.Errorf("indices: %w", err)
	}

	return nil
}

func (m *Model) stageMesh(mesh *assets.Mesh) error {
	for idx, position := range mesh.Positions {
		var normal glm.Vec3f
		if idx < len(mesh.Normals) {
			normal = mesh.Normals[idx]
		}

		var texCoord glm.Vec2f
		if idx < len(mesh.TexCoords) {
			texCoord = mesh.TexCoords[idx]
		}

		if err := m.Positions.Append(position); err != nil {
			return fmt.Errorf("positions: %w", err)
		}

		if err := m.Normals.Append(normal); err != nil {
			return fmt.Errorf("normals: %w", err)
		}

		if err := m.TexCoords.Append(texCoord); err != nil {
			return fmt.Errorf("texture coordinates: %w", err)
		}
	}

	for faceIdx, face := range mesh.Faces {
		if len(face) != indicesPerFace {
			return fmt.Errorf("face %d has %d indices: %w", faceIdx, len(face), ErrNotTriangulated)
		}

		for _, index := range face {
			if int(index) >= len(mesh.Positions) {
				return fmt.Errorf("face %d, index %d of %d vertices: %w",
					faceIdx, index, len(mesh.Positions), ErrIndexOutOfMesh)
			}

			if err := m.Indices.Append(index); err != nil {
				return fmt.Errorf("indices: %w", err)
			}
		}
	}

	return nil
}

func (m *Model) resolveTextures(scene *assets.Scene, dir string) {
	for idx, material := range scene.Materials {
		*m.Textures.MustAt(idx) = TexturePath(dir, material.DiffuseTexture)
	}
}

// TexturePath resolves the diffuse texture name of a material. Only the file
// name is kept, joined with dir. Both '/' and '\' are treated as separators
// independent of the platform. An empty name yields an empty path.
func TexturePath(dir, name string) string {
	if name == "" {
		return ""
	}

	if idx := strings.LastIndexAny(name, `\/`); idx >= 0 {
		name = name[idx+1:]
	}

	if name == "" {
		return ""
	}

	return filepath.Join(dir, name)
}

// FitTransform returns the model matrix that centers the model at the origin
// and scales it to targetHeight. A flat model is not scaled.
func (m *Model) FitTransform(targetHeight float32) glm.Mat4f {
	var scale float32 = 1

	if height := m.Bounds.Size()[1]; !m.Bounds.IsEmpty() && height > 0 {
		scale = targetHeight / height
	}

	center := m.Bounds.Center()
	if m.Bounds.IsEmpty() {
		center = glm.Vec3f{}
	}

	return glm.ScaleMat4(scale, scale, scale).
		Mul(m.RootTransform).
		Translate(-center[0], -center[1], -center[2])
}

// VertexCount returns the number of staged vertices.
func (m *Model) VertexCount() int {
	if m.Positions == nil {
		return 0
	}

	return m.Positions.Len()
}

// Release frees all buffers. Calling Release multiple times is safe.
func (m *Model) Release() {
	if m == nil {
		return
	}

	releaseBuffer(m.Meshes)
	releaseBuffer(m.Textures)
	releaseBuffer(m.Positions)
	releaseBuffer(m.Normals)
	releaseBuffer(m.TexCoords)
	releaseBuffer(m.Indices)
}

func releaseBuffer[T any](buf *dynarray.Buffer[T]) {
	if buf != nil {
		buf.Release()
	}
}

// ReleaseVertexData frees the vertex and index buffers once they have been
// uploaded, keeping the mesh and texture tables needed for drawing.
func (m *Model) ReleaseVertexData() {
	releaseBuffer(m.Positions)
	releaseBuffer(m.Normals)
	releaseBuffer(m.TexCoords)
	releaseBuffer(m.Indices)
}
