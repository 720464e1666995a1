package assets

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/g3n/engine/loader/obj"
	"github.com/oliverbestmann/modelview/glm"
)

var ErrBadIndex = errors.New("vertex index out of range")

// DefaultMaterialName names the material assigned to faces that reference
// no material or one that is not defined in the material library.
const DefaultMaterialName = "default"

// OBJ imports Wavefront OBJ files. The material library referenced by the
// file is loaded from the same directory.
type OBJ struct{}

func (OBJ) Import(path string) (*Scene, error) {
	dec, err := obj.Decode(path, "")
	if err != nil {
		return nil, fmt.Errorf("decode obj: %w", err)
	}

	return sceneOf(dec)
}

// ImportReader decodes an OBJ model from memory. mtl may be nil.
func ImportReader(objReader, mtlReader io.Reader) (*Scene, error) {
	dec, err := obj.DecodeReader(objReader, mtlReader)
	if err != nil {
		return nil, fmt.Errorf("decode obj: %w", err)
	}

	return sceneOf(dec)
}

func sceneOf(dec *obj.Decoder) (*Scene, error) {
	scene := &Scene{
		RootTransform: glm.IdentityMat4[float32](),
	}

	materialIndices := map[string]uint32{}

	for _, name := range slices.Sorted(maps.Keys(dec.Materials)) {
		materialIndices[name] = uint32(len(scene.Materials))

		scene.Materials = append(scene.Materials, Material{
			Name:           name,
			DiffuseTexture: dec.Materials[name].MapKd,
		})
	}

	defaultMaterial := -1

	materialOf := func(name string) uint32 {
		if idx, ok := materialIndices[name]; ok {
			return idx
		}

		if defaultMaterial < 0 {
			defaultMaterial = len(scene.Materials)
			scene.Materials = append(scene.Materials, Material{Name: DefaultMaterialName})
		}

		return uint32(defaultMaterial)
	}

	for _, object := range dec.Objects {
		var builder *meshBuilder

		for faceIdx, face := range object.Faces {
			if len(face.Vertices) < 3 {
				continue
			}

			materialIndex := materialOf(face.Material)

			// a new mesh starts every time the material changes
			if builder == nil || builder.mesh.MaterialIndex != materialIndex {
				if builder != nil {
					scene.Meshes = append(scene.Meshes, builder.finish())
				}

				builder = newMeshBuilder(object.Name, materialIndex)
			}

			corners := make([]corner, len(face.Vertices))
			for idx := range face.Vertices {
				c, err := cornerOf(dec, face, idx)
				if err != nil {
					return nil, fmt.Errorf("object %q, face %d: %w", object.Name, faceIdx, err)
				}

				corners[idx] = c
			}

			// triangulate as a fan around the first corner
			for idx := 2; idx < len(corners); idx++ {
				builder.triangle(corners[0], corners[idx-1], corners[idx])
			}
		}

		if builder != nil {
			scene.Meshes = append(scene.Meshes, builder.finish())
		}
	}

	return scene, nil
}

func cornerOf(dec *obj.Decoder, face obj.Face, idx int) (corner, error) {
	var c corner

	vertIdx := face.Vertices[idx]
	if vertIdx < 0 || vertIdx*3+2 >= len(dec.Vertices) {
		return c, fmt.Errorf("position %d: %w", vertIdx, ErrBadIndex)
	}

	c.position = glm.Vec3f{
		dec.Vertices[vertIdx*3],
		dec.Vertices[vertIdx*3+1],
		dec.Vertices[vertIdx*3+2],
	}

	// missing normal or uv indices are stored as out of range values
	if idx < len(face.Normals) {
		normIdx := face.Normals[idx]
		if normIdx >= 0 && normIdx*3+2 < len(dec.Normals) {
			c.hasNormal = true
			c.normal = glm.Vec3f{
				dec.Normals[normIdx*3],
				dec.Normals[normIdx*3+1],
				dec.Normals[normIdx*3+2],
			}
		}
	}

	if idx < len(face.Uvs) {
		uvIdx := face.Uvs[idx]
		if uvIdx >= 0 && uvIdx*2+1 < len(dec.Uvs) {
			c.hasTexCoord = true

			// textures are stored top row first
			uv := glm.Vec2f{dec.Uvs[uvIdx*2], dec.Uvs[uvIdx*2+1]}
			c.texCoord = uv.FlipV()
		}
	}

	return c, nil
}
