package assets

import (
	"github.com/oliverbestmann/modelview/glm"
)

type corner struct {
	position    glm.Vec3f
	normal      glm.Vec3f
	texCoord    glm.Vec2f
	hasNormal   bool
	hasTexCoord bool
}

// meshBuilder collects triangles of one mesh. Identical corners are joined
// into a single vertex.
type meshBuilder struct {
	mesh Mesh

	hasNormal   []bool
	anyTexCoord bool

	joined map[corner]uint32
}

func newMeshBuilder(name string, materialIndex uint32) *meshBuilder {
	return &meshBuilder{
		mesh: Mesh{
			Name:          name,
			MaterialIndex: materialIndex,
		},
		joined: map[corner]uint32{},
	}
}

func (b *meshBuilder) vertex(c corner) uint32 {
	if idx, ok := b.joined[c]; ok {
		return idx
	}

	idx := uint32(len(b.mesh.Positions))

	b.mesh.Positions = append(b.mesh.Positions, c.position)
	b.mesh.Normals = append(b.mesh.Normals, c.normal)
	b.mesh.TexCoords = append(b.mesh.TexCoords, c.texCoord)

	b.hasNormal = append(b.hasNormal, c.hasNormal)
	b.anyTexCoord = b.anyTexCoord || c.hasTexCoord

	b.joined[c] = idx

	return idx
}

func (b *meshBuilder) triangle(c0, c1, c2 corner) {
	b.mesh.Faces = append(b.mesh.Faces, Face{
		b.vertex(c0),
		b.vertex(c1),
		b.vertex(c2),
	})
}

func (b *meshBuilder) finish() Mesh {
	b.generateSmoothNormals()

	if !b.anyTexCoord {
		b.mesh.TexCoords = nil
	}

	return b.mesh
}

// generateSmoothNormals computes a normal for every vertex that came without
// one. Face normals are weighted by face area and shared between all vertices
// at the same position.
func (b *meshBuilder) generateSmoothNormals() {
	missing := false
	for _, has := range b.hasNormal {
		missing = missing || !has
	}

	if !missing {
		return
	}

	accumulated := map[glm.Vec3f]glm.Vec3f{}

	for _, face := range b.mesh.Faces {
		p0 := b.mesh.Positions[face[0]]
		p1 := b.mesh.Positions[face[1]]
		p2 := b.mesh.Positions[face[2]]

		// the length of the cross product is twice the area of the triangle
		normal := p1.Sub(p0).Cross(p2.Sub(p0))

		for _, idx := range face {
			if b.hasNormal[idx] {
				continue
			}

			pos := b.mesh.Positions[idx]
			accumulated[pos] = accumulated[pos].Add(normal)
		}
	}

	for idx, has := range b.hasNormal {
		if has {
			continue
		}

		b.mesh.Normals[idx] = accumulated[b.mesh.Positions[idx]].Normalize()
	}
}
