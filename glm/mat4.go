package glm

// Mat4 is a column major 4x4 matrix, matching the memory layout
// expected by WGSL mat4x4 uniforms.
type Mat4[T numeric] [16]T

// Mat4Of builds a matrix from its four columns.
func Mat4Of[T numeric](columns [4][4]T) Mat4[T] {
	var m Mat4[T]
	for col := range 4 {
		copy(m[col*4:col*4+4], columns[col][:])
	}

	return m
}

func IdentityMat4[T numeric]() Mat4[T] {
	return Mat4[T]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func TranslationMat4[T numeric](x, y, z T) Mat4[T] {
	return Mat4[T]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func ScaleMat4[T numeric](x, y, z T) Mat4[T] {
	return Mat4[T]{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

func (lhs Mat4[T]) Scale(x, y, z T) Mat4[T] {
	return lhs.Mul(ScaleMat4[T](x, y, z))
}

func (lhs Mat4[T]) Translate(x, y, z T) Mat4[T] {
	return lhs.Mul(TranslationMat4[T](x, y, z))
}

func (lhs Mat4[T]) IsZero() bool {
	return lhs == Mat4[T]{}
}

func (lhs Mat4[T]) Mul(rhs Mat4[T]) Mat4[T] {
	var res Mat4[T]

	for col := range 4 {
		for row := range 4 {
			res[col*4+row] = lhs[row]*rhs[col*4] +
				lhs[4+row]*rhs[col*4+1] +
				lhs[8+row]*rhs[col*4+2] +
				lhs[12+row]*rhs[col*4+3]
		}
	}

	return res
}

func (lhs Mat4[T]) Transform(rhs Vec4[T]) Vec4[T] {
	return Vec4[T]{
		lhs[0]*rhs[0] + lhs[4]*rhs[1] + lhs[8]*rhs[2] + lhs[12]*rhs[3],
		lhs[1]*rhs[0] + lhs[5]*rhs[1] + lhs[9]*rhs[2] + lhs[13]*rhs[3],
		lhs[2]*rhs[0] + lhs[6]*rhs[1] + lhs[10]*rhs[2] + lhs[14]*rhs[3],
		lhs[3]*rhs[0] + lhs[7]*rhs[1] + lhs[11]*rhs[2] + lhs[15]*rhs[3],
	}
}

// TransformPoint transforms a point, treating it as w=1.
func (lhs Mat4[T]) TransformPoint(p Vec3[T]) Vec3[T] {
	return lhs.Transform(p.Extend(1)).Truncate()
}
