package glm

// Vec4 is a homogeneous coordinate or an rgba color.
type Vec4[T numeric] [4]T

// Truncate drops the w component.
func (lhs Vec4[T]) Truncate() Vec3[T] {
	return Vec3[T]{lhs[0], lhs[1], lhs[2]}
}

func (lhs Vec4[T]) XYZW() (x, y, z, w T) {
	return lhs[0], lhs[1], lhs[2], lhs[3]
}
