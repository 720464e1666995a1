package glm

// Vec2 is used for texture coordinates.
type Vec2[T numeric] [2]T

// FlipV mirrors a texture coordinate vertically. It converts between
// an origin at the bottom left and one at the top left.
func (lhs Vec2[T]) FlipV() Vec2[T] {
	return Vec2[T]{lhs[0], 1 - lhs[1]}
}

func (lhs Vec2[T]) XY() (x, y T) {
	return lhs[0], lhs[1]
}
