package glm

import "math"

// AABB is an axis aligned bounding box. An empty box has Min > Max.
type AABB[T float] struct {
	Min Vec3[T]
	Max Vec3[T]
}

func EmptyAABB[T float]() AABB[T] {
	inf := T(math.Inf(1))

	return AABB[T]{
		Min: Vec3[T]{inf, inf, inf},
		Max: Vec3[T]{-inf, -inf, -inf},
	}
}

func AABBFromPoints[T float](points []Vec3[T]) AABB[T] {
	box := EmptyAABB[T]()
	for _, p := range points {
		box = box.Extend(p)
	}

	return box
}

func (b AABB[T]) Extend(p Vec3[T]) AABB[T] {
	return AABB[T]{
		Min: b.Min.Min(p),
		Max: b.Max.Max(p),
	}
}

func (b AABB[T]) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b AABB[T]) Center() Vec3[T] {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

func (b AABB[T]) Size() Vec3[T] {
	return b.Max.Sub(b.Min)
}
