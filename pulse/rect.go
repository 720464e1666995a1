package pulse

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type numeric interface {
	constraints.Integer | constraints.Float
}

type Rectangle2u = Rectangle2[uint32]

// Rectangle2 is an axis aligned rectangle. Max is exclusive.
type Rectangle2[T numeric] struct {
	Min [2]T
	Max [2]T
}

func RectangleFromXYWH[T numeric](x, y, w, h T) Rectangle2[T] {
	return RectangleFromPoints(x, y, x+w, y+h)
}

func RectangleFromPoints[T numeric](x0, y0, x1, y1 T) Rectangle2[T] {
	return Rectangle2[T]{
		Min: [2]T{min(x0, x1), min(y0, y1)},
		Max: [2]T{max(x0, x1), max(y0, y1)},
	}
}

func (r Rectangle2[T]) Width() T {
	return r.Max[0] - r.Min[0]
}

func (r Rectangle2[T]) Height() T {
	return r.Max[1] - r.Min[1]
}

func (r Rectangle2[T]) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains reports whether other lies completely within r.
func (r Rectangle2[T]) Contains(other Rectangle2[T]) bool {
	return other.Min[0] >= r.Min[0] && other.Min[1] >= r.Min[1] &&
		other.Max[0] <= r.Max[0] && other.Max[1] <= r.Max[1]
}

func (r Rectangle2[T]) XYWH() (T, T, T, T) {
	return r.Min[0], r.Min[1], r.Width(), r.Height()
}

func (r Rectangle2[T]) String() string {
	return fmt.Sprintf("Rect(x=%v, y=%v, w=%v, h=%v)", r.Min[0], r.Min[1], r.Width(), r.Height())
}
