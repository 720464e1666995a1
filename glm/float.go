package glm

import "golang.org/x/exp/constraints"

// Rad is an angle in radians.
type Rad float32

type float interface {
	constraints.Float
}

type numeric interface {
	float | uint32
}
