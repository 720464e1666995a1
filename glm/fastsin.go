package glm

import (
	"golang.org/x/mobile/exp/f32"
)

func fastSincos(r Rad) (float32, float32) {
	return f32.Sin(float32(r)), f32.Cos(float32(r))
}

func fastTan(r Rad) float32 {
	s, c := fastSincos(r)
	return s / c
}
