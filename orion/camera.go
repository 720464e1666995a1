package orion

import (
	"github.com/oliverbestmann/modelview/config"
	"github.com/oliverbestmann/modelview/glm"
	"github.com/oliverbestmann/modelview/pulse"
)

// Camera is a fixed perspective camera looking from Eye at Target.
type Camera struct {
	Eye    glm.Vec3f
	Target glm.Vec3f
	Up     glm.Vec3f

	// vertical field of view in degrees
	FovY float32
	Near float32
	Far  float32
}

func CameraFromConfig(conf config.CameraConfig) Camera {
	return Camera{
		Eye:    conf.Eye,
		Target: conf.Target,
		Up:     conf.Up,
		FovY:   conf.FovY,
		Near:   conf.Near,
		Far:    conf.Far,
	}
}

func (c Camera) View() glm.Mat4f {
	return glm.LookAt(c.Eye, c.Target, c.Up)
}

func (c Camera) Projection(aspect float32) glm.Mat4f {
	return glm.Perspective(glm.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Matrices returns view and projection for a target with the given aspect ratio.
func (c Camera) Matrices(aspect float32) pulse.Camera {
	return pulse.Camera{
		View:       c.View(),
		Projection: c.Projection(aspect),
	}
}
