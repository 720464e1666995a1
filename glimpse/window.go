package glimpse

import "github.com/oliverbestmann/webgpu/wgpu"

type Window interface {
	GetSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Dt returns the target duration of one frame in seconds.
	Dt() float32

	Run(render func(input UpdateInputState) error) error
	Terminate()
}

type WindowOptions struct {
	Width  int
	Height int
	Title  string

	// writes a cpu profile into the working directory while the window is open
	Profile bool
}
