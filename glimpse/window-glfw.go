package glimpse

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
	"github.com/pkg/profile"
)

const defaultRefreshRate = 60

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyW: KeyW,
	glfw.KeyS: KeyS,
	glfw.KeyD: KeyD,
	glfw.KeyA: KeyA,
}

var glfwToMouseButton = map[glfw.MouseButton]MouseButton{
	glfw.MouseButtonLeft:  MouseLeft,
	glfw.MouseButtonRight: MouseRight,
}

type glfwWindow struct {
	win   *glfw.Window
	prof  interface{ Stop() }
	input InputState
	dt    float32
}

func NewWindow(opts WindowOptions) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{
		win: window,
		dt:  targetSecondsPerFrame(),
	}

	if opts.Profile {
		w.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}

	slog.Info("Window created",
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
		slog.Float64("dt", float64(w.dt)),
	)

	configureInput(window, &w.input)

	return w, nil
}

// targetSecondsPerFrame derives the frame time from the refresh
// rate of the primary monitor.
func targetSecondsPerFrame() float32 {
	refreshRate := defaultRefreshRate

	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		if mode := monitor.GetVideoMode(); mode != nil && mode.RefreshRate > 0 {
			refreshRate = mode.RefreshRate
		}
	}

	return 1.0 / float32(refreshRate)
}

func (g *glfwWindow) ShouldClose() bool {
	return g.win.ShouldClose()
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) Dt() float32 {
	return g.dt
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) Terminate() {
	if g.prof != nil {
		g.prof.Stop()
	}

	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(render func(input UpdateInputState) error) error {
	var updateInputState UpdateInputState = func() *InputState {
		g.input.nextFrame()
		glfw.PollEvents()
		return &g.input
	}

	for !g.win.ShouldClose() {
		if err := render(updateInputState); err != nil {
			return err
		}
	}

	return nil
}

func configureInput(window *glfw.Window, input *InputState) {
	window.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		key, ok := glfwToKey[glfwKey]
		if !ok {
			return
		}

		switch action {
		case glfw.Press:
			input.press(key)

		case glfw.Release:
			input.release(key)
		}
	})

	window.SetMouseButtonCallback(func(_win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		button, ok := glfwToMouseButton[btn]
		if !ok {
			return
		}

		switch action {
		case glfw.Press:
			input.pressMouse(button)
		case glfw.Release:
			input.releaseMouse(button)
		}
	})

	window.SetCursorPosCallback(func(_win *glfw.Window, xpos float64, ypos float64) {
		input.position(float32(xpos), float32(ypos))
	})
}
