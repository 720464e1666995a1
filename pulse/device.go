package pulse

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/oliverbestmann/webgpu/wgpu"
)

var wgpuLogLevels = map[string]wgpu.LogLevel{
	"OFF":   wgpu.LogLevelOff,
	"ERROR": wgpu.LogLevelError,
	"WARN":  wgpu.LogLevelWarn,
	"INFO":  wgpu.LogLevelInfo,
	"DEBUG": wgpu.LogLevelDebug,
	"TRACE": wgpu.LogLevelTrace,
}

func init() {
	// glfw and wgpu calls must happen on the main thread
	runtime.LockOSThread()

	if level, ok := wgpuLogLevels[strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL"))]; ok {
		wgpu.SetLogLevel(level)
	}
}

// Context holds the device and queue used by the viewer, together with
// the surface of the window and the adapter the device was requested from.
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
}

// New requests a device that can render to the surface described by sd.
// Set WGPU_FORCE_FALLBACK_ADAPTER=1 to use a software adapter.
func New(sd *wgpu.SurfaceDescriptor) (*Context, error) {
	fallbackAdapter := os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	ctx := &Context{Surface: instance.CreateSurface(sd)}

	guard := NewReleaseGuard(ctx)
	defer guard.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: fallbackAdapter,
		CompatibleSurface:    ctx.Surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	ctx.Adapter = adapter

	if ctx.Device, err = adapter.RequestDevice(nil); err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	ctx.Queue = ctx.Device.GetQueue()

	slog.Info("Initialized webgpu device", slog.Bool("fallbackAdapter", fallbackAdapter))

	guard.Keep()

	return ctx, nil
}

// Release frees the queue, device, adapter and surface in that order.
func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}
