// Package orion runs the viewer: it opens the window, loads a single model
// and draws it every frame until the window is closed.
package orion

import (
	"context"
	"errors"
	"fmt"

	"github.com/oliverbestmann/modelview/assets"
	"github.com/oliverbestmann/modelview/config"
	"github.com/oliverbestmann/modelview/dialog"
	"github.com/oliverbestmann/modelview/glimpse"
	"github.com/oliverbestmann/modelview/pulse"
)

// returned by the frame callback to leave the window loop
var errStopped = errors.New("viewer stopped")

type RunOptions struct {
	Config config.Config

	// model to show. If empty, PickModel is asked for a path
	ModelPath string

	// defaults to the native file dialog
	PickModel func(ctx context.Context) (string, error)

	// defaults to the importer registered for the file extension
	Importer assets.Importer
}

func (opts RunOptions) withDefaults() RunOptions {
	if opts.PickModel == nil {
		opts.PickModel = pickModelWithDialog
	}

	if opts.Importer == nil {
		opts.Importer = assets.ImporterFunc(assets.Import)
	}

	return opts
}

func pickModelWithDialog(ctx context.Context) (string, error) {
	return dialog.OpenFile(ctx, "Select a 3D model", assets.Extensions())
}

// Run shows the viewer until the window is closed or ctx is cancelled.
// Failing to load the model is not an error, the viewer keeps running
// with an empty screen.
func Run(ctx context.Context, opts RunOptions) error {
	opts = opts.withDefaults()

	conf := opts.Config
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// create a new window
	win, err := glimpse.NewWindow(glimpse.WindowOptions{
		Width:   conf.Window.Width,
		Height:  conf.Window.Height,
		Title:   conf.Window.Title,
		Profile: conf.Profile,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	dev, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer dev.Release()

	view, err := pulse.NewView(dev, pulse.ViewOptions{
		MSAA:  conf.Render.MSAA,
		Depth: conf.Render.Depth,
	})
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	defer view.Release()

	textures, err := pulse.NewTextureCache(dev, conf.Render.TextureCacheSize)
	if err != nil {
		return fmt.Errorf("create texture cache: %w", err)
	}

	defer textures.Release()
	defer pulse.PurgeSamplers()

	state := &LoopState{
		Window:     win,
		View:       view,
		Clear:      pulse.NewClear(dev),
		Textures:   textures,
		Camera:     CameraFromConfig(conf.Camera),
		ClearColor: pulse.ColorOf(conf.Render.ClearColor),
	}

	defer state.releaseModel()

	err = win.Run(func(inputState glimpse.UpdateInputState) error {
		return loopOnce(ctx, opts, state, inputState)
	})

	if errors.Is(err, errStopped) {
		return nil
	}

	return err
}
