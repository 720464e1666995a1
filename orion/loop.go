package orion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/modelview/glimpse"
	"github.com/oliverbestmann/modelview/glm"
	"github.com/oliverbestmann/modelview/model"
	"github.com/oliverbestmann/modelview/pulse"
)

type LoopState struct {
	Window   glimpse.Window
	View     *pulse.View
	Clear    *pulse.ClearCommand
	Textures *pulse.TextureCache

	Camera     Camera
	ClearColor pulse.Color

	SurfaceWidth  uint32
	SurfaceHeight uint32
	Initialized   bool

	// nil if no model could be loaded
	Renderer  *pulse.ModelRenderer
	Transform glm.Mat4f

	Frames FrameTimes
}

func loopOnce(ctx context.Context, opts RunOptions, st *LoopState, inputState glimpse.UpdateInputState) error {
	if ctx.Err() != nil {
		return errStopped
	}

	if !st.Initialized {
		st.Initialized = true
		st.loadModel(ctx, opts)
	}

	// get surface size for next frame
	surfaceWidth, surfaceHeight := st.Window.GetSize()

	if surfaceWidth == 0 || surfaceHeight == 0 {
		// minimized, nothing to draw into
		inputState()
		time.Sleep(time.Duration(st.Window.Dt() * float32(time.Second)))
		return nil
	}

	// reconfigure surface if needed
	if st.SurfaceWidth != surfaceWidth || st.SurfaceHeight != surfaceHeight {
		slog.Debug("Resize surface",
			slog.Int("width", int(surfaceWidth)),
			slog.Int("height", int(surfaceHeight)),
		)

		err := st.View.Configure(surfaceWidth, surfaceHeight)
		Handle(err, "resize surface to %dx%d", surfaceWidth, surfaceHeight)

		st.SurfaceWidth = surfaceWidth
		st.SurfaceHeight = surfaceHeight
	}

	// get the surface texture (the actual screen)
	surface, err := st.View.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}

	defer func() {
		if surface != nil {
			surface.Release()
		}
	}()

	// get input after waiting for a texture to keep input lag low
	logInput(inputState())

	surfaceView, err := surface.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}

	defer surfaceView.Release()

	target := st.View.RenderTarget(surfaceView)

	if st.Renderer != nil {
		camera := st.Camera.Matrices(target.Aspect())
		if err := st.Renderer.Draw(target, st.ClearColor, camera, st.Transform); err != nil {
			return fmt.Errorf("draw model: %w", err)
		}
	} else {
		if err := st.Clear.Clear(target, st.ClearColor); err != nil {
			return fmt.Errorf("clear surface: %w", err)
		}
	}

	// present the rendered image
	st.View.Surface.Present()

	// we do not need to release the screen if present was successful
	surface = nil

	if st.Frames.Tick() {
		slog.Debug("Frame times", st.Frames.LogAttrs()...)
	}

	return nil
}

func (st *LoopState) loadModel(ctx context.Context, opts RunOptions) {
	m, path, err := prepareModel(ctx, opts)
	if err != nil {
		slog.Warn("No model to show", slog.String("err", err.Error()))
		return
	}

	defer m.Release()

	renderer, err := pulse.NewModelRenderer(st.View.Context, st.Textures, m)
	if err != nil {
		slog.Warn("Upload model failed",
			slog.String("path", path),
			slog.String("err", err.Error()),
		)

		return
	}

	st.Renderer = renderer
	st.Transform = m.FitTransform(opts.Config.Model.TargetHeight)
}

func (st *LoopState) releaseModel() {
	if st.Renderer != nil {
		st.Renderer.Release()
		st.Renderer = nil
	}
}

// prepareModel resolves the model path, imports the scene and stages it.
func prepareModel(ctx context.Context, opts RunOptions) (*model.Model, string, error) {
	path := opts.ModelPath
	if path == "" {
		var err error
		if path, err = opts.PickModel(ctx); err != nil {
			return nil, "", fmt.Errorf("pick model: %w", err)
		}
	}

	startTime := time.Now()

	scene, err := opts.Importer.Import(path)
	if err != nil {
		return nil, path, err
	}

	m, err := model.Stage(scene, path, model.Options{
		MaxBufferBytes: opts.Config.Model.MaxBufferBytes,
	})
	if err != nil {
		return nil, path, fmt.Errorf("stage %q: %w", path, err)
	}

	slog.Info("Loaded model",
		slog.String("path", path),
		slog.Int("meshes", m.Meshes.Len()),
		slog.Int("vertices", m.VertexCount()),
		slog.Duration("duration", time.Since(startTime)),
	)

	return RegisterWithGC(m), path, nil
}

func logInput(input *glimpse.InputState) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	for _, key := range glimpse.Keys {
		if input.Key(key).WasDown() {
			slog.Debug("Key was pressed", slog.String("key", key.String()))
		}
	}
}
