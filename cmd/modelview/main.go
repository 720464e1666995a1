package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oliverbestmann/modelview/config"
	"github.com/oliverbestmann/modelview/orion"
)

type flags struct {
	ConfigPath string
	LogLevel   string
	Profile    bool
	ModelPath  string
}

func main() {
	var f flags

	app := kingpin.New("modelview", "Shows a single 3D model")
	app.Flag("config", "Path to a TOML config file").Short('c').StringVar(&f.ConfigPath)
	app.Flag("log-level", "Log level (debug, info, warn, error)").StringVar(&f.LogLevel)
	app.Flag("profile", "Write a cpu profile into the working directory").BoolVar(&f.Profile)
	app.Arg("model", "Model to show. Opens a file dialog if missing").StringVar(&f.ModelPath)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(f); err != nil {
		slog.Error("Viewer failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(f flags) error {
	conf, err := loadConfig(f)
	if err != nil {
		return err
	}

	level, err := conf.Log.SlogLevel()
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: level})
	slog.SetDefault(slog.New(handler))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return orion.Run(ctx, orion.RunOptions{
		Config:    conf,
		ModelPath: f.ModelPath,
	})
}

// loadConfig reads the config file, if any, and applies the flags on top.
func loadConfig(f flags) (config.Config, error) {
	conf := config.Default()

	if f.ConfigPath != "" {
		var err error
		if conf, err = config.Load(f.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}

	if f.LogLevel != "" {
		conf.Log.Level = f.LogLevel
	}

	if f.Profile {
		conf.Profile = true
	}

	if err := conf.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return conf, nil
}
