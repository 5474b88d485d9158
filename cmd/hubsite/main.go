// Package main provides the hubsite static catalogue generator CLI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/openimaging/hubsite/internal/buildinfo"
	"github.com/openimaging/hubsite/internal/config"
	"github.com/openimaging/hubsite/internal/site"
)

func main() {
	cfg := config.Default()
	config.ApplyEnvOverrides(&cfg)

	flags := pflag.NewFlagSet("hubsite", pflag.ExitOnError)
	config.RegisterFlags(flags, &cfg)
	configPath := flags.StringP("config", "c", "", "optional YAML config file")
	versionFlag := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		slog.Error("parse flags", slog.Any("err", err))
		os.Exit(1)
	}
	if *versionFlag {
		println(buildinfo.Summary())
		os.Exit(0)
	}

	// A bare positional argument names the build directory.
	if flags.NArg() > 0 && !flags.Changed("build-dir") {
		cfg.BuildDir = flags.Arg(0)
	}

	if *configPath != "" {
		if err := config.ApplyFile(*configPath, flags, &cfg); err != nil {
			slog.Error("load config file", slog.Any("err", err))
			os.Exit(1)
		}
	}

	if err := config.Finalize(&cfg); err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}

	logLevel := slog.LevelWarn
	if cfg.Verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)
	logger.Info("starting hubsite", slog.String("version", buildinfo.Summary()))

	gen, err := site.New(logger)
	if err != nil {
		logger.Error("init generator failed", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := site.Options{
		BuildDir:     cfg.BuildDir,
		DataPath:     cfg.DataPath,
		TemplatePath: cfg.TemplatePath,
		StaticDir:    cfg.StaticDir,
		MinPython:    cfg.MinPython,
		MaxPython:    cfg.MaxPython,
	}

	if cfg.Watch {
		err = gen.Watch(ctx, opts)
		if errors.Is(err, context.Canceled) {
			logger.Info("watch stopped")
			return
		}
	} else {
		err = gen.Generate(ctx, opts)
	}
	if err != nil {
		logger.Error("generation failed", slog.Any("err", err))
		os.Exit(1)
	}
}
