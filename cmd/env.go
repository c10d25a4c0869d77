package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/extract"
	"github.com/Ayushprasai11/Valorant/internal/ingest"
	"github.com/Ayushprasai11/Valorant/internal/render"
	"github.com/Ayushprasai11/Valorant/internal/store"
)

// runEnv holds the components shared by run and serve.
type runEnv struct {
	Specs    *extract.SpecFile
	Registry *extract.Registry
	Renderer render.Renderer
	Runner   *ingest.Runner
}

// Close releases the renderer.
func (e *runEnv) Close() {
	if e.Renderer != nil {
		if err := e.Renderer.Close(); err != nil {
			zap.L().Warn("close renderer", zap.Error(err))
		}
	}
}

// loadSpecs resolves the spec file to use. An empty path falls back to the
// configured specs file, then to the built-in presets. withPresets adds the
// presets in front of a file.
func loadSpecs(path string, withPresets bool) (*extract.SpecFile, error) {
	if path == "" {
		path = cfg.Run.SpecsFile
	}
	if path == "" {
		return extract.Presets(), nil
	}
	sf, err := extract.LoadSpecFile(path)
	if err != nil {
		return nil, err
	}
	if withPresets {
		return extract.Presets().Merge(sf), nil
	}
	return sf, nil
}

// buildRegistry registers every valid spec in sf. Invalid specs are logged and
// left out so their targets are skipped.
func buildRegistry(sf *extract.SpecFile) *extract.Registry {
	reg := extract.NewRegistry()
	if err := sf.RegisterValid(reg); err != nil {
		zap.L().Warn("some specs were rejected", zap.Error(err))
	}
	return reg
}

// renderConfig applies config defaults the renderer needs.
func renderConfig() render.Config {
	rc := cfg.Render
	if rc.NavTimeoutSecs <= 0 {
		rc.NavTimeoutSecs = 60
	}
	if rc.WaitTimeoutSecs <= 0 {
		rc.WaitTimeoutSecs = 30
	}
	return rc
}

// initEnv wires the registry, renderer and runner from config. dryRun swaps the
// configured store for one that discards records.
func initEnv(sf *extract.SpecFile, dryRun bool) (*runEnv, error) {
	reg := buildRegistry(sf)

	renderer, err := render.New(renderConfig())
	if err != nil {
		return nil, err
	}

	opener := store.OpenerFor(cfg.Store)
	if dryRun {
		opener = store.DiscardOpener()
	}

	runner := ingest.NewRunner(reg, renderer, opener, ingest.Options{
		MaxAttempts: cfg.Run.MaxAttempts,
		Backoff:     cfg.Run.Backoff(),
	})

	return &runEnv{Specs: sf, Registry: reg, Renderer: renderer, Runner: runner}, nil
}

// withTimeout bounds ctx when secs is positive.
func withTimeout(ctx context.Context, secs int) (context.Context, context.CancelFunc) {
	if secs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(secs)*time.Second)
}

var errNoTargets = eris.New("no targets to run")
