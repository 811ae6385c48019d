package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/compiler"
	"github.com/GriffinCanCode/Sandbox/backend/internal/jscheck"
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/remote"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/workspace"
)

// BuildCommand compiles a directory
type BuildCommand struct {
	Framework  string        `help:"Target framework." short:"f" enum:"vanilla,react,vue,svelte" default:"vanilla"`
	Dir        string        `arg:"" help:"Project directory." type:"existingdir"`
	Output     string        `help:"Output file, or - for stdout." short:"o" default:"preview.html"`
	Remote     string        `help:"Compile service URL." env:"COMPILER_URL"`
	Local      bool          `help:"Try the in-process compile service before the lightweight path." default:"true" negatable:""`
	Toolchains string        `help:"Toolchain TOML file." type:"existingfile" env:"TOOLCHAIN_FILE"`
	Include    []string      `help:"Glob patterns of files to load."`
	Exclude    []string      `help:"Additional glob patterns to skip."`
	Timeout    time.Duration `help:"Overall build timeout." default:"2m"`
}

// Run executes the build
func (r *BuildCommand) Run(app *App) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	fw, err := types.ParseFramework(r.Framework)
	if err != nil {
		return err
	}

	opts := workspace.DefaultOptions()
	opts.Include = r.Include
	opts.Exclude = append(opts.Exclude, r.Exclude...)
	loaded, err := workspace.Load(ctx, r.Dir, opts)
	if err != nil {
		return err
	}
	for _, name := range loaded.Skipped {
		app.Logger.Debug("skipped file", zap.String("file", name))
	}

	p, err := r.pipeline(app)
	if err != nil {
		return err
	}

	outcome := p.Compile(ctx, types.CompileRequest{Framework: fw, Files: loaded.Files})
	for _, w := range outcome.Warnings {
		fmt.Fprintf(app.Stderr, "warning: %s\n", w)
	}
	if !outcome.Success {
		return fmt.Errorf("build failed: %s", describe(outcome.Error))
	}

	if r.Output == "-" {
		_, err = fmt.Fprint(app.Stdout, outcome.Document)
		return err
	}
	if err := os.WriteFile(r.Output, []byte(outcome.Document), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.Output, err)
	}
	fmt.Fprintf(app.Stderr, "wrote %s (%d files, %d bytes)\n", r.Output, loaded.Files.Len(), len(outcome.Document))
	return nil
}

func (r *BuildCommand) pipeline(app *App) (*pipeline.Pipeline, error) {
	opts := []pipeline.Option{
		pipeline.WithTransformer(pipeline.NewTransformer(pipeline.WithChecker(jscheck.New(0)))),
		pipeline.WithLogger(app.Logger.Component("pipeline").Logger),
	}

	switch {
	case r.Remote != "":
		opts = append(opts, pipeline.WithRemote(remote.NewClient(remote.Config{
			BaseURL: r.Remote,
			Timeout: r.Timeout,
			Retries: 1,
			Logger:  app.Logger.Logger,
		})))
	case r.Local:
		svcOpts := []compiler.Option{compiler.WithLogger(app.Logger.Component("compiler").Logger)}
		if r.Toolchains != "" {
			tc, err := compiler.LoadToolchains(r.Toolchains)
			if err != nil {
				return nil, err
			}
			svcOpts = append(svcOpts, compiler.WithToolchains(tc))
		}
		opts = append(opts, pipeline.WithRemote(compiler.NewLocal(compiler.NewService(svcOpts...))))
	}
	return pipeline.New(opts...), nil
}

func describe(e *types.CompileError) string {
	if e == nil {
		return "unknown error"
	}
	switch {
	case e.File == "":
		return e.Message
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
}
