package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/id"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

// RemoteCompiler is the authoritative out-of-process compiler. A nil error
// with a successful outcome is used as-is; anything else triggers fallback.
type RemoteCompiler interface {
	CompileRemote(ctx context.Context, fw types.Framework, set types.SourceSet) (types.CompileOutcome, error)
}

// Report summarizes one run for observers
type Report struct {
	ID        id.CompileID
	Framework types.Framework
	Path      string
	Success   bool
	Trace     []State
	Duration  time.Duration
}

// Observer receives a report after every run
type Observer interface {
	ObserveRun(Report)
}

// Pipeline is the compile orchestrator. It holds no per-run state and is
// safe for concurrent use.
type Pipeline struct {
	remote      RemoteCompiler
	transformer *Transformer
	logger      *zap.Logger
	observers   []Observer
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRemote sets the out-of-process compiler
func WithRemote(r RemoteCompiler) Option {
	return func(p *Pipeline) { p.remote = r }
}

// WithTransformer sets the in-process transformer
func WithTransformer(t *Transformer) Option {
	return func(p *Pipeline) { p.transformer = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithObserver adds a run observer
func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observers = append(p.observers, o) }
}

// New creates a pipeline. Without a remote compiler every input takes the
// in-process path.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		transformer: NewTransformer(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compile produces a preview document or a structured failure. It never
// returns an error value; all failures collapse into the outcome.
func (p *Pipeline) Compile(ctx context.Context, req types.CompileRequest) types.CompileOutcome {
	start := time.Now()
	runID := id.NewCompileID()
	m := NewMachine()
	log := p.logger.With(
		zap.String("compile_id", runID.String()),
		zap.String("framework", req.Framework.String()),
	)

	outcome := p.run(ctx, m, log, req)

	report := Report{
		ID:        runID,
		Framework: req.Framework,
		Path:      m.Path(),
		Success:   outcome.Success,
		Trace:     m.Trace(),
		Duration:  time.Since(start),
	}
	for _, o := range p.observers {
		o.ObserveRun(report)
	}

	if outcome.Success {
		log.Debug("compile finished",
			zap.String("path", report.Path),
			zap.Int("warnings", len(outcome.Warnings)),
			zap.Duration("duration", report.Duration))
	} else {
		log.Info("compile failed",
			zap.String("path", report.Path),
			zap.String("file", outcome.Error.File),
			zap.String("message", outcome.Error.Message),
			zap.Duration("duration", report.Duration))
	}
	return outcome
}

func (p *Pipeline) run(ctx context.Context, m *Machine, log *zap.Logger, req types.CompileRequest) types.CompileOutcome {
	step := func(to State) {
		if err := m.Transition(to); err != nil {
			log.DPanic("pipeline state", zap.Error(err))
		}
	}

	if !req.Framework.Valid() {
		step(StateFailed)
		return failure(&Error{
			Kind:    KindUnsupportedFramework,
			File:    UnknownFile,
			Message: fmt.Sprintf("unsupported framework: %s", req.Framework),
		})
	}

	step(StateResolving)
	sel, err := Resolve(req.Framework, req.Files)
	if err != nil {
		step(StateFailed)
		return failure(err)
	}

	step(StateClassifying)
	entry, _ := req.Files.Get(sel.Entry())
	complex := NeedsFullCompile(entry.Content, req.Framework)
	log.Debug("classified entry",
		zap.String("file", sel.Entry()),
		zap.Bool("needs_full_compile", complex))

	if complex && p.remote != nil {
		step(StateOutOfProcess)
		outcome, err := p.remote.CompileRemote(ctx, req.Framework, req.Files)
		if err == nil && outcome.Success {
			step(StateAssembling)
			step(StateDone)
			return outcome
		}
		if err == nil {
			err = remoteOutcomeError(outcome)
		}
		log.Warn("remote compile failed, falling back to in-process transform", zap.Error(err))
	}

	step(StateInProcess)
	result, err := p.transformer.Transform(sel, req.Files)
	if err != nil {
		step(StateFailed)
		return failure(err)
	}

	step(StateAssembling)
	markup, _ := req.Files.Get(sel.Markup)
	document := Assemble(markup.Content, result.Injection)
	step(StateDone)

	return types.Succeeded(document, result.Warnings...)
}

func remoteOutcomeError(outcome types.CompileOutcome) error {
	if outcome.Error != nil {
		return RemoteError(fmt.Errorf("%s (%s)", outcome.Error.Message, outcome.Error.File))
	}
	return RemoteError(errors.New("remote compile returned no document"))
}

// failure converts an error into the outcome contract. Errors that are not
// pipeline errors are reported without their internals.
func failure(err error) types.CompileOutcome {
	var perr *Error
	if errors.As(err, &perr) {
		return types.Failed(perr.Message, perr.File)
	}
	return types.Failed("internal compile error", UnknownFile)
}

// Rejected reports a request that failed validation before compiling. The
// failure names the offending file when the validator knows it.
func Rejected(err error) types.CompileOutcome {
	file := UnknownFile
	var setErr *utils.SourceSetError
	if errors.As(err, &setErr) && setErr.File != "" {
		file = setErr.File
	}
	return types.Failed(err.Error(), file)
}
