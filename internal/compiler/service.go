package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

// Service compiles source sets into preview documents
type Service struct {
	cache       *Cache
	hasher      *utils.Hasher
	limits      utils.Limits
	runtime     pipeline.Runtime
	toolchains  *Toolchains
	transformer *pipeline.Transformer
	logger      *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCache sets the outcome cache
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLimits sets request size limits
func WithLimits(l utils.Limits) Option {
	return func(s *Service) { s.limits = l }
}

// WithRuntime sets the browser runtime URLs
func WithRuntime(rt pipeline.Runtime) Option {
	return func(s *Service) { s.runtime = rt }
}

// WithToolchains sets external toolchains
func WithToolchains(t *Toolchains) Option {
	return func(s *Service) { s.toolchains = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a compile service
func NewService(opts ...Option) *Service {
	s := &Service{
		hasher:  utils.DefaultHasher(),
		limits:  utils.DefaultLimits(),
		runtime: pipeline.DefaultRuntime(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transformer = pipeline.NewTransformer(pipeline.WithRuntime(s.runtime))
	return s
}

// Limits returns the request size limits
func (s *Service) Limits() utils.Limits {
	return s.limits
}

// Compile builds set for fw. Failures are reported in the outcome.
func (s *Service) Compile(ctx context.Context, fw types.Framework, set types.SourceSet) types.CompileOutcome {
	if !fw.Valid() {
		return types.Failed(fmt.Sprintf("unsupported framework: %s", fw), pipeline.UnknownFile)
	}
	if err := utils.ValidateSourceSet(set, s.limits); err != nil {
		return types.Failed(err.Error(), pipeline.UnknownFile)
	}

	key := s.hasher.HashRequest(fw, set)
	if outcome, ok := s.cache.Get(key); ok {
		return outcome
	}

	start := time.Now()
	outcome := s.build(ctx, fw, set)
	s.logger.Debug("compile service build",
		zap.String("framework", fw.String()),
		zap.Bool("success", outcome.Success),
		zap.String("key", utils.ShortHash(key)),
		zap.Duration("duration", time.Since(start)))

	s.cache.Put(key, outcome)
	return outcome
}

func (s *Service) build(ctx context.Context, fw types.Framework, set types.SourceSet) types.CompileOutcome {
	if tc, ok := s.toolchains.For(fw); ok {
		return s.runToolchain(ctx, tc, fw, set)
	}

	var (
		outcome types.CompileOutcome
		err     error
	)
	switch fw {
	case types.FrameworkReact:
		outcome, err = s.compileReact(set)
	case types.FrameworkVue:
		outcome, err = s.compileVue(set)
	case types.FrameworkSvelte:
		err = fmt.Errorf("%w: svelte components need an external toolchain", ErrToolchainUnavailable)
	default:
		outcome, err = s.compilePlain(fw, set)
	}
	if err != nil {
		return toOutcome(err)
	}
	return outcome
}

// compilePlain inlines the stylesheet and entry script
func (s *Service) compilePlain(fw types.Framework, set types.SourceSet) (types.CompileOutcome, error) {
	sel, err := pipeline.Resolve(fw, set)
	if err != nil {
		return types.CompileOutcome{}, err
	}
	result, err := s.transformer.Transform(sel, set)
	if err != nil {
		return types.CompileOutcome{}, err
	}
	markup, _ := set.Get(sel.Markup)
	return types.Succeeded(pipeline.Assemble(markup.Content, result.Injection), result.Warnings...), nil
}

func (s *Service) runToolchain(ctx context.Context, tc Toolchain, fw types.Framework, set types.SourceSet) types.CompileOutcome {
	if _, err := pipeline.Resolve(fw, set); err != nil {
		return toOutcome(err)
	}
	doc, err := tc.Run(ctx, set)
	if err != nil {
		s.logger.Warn("toolchain build failed",
			zap.String("framework", fw.String()),
			zap.String("command", tc.Command),
			zap.Error(err))
		return types.Failed(err.Error(), pipeline.UnknownFile)
	}
	return types.Succeeded(doc)
}

// toOutcome maps build errors onto the outcome contract
func toOutcome(err error) types.CompileOutcome {
	var perr *pipeline.Error
	if errors.As(err, &perr) {
		return types.Failed(perr.Message, perr.File)
	}
	var berr *BuildError
	if errors.As(err, &berr) {
		return types.FailedAt(berr.Message, berr.File, berr.Line, berr.Column)
	}
	return types.Failed(err.Error(), pipeline.UnknownFile)
}
