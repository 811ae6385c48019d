package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// Local adapts a Service to the pipeline's out-of-process compiler role
type Local struct {
	service *Service
}

// NewLocal wraps s
func NewLocal(s *Service) *Local {
	return &Local{service: s}
}

// CompileRemote runs the service in process. An unsuccessful outcome is
// returned together with a RemoteUnavailable error so the pipeline falls
// back.
func (l *Local) CompileRemote(ctx context.Context, fw types.Framework, set types.SourceSet) (types.CompileOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.CompileOutcome{}, pipeline.RemoteError(err)
	}
	outcome := l.service.Compile(ctx, fw, set)
	if outcome.Success {
		return outcome, nil
	}
	msg := "compile failed"
	if outcome.Error != nil {
		msg = fmt.Sprintf("%s (%s)", outcome.Error.Message, outcome.Error.File)
	}
	return outcome, pipeline.RemoteError(errors.New(msg))
}
