package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// Call results reported to the Recorder
const (
	ResultSuccess     = "success"
	ResultRejected    = "rejected"
	ResultError       = "error"
	ResultBreakerOpen = "breaker_open"
)

var errMalformed = errors.New("malformed compile response")

// statusError marks a non-2xx response
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("compile service returned %d: %s", e.code, e.body)
}

// CompileRemote posts the source set to the compile service. Any failure is
// returned as a pipeline RemoteUnavailable error.
func (c *Client) CompileRemote(ctx context.Context, fw types.Framework, set types.SourceSet) (types.CompileOutcome, error) {
	start := time.Now()
	outcome, err := c.compile(ctx, fw, set)
	result := classify(outcome, err)
	if c.recorder != nil {
		c.recorder.RecordRemoteCall(result)
	}

	if err != nil {
		c.logger.Debug("remote compile failed",
			zap.String("framework", fw.String()),
			zap.String("result", result),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return types.CompileOutcome{}, pipeline.RemoteError(err)
	}
	if !outcome.Success {
		c.logger.Debug("remote compile rejected",
			zap.String("framework", fw.String()),
			zap.String("message", outcome.Error.Message),
			zap.String("file", outcome.Error.File))
		return outcome, pipeline.RemoteError(fmt.Errorf("%s (%s)", outcome.Error.Message, outcome.Error.File))
	}
	return outcome, nil
}

func (c *Client) compile(ctx context.Context, fw types.Framework, set types.SourceSet) (types.CompileOutcome, error) {
	req, err := c.Request(ctx)
	if err != nil {
		return types.CompileOutcome{}, err
	}

	resp, err := c.ExecuteWithBreaker(func() (*resty.Response, error) {
		resp, err := req.
			SetBody(types.CompileRequest{Framework: fw, Files: set}).
			Post(c.baseURL + "/api/compile/" + fw.String())
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, &statusError{code: resp.StatusCode(), body: truncate(resp.String(), 200)}
		}
		return resp, nil
	})
	if err != nil {
		return types.CompileOutcome{}, err
	}

	return decode(resp.Body())
}

// decode parses a compile service payload. Payloads that are neither a
// document nor an error are malformed.
func decode(body []byte) (types.CompileOutcome, error) {
	var outcome types.CompileOutcome
	if err := sonic.Unmarshal(body, &outcome); err != nil {
		return types.CompileOutcome{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if !outcome.Valid() || (outcome.Success && outcome.Document == "") {
		return types.CompileOutcome{}, errMalformed
	}
	return outcome, nil
}

func classify(outcome types.CompileOutcome, err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return ResultBreakerOpen
	case err != nil:
		return ResultError
	case !outcome.Success:
		return ResultRejected
	default:
		return ResultSuccess
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
