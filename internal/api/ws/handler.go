package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/id"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	compileTimeout = 2 * time.Minute
)

// Compiler produces preview documents
type Compiler interface {
	Compile(ctx context.Context, req types.CompileRequest) types.CompileOutcome
}

// Recorder receives stream metrics
type Recorder interface {
	RecordStreamMessage(direction, msgType string)
	IncStreams()
	DecStreams()
}

// Config tunes the preview stream
type Config struct {
	Debounce        time.Duration
	MaxMessageBytes int64
	Limits          utils.Limits
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the preview pane defaults
func DefaultConfig() Config {
	return Config{
		Debounce:        500 * time.Millisecond,
		MaxMessageBytes: 2 << 20,
		Limits:          utils.DefaultLimits(),
	}
}

// Handler manages preview stream connections
type Handler struct {
	compiler Compiler
	recorder Recorder
	logger   *zap.Logger
	config   Config
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(compiler Compiler, recorder Recorder, logger *zap.Logger, cfg Config) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.Limits == (utils.Limits{}) {
		cfg.Limits = utils.DefaultLimits()
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		compiler: compiler,
		recorder: recorder,
		logger:   logger,
		config:   cfg,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// HandleConnection upgrades the request and serves the stream until the
// client disconnects
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	if h.recorder != nil {
		h.recorder.IncStreams()
		defer h.recorder.DecStreams()
	}

	s := newSession(h, conn)
	s.serve(c.Request.Context())
}

// session is one connected preview pane
type session struct {
	h    *Handler
	conn *websocket.Conn
	log  *zap.Logger

	writeMu sync.Mutex

	mu         sync.Mutex
	generation uint64
	pending    *ClientMessage
	timer      *time.Timer
	cancel     context.CancelFunc

	trigger chan struct{}
	wg      sync.WaitGroup
}

func newSession(h *Handler, conn *websocket.Conn) *session {
	log := h.logger.With(
		zap.String("stream_id", id.NewStreamID().String()),
		zap.String("remote", conn.RemoteAddr().String()))
	return &session{
		h:       h,
		conn:    conn,
		log:     log,
		trigger: make(chan struct{}, 1),
	}
}

func (s *session) serve(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer func() {
		cancel()
		s.stopTimer()
		s.wg.Wait()
		s.conn.Close()
	}()

	s.wg.Add(2)
	go s.worker(ctx)
	go s.keepalive(ctx)

	s.send(ServerMessage{Type: TypeConnected, Message: "preview stream ready"})

	s.conn.SetReadLimit(s.h.config.MaxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("preview stream read failed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.record("in", "malformed")
			s.sendError(0, "malformed message: "+err.Error())
			continue
		}
		s.record("in", label(msg.Type))

		switch msg.Type {
		case TypeCompile:
			if err := utils.ValidateSourceSet(msg.Files, s.h.config.Limits); err != nil {
				s.reject(msg.Seq, err)
				continue
			}
			s.enqueue(msg)
		case TypePing:
			s.send(ServerMessage{Type: TypePong, Seq: msg.Seq})
		default:
			s.sendError(msg.Seq, "unknown message type")
		}
	}
}

// reject answers invalid input with a failed result. The input still
// supersedes anything pending or running.
func (s *session) reject(seq int64, err error) {
	s.mu.Lock()
	s.generation++
	s.pending = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.log.Debug("rejected preview input", zap.Int64("seq", seq), zap.Error(err))
	outcome := pipeline.Rejected(err)
	s.send(ServerMessage{Type: TypeResult, Seq: seq, CompileOutcome: &outcome})
}

// enqueue replaces any pending input and restarts the debounce window. A
// compile already running for older input is cancelled.
func (s *session) enqueue(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.pending = &msg
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.h.config.Debounce == 0 {
		s.fire()
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.h.config.Debounce, s.fire)
		return
	}
	s.timer.Reset(s.h.config.Debounce)
}

func (s *session) fire() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *session) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

// worker compiles the latest pending input, one at a time
func (s *session) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
		}

		s.mu.Lock()
		msg := s.pending
		gen := s.generation
		s.pending = nil
		runCtx, cancel := context.WithTimeout(ctx, compileTimeout)
		s.cancel = cancel
		s.mu.Unlock()

		if msg == nil {
			cancel()
			continue
		}

		start := time.Now()
		outcome := s.h.compiler.Compile(runCtx, types.CompileRequest{Framework: msg.Framework, Files: msg.Files})
		cancel()

		if !s.current(gen) {
			s.log.Debug("dropping stale preview result",
				zap.Int64("seq", msg.Seq),
				zap.Duration("duration", time.Since(start)))
			s.record("out", "stale")
			continue
		}
		s.send(ServerMessage{
			Type:           TypeResult,
			Seq:            msg.Seq,
			Duration:       time.Since(start).Milliseconds(),
			CompileOutcome: &outcome,
		})
	}
}

func (s *session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

func (s *session) keepalive(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *session) send(msg ServerMessage) error {
	msg.Timestamp = time.Now().Unix()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Debug("preview stream write failed", zap.Error(err))
		return err
	}
	s.record("out", msg.Type)
	return nil
}

func (s *session) sendError(seq int64, message string) error {
	return s.send(ServerMessage{Type: TypeError, Seq: seq, Message: message})
}

func (s *session) record(direction, msgType string) {
	if s.h.recorder != nil {
		s.h.recorder.RecordStreamMessage(direction, msgType)
	}
}
