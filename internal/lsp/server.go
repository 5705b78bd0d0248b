// Package lsp serves the language server protocol over a byte stream.
//
// Every piece of state (documents, module index, composer) is owned by the
// goroutine running Server.Run. The reader goroutine only decodes frames and
// the file watcher only forwards events; both hand their work over on
// channels.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"go.trai.ch/zerr"

	"wgslsp/internal/config"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/document"
	"wgslsp/internal/semtok"
	"wgslsp/internal/source"
	"wgslsp/internal/trace"
	"wgslsp/internal/watch"
	"wgslsp/internal/workspace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = zerr.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = zerr.New("lsp exit without shutdown")
)

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	Tracer trace.Tracer
	// Config replaces the wgslsp.toml lookup done at initialize.
	Config *config.Config
	// Watch starts an fsnotify watcher over the workspace when the config
	// allows it.
	Watch bool
	// TraceOut receives the trace ring after a handler panic. Defaults to
	// stderr.
	TraceOut io.Writer
}

type frame struct {
	payload []byte
	err     error
}

// Server handles JSON-RPC for the WGSL language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	log      *log.Logger
	tracer   trace.Tracer
	traceOut io.Writer
	opts     Options
	ctx      context.Context

	cfg       config.Config
	docs      *document.Store
	ws        *workspace.State
	tokens    *semtok.Cache
	enc       source.Encoding
	roots     []string
	published map[source.Location]struct{}
	nextID    int

	initialized       bool
	shutdownRequested bool
	traceLSP          bool
	watchClient       bool

	watcher     *watch.Watcher
	watchEvents <-chan watch.Event
}

// NewServer constructs a server reading requests from in and writing
// responses and notifications to out.
func NewServer(in io.Reader, out io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	traceOut := opts.TraceOut
	if traceOut == nil {
		traceOut = os.Stderr
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	s := &Server{
		in:        bufio.NewReader(in),
		out:       bufio.NewWriter(out),
		log:       logger.WithPrefix("lsp"),
		tracer:    tracer,
		traceOut:  traceOut,
		opts:      opts,
		ctx:       context.Background(),
		cfg:       cfg,
		docs:      document.NewStore(),
		enc:       source.UTF16,
		published: make(map[source.Location]struct{}),
	}
	s.ws = workspace.New(s.docs, s, workspace.Options{Logger: logger, Tracer: tracer, Encoding: s.enc})
	s.resizeTokens()
	return s
}

// resizeTokens rebuilds the token cache for the configured size. A rejected
// size keeps the current cache, or the default one when there is none.
func (s *Server) resizeTokens() {
	size := s.cfg.Server.TokenCacheSize
	tokens, err := semtok.NewCache(size)
	if err != nil {
		s.log.Warn("token cache size rejected", "size", size, "err", err)
		if s.tokens != nil {
			return
		}
		tokens = semtok.MustNewCache(semtok.DefaultCacheSize)
	}
	s.tokens = tokens
}

// Workspace exposes the validation state, mostly for tests.
func (s *Server) Workspace() *workspace.State { return s.ws }

// Run serves requests until the stream ends or the client sends "exit".
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx
	defer s.stopWatcher()

	frames := make(chan frame)
	go s.readLoop(ctx, frames)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-frames:
			if f.err != nil {
				if errors.Is(f.err, io.EOF) {
					return nil
				}
				return f.err
			}
			var msg rpcMessage
			if err := json.Unmarshal(f.payload, &msg); err != nil {
				s.log.Warn("failed to parse message", "err", err)
				continue
			}
			if msg.Method == "" {
				// ответ клиента на наш запрос
				continue
			}
			if err := s.dispatch(&msg); err != nil {
				return err
			}
		case ev, ok := <-s.watchEvents:
			if !ok {
				s.watchEvents = nil
				continue
			}
			s.fileChanged(ev.Location, ev.Kind)
		}
	}
}

func (s *Server) readLoop(ctx context.Context, frames chan<- frame) {
	for {
		payload, err := readMessage(s.in)
		select {
		case frames <- frame{payload: payload, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one handler. A panicking handler is reported to the client
// instead of taking the server down, and the trace ring is dumped.
func (s *Server) dispatch(msg *rpcMessage) (err error) {
	span := trace.Begin(s.tracer, trace.ScopeRequest, msg.Method)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panicked", "method", msg.Method, "panic", r)
			if dumpErr := trace.Dump(s.tracer, s.traceOut); dumpErr != nil {
				s.log.Warn("trace dump failed", "err", dumpErr)
			}
			span.With("panic", fmt.Sprint(r))
			if len(msg.ID) > 0 {
				err = s.sendError(msg.ID, codeInternalError, fmt.Sprintf("internal error: %v", r))
			}
		}
		span.End("")
	}()
	if s.traceLSP {
		s.log.Info("request", "method", msg.Method)
	}
	return s.handle(msg)
}

func (s *Server) handle(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	if !s.initialized {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeNotInitialized, "server not initialized")
		}
		return nil
	}
	if s.shutdownRequested && len(msg.ID) > 0 {
		return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
	}
	switch msg.Method {
	case "initialized":
		return s.handleInitialized()
	case "shutdown":
		return s.handleShutdown(msg)
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "workspace/didChangeWatchedFiles":
		return s.handleDidChangeWatchedFiles(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokens(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

// decode unmarshals request params. On failure it answers requests with
// "invalid params" and reports false.
func (s *Server) decode(msg *rpcMessage, v any) (bool, error) {
	if err := json.Unmarshal(msg.Params, v); err != nil {
		s.log.Warn("invalid params", "method", msg.Method, "err", err)
		if len(msg.ID) > 0 {
			return false, s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
		return false, nil
	}
	return true, nil
}

// Publish implements diagmap.Sink.
func (s *Server) Publish(loc source.Location, diags []diagmap.Diagnostic) {
	if len(diags) == 0 {
		delete(s.published, loc)
	} else {
		s.published[loc] = struct{}{}
	}
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		list = append(list, toLSP(d))
	}
	err := s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         loc.String(),
		Diagnostics: list,
	})
	if err != nil {
		s.log.Warn("publish failed", "location", loc, "err", err)
	}
}

func (s *Server) clearPublished() {
	for loc := range s.published {
		s.Publish(loc, nil)
	}
}

func (s *Server) logMessage(kind int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if err := s.notify("window/logMessage", logMessageParams{Type: kind, Message: msg}); err != nil {
		s.log.Warn("logMessage failed", "err", err)
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	})
}

func (s *Server) notify(method string, params any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (s *Server) request(method string, params any) error {
	s.nextID++
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      s.nextID,
		"method":  method,
		"params":  params,
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return zerr.Wrap(err, "encode message")
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}
