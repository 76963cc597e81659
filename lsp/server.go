package lsp

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/version"
)

// WebSocketPath is where ListenAndServe mounts the LSP endpoint.
const WebSocketPath = "/lsp"

// Server runs language server sessions. Every connection gets its own
// Handler and document store; the provider is shared.
type Server struct {
	provider *completion.Provider
	opts     Options
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger

	// serveStdio runs the glsp stdio loop. It reads os.Stdin and has no
	// cancellation of its own.
	serveStdio func(*glspserver.Server) error
}

// NewServer creates a server for provider.
func NewServer(provider *completion.Provider, opts Options) *Server {
	s := &Server{
		provider: provider,
		opts:     opts,
		logger:   logger.ComponentLogger("lsp.server"),

		serveStdio: func(srv *glspserver.Server) error { return srv.RunStdio() },
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

// RunStdio serves a single session over stdin/stdout until the client exits
// or ctx is cancelled. On cancellation it returns without waiting for the
// stdio loop, which stays blocked on stdin until the process exits.
func (s *Server) RunStdio(ctx context.Context) error {
	h, err := NewHandler(ctx, s.provider, s.opts)
	if err != nil {
		return err
	}
	s.logger.Infow("Serving LSP over stdio", logger.FieldProvider, s.provider.Name())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.serveStdio(glspserver.NewServer(h.Protocol(), version.Name, false))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "stdio session")
		}
		return nil
	case <-ctx.Done():
		s.logger.Infow("Stdio session stopped", logger.FieldError, ctx.Err())
		return nil
	}
}

// ServeHTTP upgrades the request to a WebSocket and serves one session on
// it. It blocks until the connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("Failed to upgrade WebSocket", logger.FieldAddress, r.RemoteAddr, logger.FieldError, err)
		return
	}

	h, err := NewHandler(r.Context(), s.provider, s.opts)
	if err != nil {
		s.logger.Errorw("Failed to create session", logger.FieldError, err)
		_ = conn.Close()
		return
	}

	s.logger.Infow("Serving LSP over WebSocket", logger.FieldAddress, r.RemoteAddr)
	glspserver.NewServer(h.Protocol(), version.Name, false).ServeWebSocket(conn)
	s.logger.Infow("WebSocket session closed", logger.FieldAddress, r.RemoteAddr)
}

// ListenAndServe serves WebSocket sessions on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WithHint(errors.Wrapf(err, "listen on %s", addr), "choose another address with --ws")
	}
	return s.Serve(ctx, ln)
}

// Serve accepts WebSocket sessions on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(WebSocketPath, s)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("LSP WebSocket endpoint listening", logger.FieldAddress, "ws://"+ln.Addr().String()+WebSocketPath)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "websocket server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warnw("WebSocket server shutdown", logger.FieldError, err)
		}
		<-errCh
		return nil
	}
}

// checkOrigin accepts requests without an Origin header (editors, tests)
// and browser origins whose scheme and host equal a configured origin. A
// configured origin without a port admits every port.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil {
		for _, allowed := range s.opts.AllowedOrigins {
			if originMatches(u, allowed) {
				return true
			}
		}
	}
	s.logger.Warnw("WebSocket origin rejected", "origin", origin)
	return false
}

func originMatches(origin *url.URL, allowed string) bool {
	a, err := url.Parse(allowed)
	if err != nil || a.Host == "" {
		return false
	}
	if !strings.EqualFold(origin.Scheme, a.Scheme) || !strings.EqualFold(origin.Hostname(), a.Hostname()) {
		return false
	}
	return a.Port() == "" || a.Port() == origin.Port()
}
