package feed

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// DefaultMaxConnections caps concurrent HTTP connections to the feed.
const DefaultMaxConnections = 64

const shutdownTimeout = 5 * time.Second

// Server serves the hub at /feed and a health check at /healthz.
type Server struct {
	hub      *Hub
	logger   *logging.Logger
	maxConns int
	srv      *http.Server
	addr     net.Addr
	ready    chan struct{}
}

// NewServer creates a server for hub.
func NewServer(hub *Hub, maxConns int, logger *logging.Logger) *Server {
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	s := &Server{
		hub:      hub,
		logger:   logging.OrNop(logger).WithComponent("feed_server"),
		maxConns: maxConns,
		ready:    make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.Handle("/feed", hub)
	mux.HandleFunc("/healthz", s.health)
	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and disconnects every feed client.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	s.addr = ln.Addr()
	close(s.ready)
	s.logger.Info("feed listening", "addr", s.addr.String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(netutil.LimitListener(ln, s.maxConns))
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown feed server")
	}
	s.logger.Info("feed stopped")
	return nil
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the listening address. Valid after Ready is closed.
func (s *Server) Addr() net.Addr { return s.addr }
