package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server serves the metrics endpoint on its own listener so scrapes never
// contend with agent traffic.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// NewServer binds a listener on the given port and mounts the collector's
// handler at path. Binding eagerly surfaces port conflicts at startup
// instead of at first scrape.
func NewServer(c *Collector, port int, path string) (*Server, error) {
	if path == "" {
		path = "/metrics"
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind metrics listener on port %d: %w", port, err)
	}

	mux := http.NewServeMux()
	mux.Handle(path, c.Handler())

	return &Server{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln: ln,
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Start serves scrapes until Shutdown. It returns when the server stops;
// run it on its own goroutine.
func (s *Server) Start() error {
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight scrapes up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
