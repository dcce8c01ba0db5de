package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/gridscope/core"
)

// Server exposes a registry at /metrics; an empty address disables it
type Server struct {
	reg  *Registry
	addr string

	mu     sync.Mutex
	srv    *http.Server
	bound  string
	closed bool
}

func NewServer(reg *Registry) *Server {
	return &Server{reg: reg}
}

func (s *Server) Name() string           { return "metrics" }
func (s *Server) Dependencies() []string { return nil }

// Init accepts the listen address as the first string argument
func (s *Server) Init(args ...any) error {
	for _, a := range args {
		if addr, ok := a.(string); ok {
			s.addr = addr
			break
		}
	}
	return nil
}

func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" || s.srv != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", s.addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg.Prometheus(), promhttp.HandlerOpts{}))
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.bound = ln.Addr().String()

	srv := s.srv
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: serve: %v", err)
		}
	})
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil || s.closed {
		return nil
	}
	s.closed = true
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
