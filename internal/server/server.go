// Package server implements the TCP billing service: an accept loop that
// dispatches one handler goroutine per connection, and the per-connection
// request/response protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/medibill/internal/store"
)

const defaultIOTimeout = 30 * time.Second

// Server accepts billing connections and prices one encounter per
// connection. Handlers share no mutable state; the store is the only
// shared collaborator and must be safe for concurrent calls.
type Server struct {
	store     store.Store
	log       zerolog.Logger
	ioTimeout time.Duration

	wg sync.WaitGroup
}

// New creates a Server. ioTimeout bounds each connection's total I/O
// (greeting, request read, response write); zero selects the default.
func New(st store.Store, log zerolog.Logger, ioTimeout time.Duration) *Server {
	if ioTimeout <= 0 {
		ioTimeout = defaultIOTimeout
	}
	return &Server{store: st, log: log, ioTimeout: ioTimeout}
}

// ListenAndServe listens on addr and runs Serve until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("billing server listening")
	return s.Serve(ctx, ln)
}

// Serve accepts connections until ctx is cancelled, dispatching each to
// its own goroutine. On cancellation the listener closes immediately so
// no new connections are accepted, then Serve blocks until all in-flight
// handlers finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			// In-flight handlers run to completion across shutdown: the
			// connection deadline bounds them, not the serve context.
			s.handle(context.WithoutCancel(ctx), conn)
		}()
	}

	s.wg.Wait()
	s.log.Info().Msg("billing server stopped")
	return nil
}
