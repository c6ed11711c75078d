// Package server runs the trivia service: a TCP listener speaking the line
// protocol, an HTTP gateway bridging the same protocol over websockets, and
// the per-connection session loop shared by both.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"trivia-backend/internal/config"
	"trivia-backend/internal/question"
	"trivia-backend/internal/rate"
	"trivia-backend/internal/registry"
	"trivia-backend/internal/score"
	"trivia-backend/internal/transport"
)

// Server owns the shared state behind every connection: the question bank,
// the scoreboard store and the registry of connected players.
type Server struct {
	cfg      config.Config
	repo     *question.Repository
	store    score.Store
	registry *registry.Registry
	limiter  *rate.Limiter
}

func New(cfg config.Config, repo *question.Repository, store score.Store, reg *registry.Registry) (*Server, error) {
	if cfg.QuestionsPerGame > repo.Len() {
		return nil, fmt.Errorf("%d questions per game exceeds bank size %d", cfg.QuestionsPerGame, repo.Len())
	}
	return &Server{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		registry: reg,
		limiter:  rate.NewLimiter(cfg.ConnRateWindow, cfg.ConnRateLimit),
	}, nil
}

// Run listens on the configured addresses and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	lis, err := net.Listen("tcp", s.cfg.TCPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.TCPAddr, err)
	}
	slog.Info("tcp listener up", slog.String("addr", lis.Addr().String()))
	g.Go(func() error {
		return s.Serve(ctx, lis)
	})

	if s.cfg.HTTPAddr != "" {
		httpSrv := &http.Server{
			Addr:              s.cfg.HTTPAddr,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		slog.Info("http gateway up", slog.String("addr", s.cfg.HTTPAddr))
		g.Go(func() error {
			err := httpSrv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// Serve accepts connections from lis until ctx is canceled, running one
// session goroutine per connection.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		lis.Close()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.limiter.Allow() {
			slog.Warn("connection refused, admission limit reached",
				slog.String("remote", conn.RemoteAddr().String()))
			conn.Close()
			continue
		}

		go func() {
			defer conn.Close()
			s.ServeConn(ctx, transport.NewNetConn(conn, s.cfg.FrameReadLimit))
		}()
	}
}
