package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/logging"
	"tableflip.dev/focus/pkg/store"
)

// session is everything a command needs to talk to the store.
type session struct {
	cfg         store.Config
	log         *zap.Logger
	persistence store.Persistence
	svc         *app.Service
}

// open loads the configuration, builds the logger and opens the service.
// Callers must Close the session.
func open(ctx context.Context) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Logging())
	if err != nil {
		return nil, err
	}
	p, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", cfg.BasePath(), err)
	}
	svc, err := app.New(ctx, p,
		app.WithLogger(log),
		app.WithCapacities(cfg.Capacities()))
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	log.Debug("store opened", zap.String("path", cfg.BasePath()), zap.String("backend", cfg.Backend()))
	return &session{cfg: cfg, log: log, persistence: p, svc: svc}, nil
}

func (s *session) Close() {
	if err := s.persistence.Close(); err != nil {
		s.log.Warn("close store", zap.Error(err))
	}
	_ = s.log.Sync()
}

// withService opens a session, runs fn and closes it again.
func withService(ctx context.Context, fn func(*session) error) error {
	s, err := open(ctx)
	if err != nil {
		return output.HandleError(err)
	}
	defer s.Close()
	return output.HandleError(fn(s))
}
