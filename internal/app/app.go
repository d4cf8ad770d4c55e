package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// App runs the transport server alongside the epoch-rotation crank. The crank
// polls the rotator so exactly one rotation applies per epoch, strictly after
// the epoch's end time.
type App struct {
	log     *zap.Logger
	srv     Runner
	rotator Rotator
	tick    time.Duration
}

func New(log *zap.Logger, srv Runner, rotator Rotator, tick time.Duration) *App {
	if tick <= 0 {
		tick = time.Second
	}
	return &App{log: log, srv: srv, rotator: rotator, tick: tick}
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.srv.Run(ctx) }()

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		case now := <-ticker.C:
			rotated, err := a.rotator.RotateIfDue(ctx, now)
			if err != nil {
				a.log.Error("epoch rotation failed", zap.Error(err))
				continue
			}
			if rotated {
				a.log.Info("epoch rotated")
			}
		}
	}
}
