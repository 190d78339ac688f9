package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/sourcegraph/conc/pool"
)

// Entitlements is the read side the reconciliation loop polls.
type Entitlements interface {
	LinkedIdentities(ctx context.Context) ([]domain.Identity, error)
	IsEntitled(ctx context.Context, ident domain.Identity) (bool, error)
}

type ReconcileReport struct {
	Checked  int
	Entitled int
	Revoked  int
	Skipped  int
	Failed   int
}

// ReconcileService periodically removes the external role from linked
// identities that are banned or hold no valid key. It never grants; grants
// happen synchronously on redemption, link and unban.
type ReconcileService struct {
	Entitlements Entitlements
	Sink         rolesink.RoleSink
	Logger       *slog.Logger
	Interval     time.Duration
	Timeout      time.Duration
	Workers      int

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewReconcileService fills defaults: one hour interval, DefaultSinkTimeout
// per external call and four workers.
func NewReconcileService(
	ent Entitlements,
	sink rolesink.RoleSink,
	logger *slog.Logger,
	interval, timeout time.Duration,
	workers int,
) *ReconcileService {
	if interval <= 0 {
		interval = time.Hour
	}
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileService{
		Entitlements: ent,
		Sink:         sink,
		Logger:       logger,
		Interval:     interval,
		Timeout:      timeout,
		Workers:      workers,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start runs a pass immediately and then on every tick.
func (s *ReconcileService) Start() {
	go s.run()
	s.Logger.Info("reconciliation started", "interval", s.Interval, "workers", s.Workers)
}

// Stop prevents further ticks and waits for an in-flight pass to finish.
func (s *ReconcileService) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
	s.Logger.Info("reconciliation stopped")
}

func (s *ReconcileService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.pass()

	for {
		select {
		case <-ticker.C:
			s.pass()
		case <-s.stopCh:
			return
		}
	}
}

// pass is detached from Stop so a running cycle is never cut short.
func (s *ReconcileService) pass() {
	if _, err := s.RunOnce(context.Background()); err != nil {
		s.Logger.Error("reconciliation pass failed", "error", err)
	}
}

// RunOnce reconciles every linked identity. Failures for one identity never
// stop the others.
func (s *ReconcileService) RunOnce(ctx context.Context) (ReconcileReport, error) {
	started := time.Now()

	idents, err := s.Entitlements.LinkedIdentities(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	var entitled, revoked, skipped, failed atomic.Int64
	roles := newRoleSync(s.Sink, s.Timeout)

	p := pool.New().WithMaxGoroutines(s.Workers)
	for _, ident := range idents {
		p.Go(func() {
			log := s.Logger.With(
				slog.String("identity_id", ident.ID),
				slog.String("external_id", ident.ExternalID),
			)

			ok, err := s.Entitlements.IsEntitled(ctx, ident)
			if err != nil {
				failed.Add(1)
				log.Error("entitlement check failed", slog.Any("error", err))
				return
			}
			if ok {
				entitled.Add(1)
				return
			}

			err = roles.revoke(ctx, ident.ExternalID)
			switch {
			case err == nil:
				revoked.Add(1)
				log.Debug("stale role revoked", slog.Bool("banned", ident.Banned))
			case errors.Is(err, rolesink.ErrAccountNotFound):
				skipped.Add(1)
				log.Debug("external account not found, skipping")
			default:
				failed.Add(1)
				log.Warn("role revoke failed", slog.Any("error", err))
			}
		})
	}
	p.Wait()

	report := ReconcileReport{
		Checked:  len(idents),
		Entitled: int(entitled.Load()),
		Revoked:  int(revoked.Load()),
		Skipped:  int(skipped.Load()),
		Failed:   int(failed.Load()),
	}
	s.Logger.Info("reconciliation pass completed",
		slog.Int("checked", report.Checked),
		slog.Int("entitled", report.Entitled),
		slog.Int("revoked", report.Revoked),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Duration("took", time.Since(started)),
	)
	return report, nil
}
