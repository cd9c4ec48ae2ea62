package jobs

import (
	"context"
	"fmt"
	"time"

	"wmx/internal/config"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	expiryTimeout = time.Minute
	syncTimeout   = 10 * time.Minute
	syncAction    = "full-sync"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type OrderExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

type CatalogSyncer interface {
	Sync(ctx context.Context, action string) (*dto.SyncResponse, error)
}

// Scheduler runs the background sweeps. Runs of the same job never overlap.
type Scheduler struct {
	cron    *cron.Cron
	expirer OrderExpirer
	syncer  CatalogSyncer
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler registers the order expiry sweep and, when a schedule is
// configured, the periodic reseller full sync.
func NewScheduler(cfg config.JobsConfig, loc *time.Location, expirer OrderExpirer, syncer CatalogSyncer, logger *zap.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	logger = logger.Named("jobs")
	cronLogger := zapCronLogger{logger: logger.Sugar()}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cronParser),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		expirer: expirer,
		syncer:  syncer,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	if cfg.OrderExpirySchedule != "" {
		if _, err := s.cron.AddFunc(cfg.OrderExpirySchedule, s.expireOrders); err != nil {
			cancel()
			return nil, fmt.Errorf("scheduling order expiry %q: %w", cfg.OrderExpirySchedule, err)
		}
	}

	if cfg.ResellerSyncSchedule != "" && syncer != nil {
		if _, err := s.cron.AddFunc(cfg.ResellerSyncSchedule, s.syncCatalog); err != nil {
			cancel()
			return nil, fmt.Errorf("scheduling reseller sync %q: %w", cfg.ResellerSyncSchedule, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) expireOrders() {
	ctx, cancel := context.WithTimeout(s.ctx, expiryTimeout)
	defer cancel()

	n, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("order expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired stale orders", zap.Int("count", n))
	}
}

func (s *Scheduler) syncCatalog() {
	ctx, cancel := context.WithTimeout(s.ctx, syncTimeout)
	defer cancel()

	resp, err := s.syncer.Sync(ctx, syncAction)
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			s.logger.Info("reseller sync skipped, another run holds the lock")
			return
		}
		s.logger.Error("scheduled reseller sync failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled reseller sync done",
		zap.Int("servicesUpserted", resp.ServicesUpserted),
		zap.Int("productsUpserted", resp.ProductsUpserted),
		zap.Int64("productsDeactivated", resp.ProductsDeactivated))
}

type zapCronLogger struct {
	logger *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
