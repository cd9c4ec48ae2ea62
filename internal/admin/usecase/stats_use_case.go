package usecase

import (
	"context"
	"time"

	"wmx/internal/domain"
	"wmx/internal/dto"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type StatsRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, statuses ...domain.OrderStatus) (int64, error)
	CountOrdersBetween(ctx context.Context, from, to time.Time) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
	SumRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type StatsUseCase struct {
	repo   StatsRepository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewStatsUseCase(repo StatsRepository, loc *time.Location, logger *zap.Logger) *StatsUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &StatsUseCase{repo: repo, loc: loc, now: time.Now, logger: logger}
}

// OrderStats runs the six aggregates concurrently; the first failure cancels
// the rest.
func (uc *StatsUseCase) OrderStats(ctx context.Context) (*dto.OrderStatsResponse, error) {
	from, to := dayWindow(uc.now(), uc.loc)

	var stats domain.OrderStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalOrders, err = uc.repo.CountOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingOrders, err = uc.repo.CountOrdersByStatus(gctx, domain.OrderStatusWaitingPayment, domain.OrderStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.SuccessOrders, err = uc.repo.CountOrdersByStatus(gctx, domain.OrderStatusSuccess)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = uc.repo.SumRevenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayOrders, err = uc.repo.CountOrdersBetween(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayRevenue, err = uc.repo.SumRevenueBetween(gctx, from, to)
		return err
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("failed to aggregate order stats", zap.Error(err))
		return nil, err
	}

	return &dto.OrderStatsResponse{
		TotalOrders:   stats.TotalOrders,
		PendingOrders: stats.PendingOrders,
		SuccessOrders: stats.SuccessOrders,
		TotalRevenue:  stats.TotalRevenue,
		TodayOrders:   stats.TodayOrders,
		TodayRevenue:  stats.TodayRevenue,
	}, nil
}

// dayWindow returns local midnight of now's day and the following midnight.
func dayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := now.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
