package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/reseller/client"
	"wmx/internal/reseller/service"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ActionSyncServices = "sync-services"
	ActionSyncProducts = "sync-products"
	ActionSyncStock    = "sync-stock"
	ActionFullSync     = "full-sync"

	productFetchConcurrency = 4
)

type CatalogClient interface {
	GetServices(ctx context.Context) ([]client.GameService, error)
	GetProducts(ctx context.Context, game string) ([]client.GameService, error)
	GetStock(ctx context.Context) ([]client.StockItem, error)
}

type CatalogApplier interface {
	ApplyServices(ctx context.Context, category string, entries []service.ServiceEntry) (service.ApplyResult, error)
	ApplyProducts(ctx context.Context, entries []service.ProductEntry, scope []string) (service.ApplyResult, error)
	ApplyStock(ctx context.Context, entries []service.StockEntry) (int, error)
}

type ServiceLister interface {
	ListActiveServiceGames(ctx context.Context) (map[string]string, error)
}

// Locker guards a sync across instances. redisx.Lease satisfies it.
type Locker interface {
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

type SyncUseCase struct {
	client   CatalogClient
	applier  CatalogApplier
	services ServiceLister
	locker   Locker
	markup   decimal.Decimal
	category string
	logger   *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewSyncUseCase builds the syncer. locker may be nil, in which case only
// the in-process guard applies.
func NewSyncUseCase(
	catalogClient CatalogClient,
	applier CatalogApplier,
	services ServiceLister,
	locker Locker,
	markupPercent float64,
	category string,
	logger *zap.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		client:   catalogClient,
		applier:  applier,
		services: services,
		locker:   locker,
		markup:   decimal.NewFromFloat(markupPercent),
		category: category,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync runs one action. Overlapping calls get a ConflictError rather than
// waiting for the running one.
func (uc *SyncUseCase) Sync(ctx context.Context, action string) (*dto.SyncResponse, error) {
	run, ok := uc.actions()[action]
	if !ok {
		return nil, apperrors.NewValidationError("unknown sync action", apperrors.ValidationDetail{
			Field:   "action",
			Message: "action must be one of [sync-services sync-products sync-stock full-sync]",
		})
	}

	if !uc.mu.TryLock() {
		return nil, syncRunning()
	}
	defer uc.mu.Unlock()

	if uc.locker != nil {
		release, acquired, err := uc.locker.Acquire(ctx)
		if err != nil {
			uc.logger.Error("failed to acquire sync lease", zap.Error(err))
			return nil, apperrors.NewInternalError("could not acquire sync lock", err)
		}
		if !acquired {
			return nil, syncRunning()
		}
		defer release()
	}

	resp := &dto.SyncResponse{Action: action, StartedAt: uc.now()}
	uc.logger.Info("reseller sync started", zap.String("action", action))

	if err := run(ctx, resp); err != nil {
		uc.logger.Error("reseller sync failed", zap.String("action", action), zap.Error(err))
		return nil, err
	}

	resp.FinishedAt = uc.now()
	uc.logger.Info("reseller sync finished",
		zap.String("action", action),
		zap.Duration("took", resp.FinishedAt.Sub(resp.StartedAt)))
	return resp, nil
}

func (uc *SyncUseCase) actions() map[string]func(context.Context, *dto.SyncResponse) error {
	return map[string]func(context.Context, *dto.SyncResponse) error{
		ActionSyncServices: uc.syncServices,
		ActionSyncProducts: uc.syncProducts,
		ActionSyncStock:    uc.syncStock,
		ActionFullSync:     uc.fullSync,
	}
}

func (uc *SyncUseCase) syncServices(ctx context.Context, resp *dto.SyncResponse) error {
	snapshot, err := uc.client.GetServices(ctx)
	if err != nil {
		return err
	}
	return uc.applyServices(ctx, snapshot, resp)
}

func (uc *SyncUseCase) syncProducts(ctx context.Context, resp *dto.SyncResponse) error {
	games, err := uc.services.ListActiveServiceGames(ctx)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		snapshot []client.GameService
	)
	scope := make([]string, 0, len(games))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(productFetchConcurrency)
	for code, name := range games {
		scope = append(scope, code)
		name := name
		g.Go(func() error {
			items, err := uc.client.GetProducts(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			snapshot = append(snapshot, items...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Strings(scope)
	return uc.applyProducts(ctx, snapshot, scope, resp)
}

func (uc *SyncUseCase) syncStock(ctx context.Context, resp *dto.SyncResponse) error {
	stock, err := uc.client.GetStock(ctx)
	if err != nil {
		return err
	}

	entries := make([]service.StockEntry, 0, len(stock))
	for _, s := range stock {
		entries = append(entries, service.StockEntry{SKU: s.Code, Available: s.Available})
	}

	resp.StockUpdated, err = uc.applier.ApplyStock(ctx, entries)
	return err
}

// fullSync applies a single services snapshot to both services and products.
// Product upserts carry availability, so no separate stock pass is needed.
func (uc *SyncUseCase) fullSync(ctx context.Context, resp *dto.SyncResponse) error {
	snapshot, err := uc.client.GetServices(ctx)
	if err != nil {
		return err
	}
	if err := uc.applyServices(ctx, snapshot, resp); err != nil {
		return err
	}
	return uc.applyProducts(ctx, snapshot, nil, resp)
}

func (uc *SyncUseCase) applyServices(ctx context.Context, snapshot []client.GameService, resp *dto.SyncResponse) error {
	result, err := uc.applier.ApplyServices(ctx, uc.category, serviceEntries(snapshot))
	if err != nil {
		return err
	}
	resp.ServicesUpserted = result.Upserted
	resp.ServicesDeactivated = result.Deactivated
	return nil
}

// applyProducts deactivates missing products only within scope; nil scope
// means the snapshot is the reseller's whole catalog.
func (uc *SyncUseCase) applyProducts(ctx context.Context, snapshot []client.GameService, scope []string, resp *dto.SyncResponse) error {
	entries := make([]service.ProductEntry, 0, len(snapshot))
	for _, s := range snapshot {
		entries = append(entries, service.ProductEntry{
			ServiceCode: slug.Make(s.Game),
			SKU:         s.Code,
			Name:        s.Name,
			Price:       uc.sellingPrice(s.Price.Basic),
			Category:    s.Game,
			Available:   s.Available(),
		})
	}

	result, err := uc.applier.ApplyProducts(ctx, entries, scope)
	if err != nil {
		return err
	}
	resp.ProductsUpserted = result.Upserted
	resp.ProductsDeactivated = result.Deactivated
	return nil
}

func (uc *SyncUseCase) sellingPrice(basic decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(uc.markup.Div(decimal.NewFromInt(100)))
	return basic.Mul(factor).Round(2)
}

// serviceEntries collapses denominations into one entry per game, sorted by code.
func serviceEntries(snapshot []client.GameService) []service.ServiceEntry {
	seen := make(map[string]string)
	for _, s := range snapshot {
		if s.Game == "" {
			continue
		}
		code := slug.Make(s.Game)
		if _, ok := seen[code]; !ok {
			seen[code] = s.Game
		}
	}

	entries := make([]service.ServiceEntry, 0, len(seen))
	for code, name := range seen {
		entries = append(entries, service.ServiceEntry{Code: code, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}

func syncRunning() error {
	return apperrors.NewConflictError("reseller sync already running")
}
