package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "wmx/internal/errors"
	"wmx/internal/infrastructure/redisx"
	"wmx/internal/reseller/client"
	"wmx/internal/reseller/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func gameService(code, game, name string, basic int64, status string) client.GameService {
	return client.GameService{
		Code:   code,
		Game:   game,
		Name:   name,
		Price:  client.Price{Basic: decimal.NewFromInt(basic)},
		Status: status,
	}
}

func sampleSnapshot() []client.GameService {
	return []client.GameService{
		gameService("ML86", "Mobile Legends", "86 Diamonds", 20000, "available"),
		gameService("ML172", "Mobile Legends", "172 Diamonds", 40000, "available"),
		gameService("FF70", "Free Fire", "70 Diamonds", 9500, "empty"),
	}
}

func TestSync_UnknownAction(t *testing.T) {
	uc := NewSyncUseCase(&mockCatalogClient{}, &mockApplier{}, &mockServiceLister{}, nil, 0, "Top Up Game", zap.NewNop())

	_, err := uc.Sync(context.Background(), "sync-everything")

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "action", ve.Details[0].Field)
}

func TestSync_ServicesCollapsesGames(t *testing.T) {
	applier := &mockApplier{
		ApplyServicesFunc: func(_ context.Context, category string, entries []service.ServiceEntry) (service.ApplyResult, error) {
			assert.Equal(t, "Top Up Game", category)
			return service.ApplyResult{Upserted: len(entries), Deactivated: 1}, nil
		},
	}
	cc := &mockCatalogClient{
		GetServicesFunc: func(context.Context) ([]client.GameService, error) { return sampleSnapshot(), nil },
	}
	uc := NewSyncUseCase(cc, applier, &mockServiceLister{}, nil, 0, "Top Up Game", zap.NewNop())

	resp, err := uc.Sync(context.Background(), ActionSyncServices)

	require.NoError(t, err)
	assert.Equal(t, ActionSyncServices, resp.Action)
	assert.Equal(t, 2, resp.ServicesUpserted)
	assert.Equal(t, int64(1), resp.ServicesDeactivated)
	assert.Equal(t, []service.ServiceEntry{
		{Code: "free-fire", Name: "Free Fire"},
		{Code: "mobile-legends", Name: "Mobile Legends"},
	}, applier.services)
	assert.Nil(t, applier.products)
	assert.False(t, resp.FinishedAt.Before(resp.StartedAt))
}

func TestSync_ProductsAppliesMarkupAndAvailability(t *testing.T) {
	applier := &mockApplier{}
	cc := &mockCatalogClient{
		GetProductsFunc: func(_ context.Context, game string) ([]client.GameService, error) {
			var out []client.GameService
			for _, s := range sampleSnapshot() {
				if s.Game == game {
					out = append(out, s)
				}
			}
			return out, nil
		},
	}
	lister := &mockServiceLister{
		ListActiveServiceGamesFunc: func(context.Context) (map[string]string, error) {
			return map[string]string{"mobile-legends": "Mobile Legends", "free-fire": "Free Fire"}, nil
		},
	}
	uc := NewSyncUseCase(cc, applier, lister, nil, 10, "Top Up Game", zap.NewNop())

	resp, err := uc.Sync(context.Background(), ActionSyncProducts)

	require.NoError(t, err)
	assert.Equal(t, 3, resp.ProductsUpserted)

	bySKU := make(map[string]service.ProductEntry)
	for _, p := range applier.products {
		bySKU[p.SKU] = p
	}
	require.Len(t, bySKU, 3)
	assert.Equal(t, "22000", bySKU["ML86"].Price.String())
	assert.Equal(t, "mobile-legends", bySKU["ML86"].ServiceCode)
	assert.Equal(t, "Mobile Legends", bySKU["ML86"].Category)
	assert.True(t, bySKU["ML86"].Available)
	assert.Equal(t, "10450", bySKU["FF70"].Price.String())
	assert.False(t, bySKU["FF70"].Available)
}

func TestSync_ProductsScopedToFetchedServices(t *testing.T) {
	applier := &mockApplier{}
	var fetched []string
	cc := &mockCatalogClient{
		GetProductsFunc: func(_ context.Context, game string) ([]client.GameService, error) {
			fetched = append(fetched, game)
			return []client.GameService{gameService("ML86", "Mobile Legends", "86 Diamonds", 20000, "available")}, nil
		},
	}
	// free-fire is disabled by an admin, so only mobile-legends is listed.
	lister := &mockServiceLister{
		ListActiveServiceGamesFunc: func(context.Context) (map[string]string, error) {
			return map[string]string{"mobile-legends": "Mobile Legends"}, nil
		},
	}
	uc := NewSyncUseCase(cc, applier, lister, nil, 0, "Top Up Game", zap.NewNop())

	_, err := uc.Sync(context.Background(), ActionSyncProducts)

	require.NoError(t, err)
	assert.Equal(t, []string{"Mobile Legends"}, fetched)
	assert.Equal(t, []string{"mobile-legends"}, applier.scope)
}

func TestSync_ProductsFetchFailureAbortsApply(t *testing.T) {
	applier := &mockApplier{}
	cc := &mockCatalogClient{
		GetProductsFunc: func(context.Context, string) ([]client.GameService, error) {
			return nil, apperrors.NewUpstreamError("vip-reseller", "server error", nil)
		},
	}
	lister := &mockServiceLister{
		ListActiveServiceGamesFunc: func(context.Context) (map[string]string, error) {
			return map[string]string{"mobile-legends": "Mobile Legends"}, nil
		},
	}
	uc := NewSyncUseCase(cc, applier, lister, nil, 0, "Top Up Game", zap.NewNop())

	_, err := uc.Sync(context.Background(), ActionSyncProducts)

	_, ok := apperrors.IsUpstreamError(err)
	assert.True(t, ok)
	assert.Nil(t, applier.products)
}

func TestSync_Stock(t *testing.T) {
	applier := &mockApplier{}
	cc := &mockCatalogClient{
		GetStockFunc: func(context.Context) ([]client.StockItem, error) {
			return []client.StockItem{{Code: "ML86", Available: true}, {Code: "FF70", Available: false}}, nil
		},
	}
	uc := NewSyncUseCase(cc, applier, &mockServiceLister{}, nil, 0, "Top Up Game", zap.NewNop())

	resp, err := uc.Sync(context.Background(), ActionSyncStock)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.StockUpdated)
	assert.Equal(t, []service.StockEntry{{SKU: "ML86", Available: true}, {SKU: "FF70", Available: false}}, applier.stock)
}

func TestSync_FullSyncUsesOneSnapshot(t *testing.T) {
	calls := 0
	applier := &mockApplier{}
	cc := &mockCatalogClient{
		GetServicesFunc: func(context.Context) ([]client.GameService, error) {
			calls++
			return sampleSnapshot(), nil
		},
	}
	uc := NewSyncUseCase(cc, applier, &mockServiceLister{}, nil, 0, "Top Up Game", zap.NewNop())

	resp, err := uc.Sync(context.Background(), ActionFullSync)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, resp.ServicesUpserted)
	assert.Equal(t, 3, resp.ProductsUpserted)
	assert.Nil(t, applier.scope)
}

func TestSync_FullSyncStopsWhenServicesFail(t *testing.T) {
	applier := &mockApplier{
		ApplyServicesFunc: func(context.Context, string, []service.ServiceEntry) (service.ApplyResult, error) {
			return service.ApplyResult{}, errors.New("lock wait timeout")
		},
	}
	cc := &mockCatalogClient{
		GetServicesFunc: func(context.Context) ([]client.GameService, error) { return sampleSnapshot(), nil },
	}
	uc := NewSyncUseCase(cc, applier, &mockServiceLister{}, nil, 0, "Top Up Game", zap.NewNop())

	_, err := uc.Sync(context.Background(), ActionFullSync)

	assert.EqualError(t, err, "lock wait timeout")
	assert.Nil(t, applier.products)
}

func TestSync_OverlappingInProcessCallConflicts(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	cc := &mockCatalogClient{
		GetServicesFunc: func(context.Context) ([]client.GameService, error) {
			close(started)
			<-unblock
			return sampleSnapshot(), nil
		},
	}
	uc := NewSyncUseCase(cc, &mockApplier{}, &mockServiceLister{}, nil, 0, "Top Up Game", zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := uc.Sync(context.Background(), ActionSyncServices)
		done <- err
	}()
	<-started

	_, err := uc.Sync(context.Background(), ActionSyncStock)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)

	close(unblock)
	assert.NoError(t, <-done)
}

func TestSync_LeaseHeldByAnotherInstance(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	other := redisx.NewLease(rdb, "wmx:lock:reseller-sync", time.Minute, zap.NewNop())
	release, ok, err := other.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	cc := &mockCatalogClient{
		GetServicesFunc: func(context.Context) ([]client.GameService, error) { return sampleSnapshot(), nil },
	}
	lease := redisx.NewLease(rdb, "wmx:lock:reseller-sync", time.Minute, zap.NewNop())
	uc := NewSyncUseCase(cc, &mockApplier{}, &mockServiceLister{}, lease, 0, "Top Up Game", zap.NewNop())

	_, err = uc.Sync(context.Background(), ActionSyncServices)
	_, conflict := apperrors.IsConflictError(err)
	assert.True(t, conflict)

	release()

	_, err = uc.Sync(context.Background(), ActionSyncServices)
	require.NoError(t, err)
	assert.False(t, mr.Exists("wmx:lock:reseller-sync"))
}
