package usecase

import (
	"context"
	"sync"

	"wmx/internal/domain"
	"wmx/internal/reseller/client"
	"wmx/internal/reseller/service"
)

type mockCatalogClient struct {
	GetServicesFunc func(ctx context.Context) ([]client.GameService, error)
	GetProductsFunc func(ctx context.Context, game string) ([]client.GameService, error)
	GetStockFunc    func(ctx context.Context) ([]client.StockItem, error)
}

func (m *mockCatalogClient) GetServices(ctx context.Context) ([]client.GameService, error) {
	return m.GetServicesFunc(ctx)
}

func (m *mockCatalogClient) GetProducts(ctx context.Context, game string) ([]client.GameService, error) {
	return m.GetProductsFunc(ctx, game)
}

func (m *mockCatalogClient) GetStock(ctx context.Context) ([]client.StockItem, error) {
	return m.GetStockFunc(ctx)
}

type mockApplier struct {
	mu       sync.Mutex
	services []service.ServiceEntry
	products []service.ProductEntry
	scope    []string
	stock    []service.StockEntry

	ApplyServicesFunc func(ctx context.Context, category string, entries []service.ServiceEntry) (service.ApplyResult, error)
	ApplyProductsFunc func(ctx context.Context, entries []service.ProductEntry, scope []string) (service.ApplyResult, error)
	ApplyStockFunc    func(ctx context.Context, entries []service.StockEntry) (int, error)
}

func (m *mockApplier) ApplyServices(ctx context.Context, category string, entries []service.ServiceEntry) (service.ApplyResult, error) {
	m.mu.Lock()
	m.services = entries
	m.mu.Unlock()
	if m.ApplyServicesFunc != nil {
		return m.ApplyServicesFunc(ctx, category, entries)
	}
	return service.ApplyResult{Upserted: len(entries)}, nil
}

func (m *mockApplier) ApplyProducts(ctx context.Context, entries []service.ProductEntry, scope []string) (service.ApplyResult, error) {
	m.mu.Lock()
	m.products = entries
	m.scope = scope
	m.mu.Unlock()
	if m.ApplyProductsFunc != nil {
		return m.ApplyProductsFunc(ctx, entries, scope)
	}
	return service.ApplyResult{Upserted: len(entries)}, nil
}

func (m *mockApplier) ApplyStock(ctx context.Context, entries []service.StockEntry) (int, error) {
	m.mu.Lock()
	m.stock = entries
	m.mu.Unlock()
	if m.ApplyStockFunc != nil {
		return m.ApplyStockFunc(ctx, entries)
	}
	return len(entries), nil
}

type mockServiceLister struct {
	ListActiveServiceGamesFunc func(ctx context.Context) (map[string]string, error)
}

func (m *mockServiceLister) ListActiveServiceGames(ctx context.Context) (map[string]string, error) {
	return m.ListActiveServiceGamesFunc(ctx)
}

type mockServiceFinder struct {
	FindServiceByIDFunc func(ctx context.Context, id uint64) (*domain.Service, error)
}

func (m *mockServiceFinder) FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error) {
	return m.FindServiceByIDFunc(ctx, id)
}

type mockAccountClient struct {
	GetNicknameFunc func(ctx context.Context, gameCode, userID, zoneID string) (string, error)
	GetProfileFunc  func(ctx context.Context) (*client.Profile, error)
}

func (m *mockAccountClient) GetNickname(ctx context.Context, gameCode, userID, zoneID string) (string, error) {
	return m.GetNicknameFunc(ctx, gameCode, userID, zoneID)
}

func (m *mockAccountClient) GetProfile(ctx context.Context) (*client.Profile, error) {
	return m.GetProfileFunc(ctx)
}
