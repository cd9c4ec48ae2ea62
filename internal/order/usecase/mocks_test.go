package usecase

import (
	"context"
	"sync"
	"time"

	"wmx/internal/domain"
	"wmx/internal/payment"
)

type mockCatalogRepository struct {
	FindServiceByIDFunc func(ctx context.Context, id uint64) (*domain.Service, error)
	FindProductByIDFunc func(ctx context.Context, id uint64) (*domain.Product, error)
}

func (m *mockCatalogRepository) FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error) {
	return m.FindServiceByIDFunc(ctx, id)
}

func (m *mockCatalogRepository) FindProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	return m.FindProductByIDFunc(ctx, id)
}

type mockOrderWriter struct {
	CreateWithItemFunc func(ctx context.Context, order *domain.Order, item *domain.OrderItem) error
}

func (m *mockOrderWriter) CreateWithItem(ctx context.Context, order *domain.Order, item *domain.OrderItem) error {
	return m.CreateWithItemFunc(ctx, order, item)
}

type mockPaymentWriter struct {
	InsertFunc func(ctx context.Context, p *domain.Payment) error
}

func (m *mockPaymentWriter) Insert(ctx context.Context, p *domain.Payment) error {
	return m.InsertFunc(ctx, p)
}

type mockGateway struct {
	CreateTransactionFunc func(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

func (m *mockGateway) CreateTransaction(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	return m.CreateTransactionFunc(ctx, req)
}

type publishedEvent struct {
	EventType string
	Key       string
	Payload   any
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, eventType, key string, payload any) error
	mu          sync.Mutex
	events      []publishedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	m.mu.Lock()
	m.events = append(m.events, publishedEvent{EventType: eventType, Key: key, Payload: payload})
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, eventType, key, payload)
	}
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockOrderReader struct {
	FindByOrderNumberFunc func(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindLatestByEmailFunc func(ctx context.Context, email string) (*domain.Order, error)
}

func (m *mockOrderReader) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return m.FindByOrderNumberFunc(ctx, orderNumber)
}

func (m *mockOrderReader) FindLatestByEmail(ctx context.Context, email string) (*domain.Order, error) {
	return m.FindLatestByEmailFunc(ctx, email)
}

type mockOrderItemReader struct {
	FindByOrderIDFunc func(ctx context.Context, orderID uint64) ([]domain.OrderItem, error)
}

func (m *mockOrderItemReader) FindByOrderID(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

type mockPaymentReader struct {
	FindByOrderIDFunc func(ctx context.Context, orderID uint64) (*domain.Payment, error)
}

func (m *mockPaymentReader) FindByOrderID(ctx context.Context, orderID uint64) (*domain.Payment, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

type mockStaleOrderExpirer struct {
	ExpireStaleFunc func(ctx context.Context, cutoff, now time.Time, limit int) ([]domain.Order, error)
}

func (m *mockStaleOrderExpirer) ExpireStale(ctx context.Context, cutoff, now time.Time, limit int) ([]domain.Order, error) {
	return m.ExpireStaleFunc(ctx, cutoff, now, limit)
}
