package usecase

import (
	"context"
	"testing"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCatalogRepository struct {
	ListActiveCategoriesFunc        func(ctx context.Context) ([]domain.Category, error)
	FindServiceByIDFunc             func(ctx context.Context, id uint64) (*domain.Service, error)
	ListActiveProductsByServiceFunc func(ctx context.Context, serviceID uint64) ([]domain.Product, error)
	CreateCategoryFunc              func(ctx context.Context, c *domain.Category) error
	ToggleActiveFunc                func(ctx context.Context, entity domain.EntityType, id uint64) (string, bool, error)
}

func (m *mockCatalogRepository) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	return m.ListActiveCategoriesFunc(ctx)
}

func (m *mockCatalogRepository) FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error) {
	return m.FindServiceByIDFunc(ctx, id)
}

func (m *mockCatalogRepository) ListActiveProductsByService(ctx context.Context, serviceID uint64) ([]domain.Product, error) {
	return m.ListActiveProductsByServiceFunc(ctx, serviceID)
}

func (m *mockCatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return m.CreateCategoryFunc(ctx, c)
}

func (m *mockCatalogRepository) ToggleActive(ctx context.Context, entity domain.EntityType, id uint64) (string, bool, error) {
	return m.ToggleActiveFunc(ctx, entity, id)
}

func TestToggle_TwiceRestoresOriginalState(t *testing.T) {
	active := map[uint64]bool{5: true}
	repo := &mockCatalogRepository{
		ToggleActiveFunc: func(ctx context.Context, entity domain.EntityType, id uint64) (string, bool, error) {
			current, ok := active[id]
			if !ok {
				return "", false, apperrors.NewNotFoundError("product not found")
			}
			active[id] = !current
			return "86 Diamonds", active[id], nil
		},
	}
	uc := NewCatalogUseCase(repo, zap.NewNop())
	req := dto.ToggleRequest{Type: "product", ID: 5}

	first, err := uc.Toggle(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.IsActive)

	second, err := uc.Toggle(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.IsActive)
	assert.True(t, active[5])
}

func TestToggle_InvalidType(t *testing.T) {
	uc := NewCatalogUseCase(&mockCatalogRepository{}, zap.NewNop())

	_, err := uc.Toggle(context.Background(), dto.ToggleRequest{Type: "order", ID: 1})
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	var saved domain.Category
	repo := &mockCatalogRepository{
		CreateCategoryFunc: func(ctx context.Context, c *domain.Category) error {
			c.ID = 3
			saved = *c
			return nil
		},
	}

	out, err := NewCatalogUseCase(repo, zap.NewNop()).CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "  Top Up Game & Voucher "})
	require.NoError(t, err)
	assert.Equal(t, "top-up-game-and-voucher", out.Slug)
	assert.Equal(t, "Top Up Game & Voucher", saved.Name)
	assert.True(t, saved.IsActive)
	assert.Equal(t, uint64(3), out.ID)
	assert.NotNil(t, out.Services)
}

func TestCreateCategory_SlugConflictRetries(t *testing.T) {
	var tried []string
	repo := &mockCatalogRepository{
		CreateCategoryFunc: func(ctx context.Context, c *domain.Category) error {
			tried = append(tried, c.Slug)
			if len(tried) < 3 {
				return apperrors.NewConflictError("slug taken")
			}
			return nil
		},
	}

	out, err := NewCatalogUseCase(repo, zap.NewNop()).CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "Voucher"})
	require.NoError(t, err)
	assert.Equal(t, []string{"voucher", "voucher-2", "voucher-3"}, tried)
	assert.Equal(t, "voucher-3", out.Slug)
}

func TestCreateCategory_SlugExhausted(t *testing.T) {
	calls := 0
	repo := &mockCatalogRepository{
		CreateCategoryFunc: func(ctx context.Context, c *domain.Category) error {
			calls++
			return apperrors.NewConflictError("slug taken")
		},
	}

	_, err := NewCatalogUseCase(repo, zap.NewNop()).CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "Voucher"})
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, maxSlugAttempts, calls)
}

func TestCreateCategory_EmptySlug(t *testing.T) {
	_, err := NewCatalogUseCase(&mockCatalogRepository{}, zap.NewNop()).CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "!!!"})
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestListProducts_InactiveService(t *testing.T) {
	repo := &mockCatalogRepository{
		FindServiceByIDFunc: func(ctx context.Context, id uint64) (*domain.Service, error) {
			return &domain.Service{ID: id, IsActive: false}, nil
		},
	}

	_, err := NewCatalogUseCase(repo, zap.NewNop()).ListProducts(context.Background(), 10)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestListProducts(t *testing.T) {
	repo := &mockCatalogRepository{
		FindServiceByIDFunc: func(ctx context.Context, id uint64) (*domain.Service, error) {
			return &domain.Service{ID: id, IsActive: true}, nil
		},
		ListActiveProductsByServiceFunc: func(ctx context.Context, serviceID uint64) ([]domain.Product, error) {
			return []domain.Product{{ID: 1, ServiceID: serviceID, SKU: "ML5", Price: decimal.NewFromInt(1500), IsActive: true}}, nil
		},
	}

	products, err := NewCatalogUseCase(repo, zap.NewNop()).ListProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "ML5", products[0].SKU)
}

func TestListCategories(t *testing.T) {
	repo := &mockCatalogRepository{
		ListActiveCategoriesFunc: func(ctx context.Context) ([]domain.Category, error) {
			return []domain.Category{{ID: 1, Name: "Top Up Game", Slug: "top-up-game", IsActive: true,
				Services: []domain.Service{{ID: 10, CategoryID: 1, Name: "Mobile Legends", IsActive: true}}}}, nil
		},
	}

	categories, err := NewCatalogUseCase(repo, zap.NewNop()).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Mobile Legends", categories[0].Services[0].Name)
}
