package usecase

import (
	"context"
	"fmt"
	"strings"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type CatalogRepository interface {
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error)
	ListActiveProductsByService(ctx context.Context, serviceID uint64) ([]domain.Product, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	ToggleActive(ctx context.Context, entity domain.EntityType, id uint64) (string, bool, error)
}

const maxSlugAttempts = 5

type CatalogUseCase struct {
	repo   CatalogRepository
	logger *zap.Logger
}

func NewCatalogUseCase(repo CatalogRepository, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, logger: logger}
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	categories, err := uc.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryDTO(c))
	}
	return out, nil
}

// ListProducts returns the active products of an active service, cheapest first.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, serviceID uint64) ([]dto.ProductDTO, error) {
	svc, err := uc.repo.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %d not found", serviceID))
	}

	products, err := uc.repo.ListActiveProductsByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductDTO{
			ID:        p.ID,
			ServiceID: p.ServiceID,
			SKU:       p.SKU,
			Name:      p.Name,
			Price:     p.Price,
			Category:  p.Category,
			IsActive:  p.IsActive,
		})
	}
	return out, nil
}

// CreateCategory derives the slug from the name. A taken slug is retried
// with a numeric suffix.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	base := slug.Make(name)
	if base == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must contain at least one letter or digit",
		})
	}

	c := domain.Category{
		Name:        name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		c.Slug = base
		if attempt > 1 {
			c.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		err := uc.repo.CreateCategory(ctx, &c)
		if err == nil {
			uc.logger.Info("category created", zap.Uint64("categoryId", c.ID), zap.String("slug", c.Slug))
			out := toCategoryDTO(c)
			return &out, nil
		}
		if _, ok := apperrors.IsConflictError(err); !ok {
			return nil, err
		}
		uc.logger.Debug("slug taken, retrying", zap.String("slug", c.Slug), zap.Int("attempt", attempt))
	}

	return nil, apperrors.NewConflictError(fmt.Sprintf("could not allocate a unique slug for %q", name))
}

func (uc *CatalogUseCase) Toggle(ctx context.Context, req dto.ToggleRequest) (*dto.ToggleResponse, error) {
	entity := domain.EntityType(req.Type)
	if !entity.Valid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "type",
			Message: "type must be one of [category service product]",
		})
	}

	name, isActive, err := uc.repo.ToggleActive(ctx, entity, req.ID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("active flag toggled", zap.String("type", req.Type), zap.Uint64("id", req.ID), zap.Bool("isActive", isActive))

	return &dto.ToggleResponse{
		Type:     req.Type,
		ID:       req.ID,
		Name:     name,
		IsActive: isActive,
	}, nil
}

func toCategoryDTO(c domain.Category) dto.CategoryDTO {
	services := make([]dto.ServiceDTO, 0, len(c.Services))
	for _, s := range c.Services {
		services = append(services, dto.ServiceDTO{
			ID:           s.ID,
			CategoryID:   s.CategoryID,
			Name:         s.Name,
			ExternalCode: s.ExternalCode,
			IsActive:     s.IsActive,
			SortOrder:    s.SortOrder,
		})
	}

	return dto.CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		Services:    services,
	}
}
