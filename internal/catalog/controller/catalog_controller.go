package controller

import (
	"context"
	"net/http"
	"strconv"

	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/httpx"

	"github.com/go-chi/chi/v5"
)

type CatalogUseCase interface {
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	ListProducts(ctx context.Context, serviceID uint64) ([]dto.ProductDTO, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryDTO, error)
	Toggle(ctx context.Context, req dto.ToggleRequest) (*dto.ToggleResponse, error)
}

type CatalogController struct {
	useCase   CatalogUseCase
	responder *httpx.Responder
}

func NewCatalogController(useCase CatalogUseCase, responder *httpx.Responder) *CatalogController {
	return &CatalogController{useCase: useCase, responder: responder}
}

func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.useCase.ListCategories(r.Context())
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, categories)
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || serviceID == 0 {
		c.responder.Error(w, r, apperrors.NewValidationError("invalid service id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		}))
		return
	}

	products, err := c.useCase.ListProducts(r.Context(), serviceID)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, products)
}

func (c *CatalogController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		c.responder.Error(w, r, err)
		return
	}

	category, err := c.useCase.CreateCategory(r.Context(), req)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, category)
}

func (c *CatalogController) Toggle(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		c.responder.Error(w, r, err)
		return
	}

	result, err := c.useCase.Toggle(r.Context(), req)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, result)
}
