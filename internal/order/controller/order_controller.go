package controller

import (
	"context"
	"net/http"

	"wmx/internal/auth"
	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/httpx"

	"github.com/go-chi/chi/v5"
)

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID *uint64) (*dto.CreateOrderResponse, error)
}

type TrackOrderUseCase interface {
	Track(ctx context.Context, query, mode string) (*dto.TrackOrderResponse, error)
}

type GetOrderUseCase interface {
	GetOrder(ctx context.Context, orderNumber string) (*dto.OrderDetailResponse, error)
}

type OrderController struct {
	create    CreateOrderUseCase
	track     TrackOrderUseCase
	get       GetOrderUseCase
	responder *httpx.Responder
}

func NewOrderController(create CreateOrderUseCase, track TrackOrderUseCase, get GetOrderUseCase, responder *httpx.Responder) *OrderController {
	return &OrderController{
		create:    create,
		track:     track,
		get:       get,
		responder: responder,
	}
}

// Create accepts guests; a signed-in buyer gets the order linked to their account.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		c.responder.Error(w, r, err)
		return
	}

	var userID *uint64
	if id, ok := auth.FromContext(r.Context()); ok {
		userID = &id.ID
	}

	result, err := c.create.CreateOrder(r.Context(), req, userID)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, result)
}

func (c *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := c.track.Track(r.Context(), q.Get("q"), q.Get("type"))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.responder.ErrorWithMessage(w, r, err, domain.MessageOrderNotFound)
			return
		}
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, result)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	result, err := c.get.GetOrder(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, result)
}
