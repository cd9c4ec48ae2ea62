package controller

import (
	"context"
	"net/http"
	"strconv"

	"wmx/internal/auth"
	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/httpx"
)

type UserUseCase interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Me(ctx context.Context, id uint64) (*domain.User, error)
	List(ctx context.Context, page, pageSize int) ([]domain.User, error)
}

type SessionWriter interface {
	Save(w http.ResponseWriter, r *http.Request, id auth.Identity) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type UserController struct {
	useCase   UserUseCase
	sessions  SessionWriter
	responder *httpx.Responder
}

func NewUserController(useCase UserUseCase, sessions SessionWriter, responder *httpx.Responder) *UserController {
	return &UserController{
		useCase:   useCase,
		sessions:  sessions,
		responder: responder,
	}
}

func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		c.responder.Error(w, r, err)
		return
	}

	user, err := c.useCase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}

	if err := c.sessions.Save(w, r, auth.Identity{ID: user.ID, Role: user.Role}); err != nil {
		c.responder.Error(w, r, apperrors.NewInternalError("saving session", err))
		return
	}

	c.responder.OK(w, toUserResponse(*user))
}

func (c *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.Clear(w, r); err != nil {
		c.responder.Error(w, r, apperrors.NewInternalError("clearing session", err))
		return
	}
	c.responder.OK(w, map[string]bool{"loggedOut": true})
}

func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		c.responder.Error(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	user, err := c.useCase.Me(r.Context(), id.ID)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}

	c.responder.OK(w, toUserResponse(*user))
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	users, err := c.useCase.List(r.Context(), page, pageSize)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.responder.OK(w, resp)
}

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Phone:      u.Phone,
		Role:       string(u.Role),
		Balance:    u.Balance,
		IsActive:   u.IsActive,
		OrderCount: u.OrderCount,
		CreatedAt:  u.CreatedAt,
	}
}
