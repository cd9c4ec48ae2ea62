package controller

import (
	"context"
	"net/http"

	"wmx/internal/dto"
	"wmx/internal/httpx"
)

type SyncUseCase interface {
	Sync(ctx context.Context, action string) (*dto.SyncResponse, error)
}

type AccountUseCase interface {
	Nickname(ctx context.Context, req dto.NicknameRequest) (*dto.NicknameResponse, error)
	Profile(ctx context.Context) (*dto.ResellerProfileResponse, error)
}

type ResellerController struct {
	sync      SyncUseCase
	account   AccountUseCase
	responder *httpx.Responder
}

func NewResellerController(sync SyncUseCase, account AccountUseCase, responder *httpx.Responder) *ResellerController {
	return &ResellerController{sync: sync, account: account, responder: responder}
}

func (c *ResellerController) Sync(w http.ResponseWriter, r *http.Request) {
	var req dto.SyncRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		c.responder.Error(w, r, err)
		return
	}

	result, err := c.sync.Sync(r.Context(), req.Action)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, result)
}

func (c *ResellerController) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.account.Profile(r.Context())
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, profile)
}

func (c *ResellerController) Nickname(w http.ResponseWriter, r *http.Request) {
	var req dto.NicknameRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		c.responder.Error(w, r, err)
		return
	}

	result, err := c.account.Nickname(r.Context(), req)
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, result)
}
