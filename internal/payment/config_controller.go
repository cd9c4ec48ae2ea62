package payment

import (
	"net/http"

	"wmx/internal/config"
	"wmx/internal/dto"
	"wmx/internal/httpx"
)

const (
	sandboxSnapJS    = "https://app.sandbox.midtrans.com/snap/snap.js"
	productionSnapJS = "https://app.midtrans.com/snap/snap.js"
)

// ConfigController hands the public Snap settings to the storefront. The
// server key never leaves the backend.
type ConfigController struct {
	resp      dto.PaymentConfigResponse
	responder *httpx.Responder
}

func NewConfigController(cfg config.MidtransConfig, responder *httpx.Responder) *ConfigController {
	snapJS := sandboxSnapJS
	if cfg.IsProduction {
		snapJS = productionSnapJS
	}

	return &ConfigController{
		resp: dto.PaymentConfigResponse{
			ClientKey:    cfg.ClientKey,
			IsProduction: cfg.IsProduction,
			SnapJSURL:    snapJS,
		},
		responder: responder,
	}
}

func (c *ConfigController) ClientConfig(w http.ResponseWriter, _ *http.Request) {
	c.responder.OK(w, c.resp)
}
