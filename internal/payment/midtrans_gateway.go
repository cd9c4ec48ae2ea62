package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"

	"wmx/internal/config"
	apperrors "wmx/internal/errors"
)

const (
	serviceName      = "midtrans"
	maxItemNameLen   = 50
	defaultExpiry    = 15
	expiryUnitMinute = "minute"
)

type snapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type MidtransGateway struct {
	client  snapCreator
	timeout time.Duration
	logger  *zap.Logger
}

func NewMidtransGateway(cfg config.MidtransConfig, logger *zap.Logger) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.IsProduction {
		env = midtrans.Production
	}

	// snap.Client picks up the package-level HTTP client when it is built.
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: cfg.Timeout}

	var client snap.Client
	client.New(cfg.ServerKey, env)

	return &MidtransGateway{
		client:  &client,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type snapOutcome struct {
	resp *snap.Response
	err  *midtrans.Error
}

func (g *MidtransGateway) CreateTransaction(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	snapReq := buildSnapRequest(req)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan snapOutcome, 1)
	go func() {
		resp, merr := g.client.CreateTransaction(snapReq)
		done <- snapOutcome{resp: resp, err: merr}
	}()

	select {
	case <-ctx.Done():
		g.logger.Warn("midtrans call timed out", zap.String("orderNumber", req.OrderNumber), zap.Duration("timeout", g.timeout))
		return nil, apperrors.NewTimeoutError(serviceName, ctx.Err())
	case out := <-done:
		if out.err != nil {
			g.logger.Error("midtrans create transaction failed",
				zap.String("orderNumber", req.OrderNumber),
				zap.Int("statusCode", out.err.StatusCode),
				zap.String("message", out.err.Message),
			)
			return nil, apperrors.NewUpstreamError(serviceName, "payment gateway rejected the transaction",
				fmt.Errorf("status %d: %s", out.err.StatusCode, out.err.Message))
		}
		if out.resp == nil || out.resp.Token == "" {
			return nil, apperrors.NewUpstreamError(serviceName, "payment gateway returned no token", nil)
		}

		return &ChargeResult{
			Token:       out.resp.Token,
			RedirectURL: out.resp.RedirectURL,
		}, nil
	}
}

// buildSnapRequest sends a single line priced at the rounded gross amount so
// the item total always matches what Midtrans charges.
func buildSnapRequest(req ChargeRequest) *snap.Request {
	gross := req.Amount.Round(0).IntPart()

	name := truncateRunes(req.ItemName, maxItemNameLen)

	expiry := req.ExpiryMins
	if expiry <= 0 {
		expiry = defaultExpiry
	}

	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderNumber,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.ItemID,
				Name:  name,
				Price: gross,
				Qty:   1,
			},
		},
		Expiry: &snap.ExpiryDetails{
			Unit:     expiryUnitMinute,
			Duration: expiry,
		},
	}
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
