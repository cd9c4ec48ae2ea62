package client

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wmx/internal/config"
	apperrors "wmx/internal/errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	serviceName     = "vip-reseller"
	maxResponseSize = 4 << 20
	StatusAvailable = "available"
)

type Price struct {
	Basic   decimal.Decimal `json:"basic"`
	Premium decimal.Decimal `json:"premium"`
	Special decimal.Decimal `json:"special"`
}

// GameService is one purchasable denomination in the reseller catalog.
type GameService struct {
	Code   string `json:"code"`
	Game   string `json:"game"`
	Name   string `json:"name"`
	Price  Price  `json:"price"`
	Server string `json:"server"`
	Status string `json:"status"`
}

func (s GameService) Available() bool {
	return strings.EqualFold(s.Status, StatusAvailable)
}

type StockItem struct {
	Code      string
	Available bool
}

type Profile struct {
	FullName string          `json:"full_name"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
	Point    decimal.Decimal `json:"point"`
	Level    string          `json:"level"`
}

type apiResponse struct {
	Result  bool            `json:"result"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the VIP-Reseller API. Every call is a form POST signed with
// md5(apiID + apiKey); failed reads are retried with exponential backoff.
type Client struct {
	baseURL         string
	apiID           string
	apiKey          string
	http            *http.Client
	timeout         time.Duration
	maxRetries      int
	initialInterval time.Duration
	logger          *zap.Logger
}

func NewClient(cfg config.ResellerConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiID:           cfg.APIID,
		apiKey:          cfg.APIKey,
		http:            &http.Client{},
		timeout:         timeout,
		maxRetries:      cfg.MaxRetries,
		initialInterval: 300 * time.Millisecond,
		logger:          logger,
	}
}

func (c *Client) sign() string {
	sum := md5.Sum([]byte(c.apiID + c.apiKey))
	return hex.EncodeToString(sum[:])
}

func (c *Client) GetServices(ctx context.Context) ([]GameService, error) {
	var out []GameService
	if err := c.call(ctx, "game-feature", url.Values{"type": {"services"}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProducts returns the denominations of a single game.
func (c *Client) GetProducts(ctx context.Context, game string) ([]GameService, error) {
	form := url.Values{
		"type":         {"services"},
		"filter_type":  {"game"},
		"filter_value": {game},
	}
	var out []GameService
	if err := c.call(ctx, "game-feature", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStock(ctx context.Context) ([]StockItem, error) {
	services, err := c.GetServices(ctx)
	if err != nil {
		return nil, err
	}

	stock := make([]StockItem, 0, len(services))
	for _, s := range services {
		stock = append(stock, StockItem{Code: s.Code, Available: s.Available()})
	}
	return stock, nil
}

// GetNickname resolves the in-game name for a player id. zoneID is optional.
func (c *Client) GetNickname(ctx context.Context, gameCode, userID, zoneID string) (string, error) {
	form := url.Values{
		"type":   {"get-nickname"},
		"code":   {gameCode},
		"target": {userID},
	}
	if zoneID != "" {
		form.Set("additional_target", zoneID)
	}

	var nickname string
	if err := c.call(ctx, "game-feature", form, &nickname); err != nil {
		return "", err
	}
	return nickname, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.call(ctx, "profile", url.Values{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, path string, form url.Values, out any) error {
	form.Set("key", c.apiKey)
	form.Set("sign", c.sign())
	endpoint := c.baseURL + "/" + path

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(c.initialInterval)),
			uint64(max(c.maxRetries, 0)),
		),
		ctx,
	)

	data, err := backoff.RetryNotifyWithData(func() (json.RawMessage, error) {
		return c.post(ctx, endpoint, form)
	}, policy, func(err error, next time.Duration) {
		c.logger.Warn("reseller request failed, retrying",
			zap.String("path", path),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			if _, ok := apperrors.IsTimeoutError(err); !ok {
				return apperrors.NewTimeoutError(serviceName, err)
			}
		}
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewUpstreamError(serviceName, "unexpected response payload", err)
	}
	return nil
}

// post performs a single attempt. Errors that retrying cannot fix are wrapped
// with backoff.Permanent.
func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (json.RawMessage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("building reseller request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, backoff.Permanent(apperrors.NewTimeoutError(serviceName, err))
		}
		return nil, apperrors.NewUpstreamError(serviceName, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return nil, backoff.Permanent(apperrors.NewTimeoutError(serviceName, err))
		}
		return nil, apperrors.NewUpstreamError(serviceName, "reading response failed", err)
	}

	if isProtectionPage(resp, body) {
		return nil, backoff.Permanent(apperrors.NewUpstreamBlockedError(serviceName, "request blocked by protection service"))
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, apperrors.NewUpstreamError(serviceName, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, backoff.Permanent(apperrors.NewUpstreamError(serviceName, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil))
	}

	var env apiResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, backoff.Permanent(apperrors.NewUpstreamError(serviceName, "invalid JSON response", err))
	}
	if !env.Result {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, backoff.Permanent(apperrors.NewUpstreamError(serviceName, msg, nil))
	}

	return env.Data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// isProtectionPage recognizes Cloudflare challenge and block pages, which come
// back as HTML instead of the API's JSON.
func isProtectionPage(resp *http.Response, body []byte) bool {
	if strings.EqualFold(resp.Header.Get("Cf-Mitigated"), "challenge") {
		return true
	}
	if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return false
	}

	page := strings.ToLower(string(body))
	for _, marker := range []string{"just a moment...", "cf-browser-verification", "challenge-platform", "attention required! | cloudflare"} {
		if strings.Contains(page, marker) {
			return true
		}
	}
	return false
}
