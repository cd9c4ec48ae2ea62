package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSyncUseCase struct {
	SyncFunc func(ctx context.Context, action string) (*dto.SyncResponse, error)
}

func (m *mockSyncUseCase) Sync(ctx context.Context, action string) (*dto.SyncResponse, error) {
	return m.SyncFunc(ctx, action)
}

type mockAccountUseCase struct {
	NicknameFunc func(ctx context.Context, req dto.NicknameRequest) (*dto.NicknameResponse, error)
	ProfileFunc  func(ctx context.Context) (*dto.ResellerProfileResponse, error)
}

func (m *mockAccountUseCase) Nickname(ctx context.Context, req dto.NicknameRequest) (*dto.NicknameResponse, error) {
	return m.NicknameFunc(ctx, req)
}

func (m *mockAccountUseCase) Profile(ctx context.Context) (*dto.ResellerProfileResponse, error) {
	return m.ProfileFunc(ctx)
}

func newRouter(s SyncUseCase, a AccountUseCase) http.Handler {
	c := NewResellerController(s, a, httpx.NewResponder(zap.NewNop(), false))
	r := chi.NewRouter()
	r.Post("/api/admin/reseller/sync", c.Sync)
	r.Get("/api/admin/reseller/profile", c.Profile)
	r.Post("/api/reseller/nickname", c.Nickname)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSync_Handler(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"ok", `{"action":"full-sync"}`, nil, http.StatusOK, ""},
		{"bad action", `{"action":"nope"}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"running", `{"action":"sync-stock"}`, apperrors.NewConflictError("reseller sync already running"), http.StatusConflict, "CONFLICT"},
		{"blocked", `{"action":"sync-services"}`, apperrors.NewUpstreamBlockedError("vip-reseller", "blocked"), http.StatusBadGateway, "UPSTREAM_BLOCKED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockSyncUseCase{
				SyncFunc: func(_ context.Context, action string) (*dto.SyncResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &dto.SyncResponse{Action: action, ServicesUpserted: 2}, nil
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/api/admin/reseller/sync", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			newRouter(uc, &mockAccountUseCase{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["error"])
				return
			}
			data := body["data"].(map[string]any)
			assert.Equal(t, "full-sync", data["action"])
			assert.EqualValues(t, 2, data["servicesUpserted"])
		})
	}
}

func TestNickname_Handler(t *testing.T) {
	uc := &mockAccountUseCase{
		NicknameFunc: func(_ context.Context, req dto.NicknameRequest) (*dto.NicknameResponse, error) {
			assert.Equal(t, uint64(7), req.ServiceID)
			assert.Equal(t, "12345678", req.UserID)
			return &dto.NicknameResponse{Nickname: "ProPlayer"}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/reseller/nickname", strings.NewReader(`{"serviceId":7,"userId":"12345678","zoneId":"2001"}`))
	rec := httptest.NewRecorder()

	newRouter(&mockSyncUseCase{}, uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "ProPlayer", data["nickname"])
}

func TestNickname_Handler_MissingUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/reseller/nickname", strings.NewReader(`{"serviceId":7}`))
	rec := httptest.NewRecorder()

	newRouter(&mockSyncUseCase{}, &mockAccountUseCase{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNickname_Handler_Timeout(t *testing.T) {
	uc := &mockAccountUseCase{
		NicknameFunc: func(context.Context, dto.NicknameRequest) (*dto.NicknameResponse, error) {
			return nil, apperrors.NewTimeoutError("vip-reseller", context.DeadlineExceeded)
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/reseller/nickname", strings.NewReader(`{"serviceId":7,"userId":"1"}`))
	rec := httptest.NewRecorder()

	newRouter(&mockSyncUseCase{}, uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "UPSTREAM_TIMEOUT", decodeBody(t, rec)["error"])
}

func TestProfile_Handler(t *testing.T) {
	uc := &mockAccountUseCase{
		ProfileFunc: func(context.Context) (*dto.ResellerProfileResponse, error) {
			return &dto.ResellerProfileResponse{Username: "wmx", Balance: decimal.NewFromInt(150000)}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/reseller/profile", nil)
	rec := httptest.NewRecorder()

	newRouter(&mockSyncUseCase{}, uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "wmx", data["username"])
	assert.Equal(t, "150000", data["balance"])
}
