package usecase

import (
	"context"
	"testing"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/reseller/client"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestNickname_ResolvesExternalCode(t *testing.T) {
	finder := &mockServiceFinder{
		FindServiceByIDFunc: func(_ context.Context, id uint64) (*domain.Service, error) {
			assert.Equal(t, uint64(7), id)
			return &domain.Service{ID: 7, Name: "Mobile Legends", ExternalCode: strPtr("mobile-legends")}, nil
		},
	}
	ac := &mockAccountClient{
		GetNicknameFunc: func(_ context.Context, gameCode, userID, zoneID string) (string, error) {
			assert.Equal(t, "mobile-legends", gameCode)
			assert.Equal(t, "12345678", userID)
			assert.Equal(t, "2001", zoneID)
			return "ProPlayer", nil
		},
	}
	uc := NewAccountUseCase(finder, ac, zap.NewNop())

	resp, err := uc.Nickname(context.Background(), dto.NicknameRequest{ServiceID: 7, UserID: " 12345678 ", ZoneID: "2001"})

	require.NoError(t, err)
	assert.Equal(t, "ProPlayer", resp.Nickname)
}

func TestNickname_ServiceWithoutExternalCode(t *testing.T) {
	finder := &mockServiceFinder{
		FindServiceByIDFunc: func(context.Context, uint64) (*domain.Service, error) {
			return &domain.Service{ID: 7, Name: "Voucher"}, nil
		},
	}
	uc := NewAccountUseCase(finder, &mockAccountClient{}, zap.NewNop())

	_, err := uc.Nickname(context.Background(), dto.NicknameRequest{ServiceID: 7, UserID: "1"})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "serviceId", ve.Details[0].Field)
}

func TestNickname_ServiceNotFound(t *testing.T) {
	finder := &mockServiceFinder{
		FindServiceByIDFunc: func(context.Context, uint64) (*domain.Service, error) {
			return nil, apperrors.NewNotFoundError("service not found")
		},
	}
	uc := NewAccountUseCase(finder, &mockAccountClient{}, zap.NewNop())

	_, err := uc.Nickname(context.Background(), dto.NicknameRequest{ServiceID: 99, UserID: "1"})

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestNickname_UpstreamErrorPropagates(t *testing.T) {
	finder := &mockServiceFinder{
		FindServiceByIDFunc: func(context.Context, uint64) (*domain.Service, error) {
			return &domain.Service{ID: 7, ExternalCode: strPtr("free-fire")}, nil
		},
	}
	ac := &mockAccountClient{
		GetNicknameFunc: func(context.Context, string, string, string) (string, error) {
			return "", apperrors.NewUpstreamBlockedError("vip-reseller", "request blocked by protection service")
		},
	}
	uc := NewAccountUseCase(finder, ac, zap.NewNop())

	_, err := uc.Nickname(context.Background(), dto.NicknameRequest{ServiceID: 7, UserID: "1"})

	ue, ok := apperrors.IsUpstreamError(err)
	require.True(t, ok)
	assert.True(t, ue.Blocked)
}

func TestProfile(t *testing.T) {
	ac := &mockAccountClient{
		GetProfileFunc: func(context.Context) (*client.Profile, error) {
			return &client.Profile{FullName: "WMX Store", Username: "wmx", Balance: decimal.NewFromInt(150000), Level: "gold"}, nil
		},
	}
	uc := NewAccountUseCase(&mockServiceFinder{}, ac, zap.NewNop())

	resp, err := uc.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "WMX Store", resp.FullName)
	assert.Equal(t, "150000", resp.Balance.String())
}
