package usecase

import (
	"context"
	"strings"

	"wmx/internal/domain"
	"wmx/internal/dto"
	apperrors "wmx/internal/errors"
	"wmx/internal/reseller/client"

	"go.uber.org/zap"
)

type ServiceFinder interface {
	FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error)
}

type AccountClient interface {
	GetNickname(ctx context.Context, gameCode, userID, zoneID string) (string, error)
	GetProfile(ctx context.Context) (*client.Profile, error)
}

type AccountUseCase struct {
	services ServiceFinder
	client   AccountClient
	logger   *zap.Logger
}

func NewAccountUseCase(services ServiceFinder, accountClient AccountClient, logger *zap.Logger) *AccountUseCase {
	return &AccountUseCase{services: services, client: accountClient, logger: logger}
}

// Nickname resolves the in-game name of a player for a reseller-backed service.
func (uc *AccountUseCase) Nickname(ctx context.Context, req dto.NicknameRequest) (*dto.NicknameResponse, error) {
	svc, err := uc.services.FindServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	if svc.ExternalCode == nil || *svc.ExternalCode == "" {
		return nil, apperrors.NewValidationError("service does not support nickname lookup", apperrors.ValidationDetail{
			Field:   "serviceId",
			Message: "service is not linked to the reseller",
		})
	}

	nickname, err := uc.client.GetNickname(ctx, *svc.ExternalCode, strings.TrimSpace(req.UserID), strings.TrimSpace(req.ZoneID))
	if err != nil {
		uc.logger.Warn("nickname lookup failed",
			zap.Uint64("serviceId", req.ServiceID),
			zap.String("game", *svc.ExternalCode),
			zap.Error(err))
		return nil, err
	}

	return &dto.NicknameResponse{Nickname: nickname}, nil
}

func (uc *AccountUseCase) Profile(ctx context.Context) (*dto.ResellerProfileResponse, error) {
	p, err := uc.client.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ResellerProfileResponse{
		FullName: p.FullName,
		Username: p.Username,
		Balance:  p.Balance,
		Point:    p.Point,
		Level:    p.Level,
	}, nil
}
