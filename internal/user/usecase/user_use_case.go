package usecase

import (
	"context"

	"wmx/internal/domain"
	apperrors "wmx/internal/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type UserUseCase struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserUseCase(repo UserRepository, logger *zap.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, logger: logger}
}

// Login checks credentials. Unknown email, inactive account and wrong
// password all fail with the same message.
func (uc *UserUseCase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	invalid := apperrors.NewUnauthorizedError("invalid email or password")

	user, err := uc.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, invalid
		}
		return nil, err
	}

	if !user.IsActive {
		uc.logger.Warn("login attempt on inactive account", zap.Uint64("userId", user.ID))
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	uc.logger.Info("user logged in", zap.Uint64("userId", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (uc *UserUseCase) Me(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthorizedError("session user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) List(ctx context.Context, page, pageSize int) ([]domain.User, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return uc.repo.List(ctx, pageSize, (page-1)*pageSize)
}
