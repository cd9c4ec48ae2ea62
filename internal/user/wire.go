package user

import (
	"database/sql"

	"wmx/internal/auth"
	"wmx/internal/httpx"
	"wmx/internal/user/controller"
	"wmx/internal/user/repository"
	"wmx/internal/user/usecase"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, sessions *auth.SessionStore, responder *httpx.Responder, logger *zap.Logger) *controller.UserController {
	repo := repository.NewMySQLUserRepository(db)
	uc := usecase.NewUserUseCase(repo, logger)
	return controller.NewUserController(uc, sessions, responder)
}
