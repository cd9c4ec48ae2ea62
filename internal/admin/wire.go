package admin

import (
	"database/sql"
	"time"

	"wmx/internal/admin/controller"
	"wmx/internal/admin/repository"
	"wmx/internal/admin/usecase"
	"wmx/internal/httpx"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, loc *time.Location, responder *httpx.Responder, logger *zap.Logger) *controller.AdminController {
	repo := repository.NewMySQLStatsRepository(db)
	uc := usecase.NewStatsUseCase(repo, loc, logger)
	return controller.NewAdminController(uc, responder)
}
