package catalog

import (
	"wmx/internal/catalog/controller"
	"wmx/internal/catalog/repository"
	"wmx/internal/catalog/usecase"
	"wmx/internal/httpx"

	"go.uber.org/zap"
)

// NewModule builds the catalog handlers on top of a shared repository, which
// the order module also reads from.
func NewModule(repo *repository.MySQLCatalogRepository, responder *httpx.Responder, logger *zap.Logger) *controller.CatalogController {
	uc := usecase.NewCatalogUseCase(repo, logger)
	return controller.NewCatalogController(uc, responder)
}
