package reseller

import (
	"database/sql"

	catalogrepo "wmx/internal/catalog/repository"
	"wmx/internal/config"
	"wmx/internal/httpx"
	"wmx/internal/infrastructure/redisx"
	"wmx/internal/reseller/client"
	"wmx/internal/reseller/controller"
	"wmx/internal/reseller/repository"
	"wmx/internal/reseller/service"
	"wmx/internal/reseller/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Module struct {
	Controller *controller.ResellerController
	Syncer     *usecase.SyncUseCase
}

// NewModule wires the reseller adapter. rdb may be nil, leaving only the
// in-process sync guard.
func NewModule(
	db *sql.DB,
	cfg *config.Config,
	catalog *catalogrepo.MySQLCatalogRepository,
	rdb *redis.Client,
	responder *httpx.Responder,
	logger *zap.Logger,
) *Module {
	logger = logger.Named("reseller")

	vip := client.NewClient(cfg.Reseller, logger)
	syncRepo := repository.NewMySQLSyncRepository(db)
	applier := service.NewCatalogSyncService(db, syncRepo, logger)

	var locker usecase.Locker
	if rdb != nil {
		locker = redisx.NewLease(rdb, cfg.Redis.SyncLockName, cfg.Redis.SyncLockTTL, logger)
	}

	syncer := usecase.NewSyncUseCase(vip, applier, syncRepo, locker, cfg.Reseller.MarkupPercent, cfg.Reseller.DefaultCategory, logger)
	account := usecase.NewAccountUseCase(catalog, vip, logger)

	return &Module{
		Controller: controller.NewResellerController(syncer, account, responder),
		Syncer:     syncer,
	}
}
