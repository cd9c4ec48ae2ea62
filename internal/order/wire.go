package order

import (
	"database/sql"

	catalogrepo "wmx/internal/catalog/repository"
	"wmx/internal/config"
	"wmx/internal/httpx"
	"wmx/internal/infrastructure/kafka"
	"wmx/internal/order/controller"
	orderrepo "wmx/internal/order/repository"
	"wmx/internal/order/service"
	"wmx/internal/order/usecase"
	"wmx/internal/payment"

	"go.uber.org/zap"
)

type Module struct {
	Controller *controller.OrderController
	Expirer    *usecase.ExpireOrdersUseCase
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	catalog *catalogrepo.MySQLCatalogRepository,
	gateway payment.Gateway,
	publisher kafka.Publisher,
	responder *httpx.Responder,
	logger *zap.Logger,
) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	paymentRepo := orderrepo.NewMySQLPaymentRepository(db)

	orderSvc := service.NewOrderService(
		db,
		orderRepo,
		orderItemRepo,
		paymentRepo,
		logger,
		cfg.Order.CreateTxTimeout,
	)

	create := usecase.NewCreateOrderUseCase(
		catalog,
		orderSvc,
		paymentRepo,
		gateway,
		publisher,
		usecase.NewOrderNumberGenerator(cfg.Order.NumberPrefix),
		cfg.Order.NumberMaxAttempts,
		cfg.Order.PaymentMethod,
		logger,
	)
	track := usecase.NewTrackOrderUseCase(orderRepo, logger)
	get := usecase.NewGetOrderUseCase(orderRepo, orderItemRepo, paymentRepo, logger)

	return &Module{
		Controller: controller.NewOrderController(create, track, get, responder),
		Expirer:    usecase.NewExpireOrdersUseCase(orderSvc, publisher, logger),
	}
}
