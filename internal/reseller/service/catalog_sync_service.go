package service

import (
	"context"
	"database/sql"

	apperrors "wmx/internal/errors"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const serviceName = "vip-reseller"

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type SyncRepository interface {
	EnsureCategory(ctx context.Context, tx *sql.Tx, name, slug string) (uint64, error)
	UpsertService(ctx context.Context, tx *sql.Tx, categoryID uint64, name, externalCode string) (uint64, error)
	DeactivateServicesNotIn(ctx context.Context, tx *sql.Tx, codes []string) (int64, error)
	ServiceIDsByCode(ctx context.Context, tx *sql.Tx) (map[string]uint64, error)
	UpsertProduct(ctx context.Context, tx *sql.Tx, serviceID uint64, sku, name string, price decimal.Decimal, category string, isActive bool) error
	DeactivateProductsNotIn(ctx context.Context, tx *sql.Tx, skus []string, serviceIDs []uint64) (int64, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, sku string, available bool) (int64, error)
}

type ServiceEntry struct {
	Code string
	Name string
}

type ProductEntry struct {
	ServiceCode string
	SKU         string
	Name        string
	Price       decimal.Decimal
	Category    string
	Available   bool
}

type StockEntry struct {
	SKU       string
	Available bool
}

type ApplyResult struct {
	Upserted    int
	Deactivated int64
}

// CatalogSyncService applies reseller snapshots to the catalog. Each apply
// runs in its own transaction so a failure leaves the previous state intact.
type CatalogSyncService struct {
	db     TransactionManager
	repo   SyncRepository
	logger *zap.Logger
}

func NewCatalogSyncService(db TransactionManager, repo SyncRepository, logger *zap.Logger) *CatalogSyncService {
	return &CatalogSyncService{db: db, repo: repo, logger: logger}
}

// ApplyServices upserts every entry under category and deactivates
// reseller-backed services missing from entries.
func (s *CatalogSyncService) ApplyServices(ctx context.Context, category string, entries []ServiceEntry) (ApplyResult, error) {
	if len(entries) == 0 {
		return ApplyResult{}, emptySnapshot("services")
	}

	var result ApplyResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		categoryID, err := s.repo.EnsureCategory(ctx, tx, category, slug.Make(category))
		if err != nil {
			return err
		}

		codes := make([]string, 0, len(entries))
		for _, e := range entries {
			if _, err := s.repo.UpsertService(ctx, tx, categoryID, e.Name, e.Code); err != nil {
				return err
			}
			codes = append(codes, e.Code)
			result.Upserted++
		}

		result.Deactivated, err = s.repo.DeactivateServicesNotIn(ctx, tx, codes)
		return err
	})
	if err != nil {
		return ApplyResult{}, err
	}

	s.logger.Info("reseller services applied",
		zap.Int("upserted", result.Upserted),
		zap.Int64("deactivated", result.Deactivated))
	return result, nil
}

// ApplyProducts upserts products whose service is already known and
// deactivates products missing from entries. scope lists the service codes
// the snapshot was fetched for; products of other services are left alone.
// A nil scope means the snapshot covers every reseller-backed service.
func (s *CatalogSyncService) ApplyProducts(ctx context.Context, entries []ProductEntry, scope []string) (ApplyResult, error) {
	if len(entries) == 0 {
		return ApplyResult{}, emptySnapshot("products")
	}

	var result ApplyResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		serviceIDs, err := s.repo.ServiceIDsByCode(ctx, tx)
		if err != nil {
			return err
		}

		skus := make([]string, 0, len(entries))
		for _, e := range entries {
			skus = append(skus, e.SKU)

			serviceID, ok := serviceIDs[e.ServiceCode]
			if !ok {
				s.logger.Warn("skipping product of unknown service",
					zap.String("sku", e.SKU),
					zap.String("serviceCode", e.ServiceCode))
				continue
			}

			if err := s.repo.UpsertProduct(ctx, tx, serviceID, e.SKU, e.Name, e.Price, e.Category, e.Available); err != nil {
				return err
			}
			result.Upserted++
		}

		var scopeIDs []uint64
		if scope != nil {
			for _, code := range scope {
				if id, ok := serviceIDs[code]; ok {
					scopeIDs = append(scopeIDs, id)
				}
			}
			if len(scopeIDs) == 0 {
				return nil
			}
		}

		result.Deactivated, err = s.repo.DeactivateProductsNotIn(ctx, tx, skus, scopeIDs)
		return err
	})
	if err != nil {
		return ApplyResult{}, err
	}

	s.logger.Info("reseller products applied",
		zap.Int("upserted", result.Upserted),
		zap.Int64("deactivated", result.Deactivated))
	return result, nil
}

// ApplyStock flips the active flag of known products to match availability.
// It returns how many rows actually changed.
func (s *CatalogSyncService) ApplyStock(ctx context.Context, entries []StockEntry) (int, error) {
	if len(entries) == 0 {
		return 0, emptySnapshot("stock")
	}

	var updated int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			n, err := s.repo.UpdateStock(ctx, tx, e.SKU, e.Available)
			if err != nil {
				return err
			}
			updated += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("reseller stock applied", zap.Int("updated", updated))
	return updated, nil
}

func (s *CatalogSyncService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		s.logger.Error("reseller sync rolled back", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

// An empty snapshot would deactivate the whole catalog; treat it as an
// upstream fault instead.
func emptySnapshot(kind string) error {
	return apperrors.NewUpstreamError(serviceName, "reseller returned an empty "+kind+" snapshot", nil)
}
