package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MySQLSyncRepository writes reseller snapshots into the catalog tables. Rows
// are matched on services.external_code and products.sku and are never deleted.
type MySQLSyncRepository struct {
	db *sql.DB
}

func NewMySQLSyncRepository(db *sql.DB) *MySQLSyncRepository {
	return &MySQLSyncRepository{db: db}
}

// EnsureCategory returns the id of the category with slug, creating it if needed.
func (r *MySQLSyncRepository) EnsureCategory(ctx context.Context, tx *sql.Tx, name, slug string) (uint64, error) {
	query := `
		INSERT INTO categories (name, slug)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

	result, err := tx.ExecContext(ctx, query, name, slug)
	if err != nil {
		return 0, fmt.Errorf("ensuring category %s: %w", slug, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting category id: %w", err)
	}
	return uint64(id), nil
}

func (r *MySQLSyncRepository) UpsertService(ctx context.Context, tx *sql.Tx, categoryID uint64, name, externalCode string) (uint64, error) {
	query := `
		INSERT INTO services (category_id, name, external_code, is_active)
		VALUES (?, ?, ?, 1)
		ON DUPLICATE KEY UPDATE name = VALUES(name), is_active = 1, id = LAST_INSERT_ID(id)`

	result, err := tx.ExecContext(ctx, query, categoryID, name, externalCode)
	if err != nil {
		return 0, fmt.Errorf("upserting service %s: %w", externalCode, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting service id: %w", err)
	}
	return uint64(id), nil
}

// DeactivateServicesNotIn switches off reseller-backed services whose code is
// missing from codes. Services created by hand (no external code) are untouched.
func (r *MySQLSyncRepository) DeactivateServicesNotIn(ctx context.Context, tx *sql.Tx, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(codes)
	query := fmt.Sprintf(`
		UPDATE services SET is_active = 0
		WHERE external_code IS NOT NULL AND is_active = 1 AND external_code NOT IN (%s)`, placeholders)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivating services: %w", err)
	}
	return result.RowsAffected()
}

// ServiceIDsByCode maps the external code of every reseller-backed service to its id.
func (r *MySQLSyncRepository) ServiceIDsByCode(ctx context.Context, tx *sql.Tx) (map[string]uint64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, external_code FROM services WHERE external_code IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying service codes: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]uint64)
	for rows.Next() {
		var (
			id   uint64
			code string
		)
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("scanning service code: %w", err)
		}
		ids[code] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service codes: %w", err)
	}
	return ids, nil
}

// ListActiveServiceGames returns external code and name of the active
// reseller-backed services.
func (r *MySQLSyncRepository) ListActiveServiceGames(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT external_code, name FROM services WHERE external_code IS NOT NULL AND is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("querying reseller services: %w", err)
	}
	defer rows.Close()

	games := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("scanning reseller service: %w", err)
		}
		games[code] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reseller services: %w", err)
	}
	return games, nil
}

func (r *MySQLSyncRepository) UpsertProduct(ctx context.Context, tx *sql.Tx, serviceID uint64, sku, name string, price decimal.Decimal, category string, isActive bool) error {
	query := `
		INSERT INTO products (service_id, sku, name, price, category, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			service_id = VALUES(service_id),
			name = VALUES(name),
			price = VALUES(price),
			category = VALUES(category),
			is_active = VALUES(is_active)`

	if _, err := tx.ExecContext(ctx, query, serviceID, sku, name, price, category, isActive); err != nil {
		return fmt.Errorf("upserting product %s: %w", sku, err)
	}
	return nil
}

// DeactivateProductsNotIn switches off products whose sku is missing from
// skus. Only products of serviceIDs are considered; an empty serviceIDs
// means every reseller-backed service.
func (r *MySQLSyncRepository) DeactivateProductsNotIn(ctx context.Context, tx *sql.Tx, skus []string, serviceIDs []uint64) (int64, error) {
	if len(skus) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(skus)
	query := fmt.Sprintf(`
		UPDATE products p
		JOIN services s ON s.id = p.service_id
		SET p.is_active = 0
		WHERE s.external_code IS NOT NULL AND p.is_active = 1 AND p.sku NOT IN (%s)`, placeholders)

	if len(serviceIDs) > 0 {
		idPlaceholders := make([]string, len(serviceIDs))
		for i, id := range serviceIDs {
			idPlaceholders[i] = "?"
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND p.service_id IN (%s)", strings.Join(idPlaceholders, ", "))
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivating products: %w", err)
	}
	return result.RowsAffected()
}

func (r *MySQLSyncRepository) UpdateStock(ctx context.Context, tx *sql.Tx, sku string, available bool) (int64, error) {
	result, err := tx.ExecContext(ctx, `UPDATE products SET is_active = ? WHERE sku = ? AND is_active <> ?`, available, sku, available)
	if err != nil {
		return 0, fmt.Errorf("updating stock of %s: %w", sku, err)
	}
	return result.RowsAffected()
}

func inClause(values []string) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ", "), args
}
