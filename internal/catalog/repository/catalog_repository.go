package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"wmx/internal/domain"
	apperrors "wmx/internal/errors"
)

const mysqlDuplicateEntry = 1062

// toggleTables whitelists the tables whose is_active flag can be flipped.
var toggleTables = map[domain.EntityType]string{
	domain.EntityCategory: "categories",
	domain.EntityService:  "services",
	domain.EntityProduct:  "products",
}

type MySQLCatalogRepository struct {
	db *sql.DB
}

func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

// ListActiveCategories returns active categories by sort order, each with its
// active services.
func (r *MySQLCatalogRepository) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.sort_order, c.is_active,
		       c.created_at, c.updated_at,
		       s.id, s.name, s.external_code, s.is_active, s.sort_order
		FROM categories c
		LEFT JOIN services s ON s.category_id = c.id AND s.is_active = 1
		WHERE c.is_active = 1
		ORDER BY c.sort_order ASC, c.name ASC, s.sort_order ASC, s.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	index := map[uint64]int{}
	for rows.Next() {
		var (
			c         domain.Category
			svcID     sql.NullInt64
			svcName   sql.NullString
			svcCode   sql.NullString
			svcActive sql.NullBool
			svcSort   sql.NullInt64
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.SortOrder, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt,
			&svcID, &svcName, &svcCode, &svcActive, &svcSort,
		); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}

		pos, seen := index[c.ID]
		if !seen {
			c.Services = []domain.Service{}
			categories = append(categories, c)
			pos = len(categories) - 1
			index[c.ID] = pos
		}

		if svcID.Valid {
			svc := domain.Service{
				ID:         uint64(svcID.Int64),
				CategoryID: c.ID,
				Name:       svcName.String,
				IsActive:   svcActive.Bool,
				SortOrder:  int(svcSort.Int64),
			}
			if svcCode.Valid {
				code := svcCode.String
				svc.ExternalCode = &code
			}
			categories[pos].Services = append(categories[pos].Services, svc)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLCatalogRepository) FindServiceByID(ctx context.Context, id uint64) (*domain.Service, error) {
	query := `
		SELECT id, category_id, name, external_code, is_active, sort_order
		FROM services
		WHERE id = ?`

	var s domain.Service
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.ExternalCode, &s.IsActive, &s.SortOrder,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying service by id: %w", err)
	}

	return &s, nil
}

func (r *MySQLCatalogRepository) FindProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	query := `
		SELECT id, service_id, sku, name, price, category, is_active
		FROM products
		WHERE id = ?`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.ServiceID, &p.SKU, &p.Name, &p.Price, &p.Category, &p.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLCatalogRepository) ListActiveProductsByService(ctx context.Context, serviceID uint64) ([]domain.Product, error) {
	query := `
		SELECT id, service_id, sku, name, price, category, is_active
		FROM products
		WHERE service_id = ? AND is_active = 1
		ORDER BY price ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.ServiceID, &p.SKU, &p.Name, &p.Price, &p.Category, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// CreateCategory inserts c and sets its ID. A taken slug yields a ConflictError.
func (r *MySQLCatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, icon, sort_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Slug, c.Description, c.Icon, c.SortOrder, c.IsActive)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return apperrors.NewConflictError(fmt.Sprintf("slug %q already exists", c.Slug))
		}
		return fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	c.ID = uint64(id)

	return nil
}

// ToggleActive flips is_active and returns the entity's name and new flag.
func (r *MySQLCatalogRepository) ToggleActive(ctx context.Context, entity domain.EntityType, id uint64) (string, bool, error) {
	table, ok := toggleTables[entity]
	if !ok {
		return "", false, apperrors.NewValidationError(fmt.Sprintf("unknown entity type %q", entity))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("beginning toggle transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		name     string
		isActive bool
	)
	err = tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT name, is_active FROM %s WHERE id = ? FOR UPDATE`, table), id).
		Scan(&name, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", entity, id))
	}
	if err != nil {
		return "", false, fmt.Errorf("locking %s: %w", entity, err)
	}

	isActive = !isActive
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET is_active = ? WHERE id = ?`, table), isActive, id); err != nil {
		return "", false, fmt.Errorf("updating %s active flag: %w", entity, err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("committing toggle: %w", err)
	}

	return name, isActive, nil
}
