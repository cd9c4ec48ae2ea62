package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"wmx/internal/domain"
	apperrors "wmx/internal/errors"
	"wmx/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderColumns = []string{
	"id", "order_number", "service_id", "user_id", "total_amount", "status",
	"customer_data", "customer_email", "external_id", "notes", "created_at", "updated_at", "service_name",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func sampleOrder(now time.Time) *domain.Order {
	return &domain.Order{
		OrderNumber: "WMX-1714550400000-42",
		ServiceID:   10,
		TotalAmount: decimal.NewFromInt(30000),
		Status:      domain.OrderStatusWaitingPayment,
		CustomerData: domain.CustomerData{
			CustomerID: "12345678",
			Email:      "budi@example.com",
			Phone:      "081234567890",
			Product:    domain.ProductSnapshot{ID: 5, SKU: "ML86", Name: "86 Diamonds", Price: decimal.NewFromInt(10000)},
			Quantity:   3,
		},
		CustomerEmail: "budi@example.com",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestOrderRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOrderRepository(db)
	now := time.Now()
	order := sampleOrder(now)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs("WMX-1714550400000-42", 10, nil, sqlmock.AnyArg(), "WAITING_PAYMENT",
			sqlmock.AnyArg(), "budi@example.com", nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), tx, order))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(77), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Insert_DuplicateNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	tx, err := db.Begin()
	require.NoError(t, err)

	err = repo.Insert(context.Background(), tx, sampleOrder(time.Now()))
	var mysqlErr *mysql.MySQLError
	require.ErrorAs(t, err, &mysqlErr)
	assert.Equal(t, uint16(1062), mysqlErr.Number)
}

func TestOrderRepository_FindByOrderNumber_ExactMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.order_number = ?`)).
		WithArgs("WMX-1").
		WillReturnError(sql.ErrNoRows)

	order, err := repo.FindByOrderNumber(context.Background(), "WMX-1")
	assert.Nil(t, order)
	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "Pesanan tidak ditemukan", nfe.Message)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.order_number = ?`)).
		WithArgs("WMX-100").
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
			1, "WMX-100", 10, nil, "30000.00", "SUCCESS",
			[]byte(`{"customerId":"123","email":"budi@example.com","phone":"0812","product":{"id":5,"sku":"ML86","name":"86 Diamonds","price":"10000"},"quantity":3}`),
			"budi@example.com", nil, nil, now, now, "Mobile Legends",
		))

	order, err = repo.FindByOrderNumber(context.Background(), "WMX-100")
	require.NoError(t, err)
	assert.Equal(t, "WMX-100", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusSuccess, order.Status)
	assert.Equal(t, "86 Diamonds", order.CustomerData.Product.Name)
	assert.Equal(t, 3, order.CustomerData.Quantity)
	assert.Equal(t, "Mobile Legends", order.ServiceName)
	assert.Nil(t, order.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindLatestByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.customer_email = ? ORDER BY o.created_at DESC, o.id DESC LIMIT 1`)).
		WithArgs("budi@example.com").
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
			9, "WMX-9-1", 10, 3, "15000.00", "WAITING_PAYMENT", []byte(`{}`),
			"budi@example.com", nil, nil, now, now, "Free Fire",
		))

	order, err := repo.FindLatestByEmail(context.Background(), "budi@example.com")
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, uint64(3), *order.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_LockStaleAndUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOrderRepository(db)
	cutoff := time.Now().Add(-15 * time.Minute)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = ? AND created_at < ?`)).
		WithArgs("WAITING_PAYMENT", cutoff, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number"}).AddRow(1, "WMX-1-1").AddRow(2, "WMX-2-2"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = ?, updated_at = ? WHERE id IN (?, ?)`)).
		WithArgs("CANCELLED", now, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	stale, err := repo.LockStaleAwaitingPayment(context.Background(), tx, cutoff, 100)
	require.NoError(t, err)
	require.Len(t, stale, 2)

	require.NoError(t, repo.UpdateStatus(context.Background(), tx, []uint64{stale[0].ID, stale[1].ID}, domain.OrderStatusCancelled, now))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Integration

func TestOrderRepository_Integration_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	serviceID := testutil.SeedService(t, db, "Mobile Legends", "mobile-legends")
	now := time.Now().Truncate(time.Millisecond)

	order := sampleOrder(now)
	order.ServiceID = serviceID

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, NewMySQLOrderRepository(db).Insert(context.Background(), tx, order))
	require.NoError(t, tx.Commit())

	found, err := NewMySQLOrderRepository(db).FindByOrderNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, "Mobile Legends", found.ServiceName)

	tx, err = db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	err = NewMySQLOrderRepository(db).Insert(context.Background(), tx, sampleOrder(now))
	var mysqlErr *mysql.MySQLError
	require.ErrorAs(t, err, &mysqlErr)
	assert.Equal(t, uint16(1062), mysqlErr.Number)
}
