package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"fdms/internal/model"
	"fdms/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*RecordPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecordPostgres(db), mock
}

var contactColumns = []string{"id", "name", "email", "phone", "message", "created_at", "updated_at"}

const contactSelect = "SELECT t.id AS id, t.name AS name, t.email AS email, t.phone AS phone, " +
	"t.message AS message, t.created_at AS created_at, t.updated_at AS updated_at FROM contacts t"

func TestRecordPostgres_List(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(contactColumns).
		AddRow(int64(2), "Ann Lee", "ann@example.com", nil, "hello", now, now).
		AddRow(int64(1), "Anna Ray", "anna@example.com", "555", nil, now, now)

	query := contactSelect +
		" WHERE (t.name ILIKE $1 OR t.email ILIKE $1) ORDER BY t.created_at DESC, t.id DESC LIMIT $2 OFFSET $3"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("%ann%", 10, 0).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), model.Contacts, repository.ListQuery{
		Conditions: []repository.Condition{{Columns: []string{"name", "email"}, Op: repository.Contains, Value: "ann"}},
		Limit:      10,
	})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID())
	assert.Nil(t, out[0]["phone"])
	assert.Equal(t, "555", out[1]["phone"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_List_Empty(t *testing.T) {
	repo, mock := newMock(t)

	query := contactSelect + " ORDER BY t.created_at DESC, t.id DESC LIMIT $1 OFFSET $2"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(100, 20).
		WillReturnRows(sqlmock.NewRows(contactColumns))

	out, err := repo.List(context.Background(), model.Contacts, repository.ListQuery{Skip: 20, Limit: 100})

	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_FindByID_TypedColumns(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "vehicle_id", "date", "fuel_type", "quantity", "cost", "station", "odometer_reading",
		"mpg", "notes", "vehicle_name", "license_plate", "created_at", "updated_at",
	}).AddRow(int64(5), int64(7), "2026-02-01", "Diesel", "12.50", "61.20", nil, int64(120400),
		nil, nil, "Cadillac XTS", "HRS-1", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("to_char(t.date, 'YYYY-MM-DD') AS date") +
		".*" + regexp.QuoteMeta("t.quantity::text AS quantity") +
		".*" + regexp.QuoteMeta("v.make || ' ' || v.model AS vehicle_name") +
		".*" + regexp.QuoteMeta("FROM fuel_logs t LEFT JOIN vehicles v ON v.id = t.vehicle_id WHERE t.id = $1")).
		WithArgs(5).
		WillReturnRows(rows)

	rec, err := repo.FindByID(context.Background(), model.FuelLogs, 5)

	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", rec["date"])
	assert.True(t, decimal.RequireFromString("12.5").Equal(rec["quantity"].(decimal.Decimal)))
	assert.Equal(t, int64(120400), rec["odometer_reading"])
	assert.Nil(t, rec["mpg"])
	assert.Equal(t, "Cadillac XTS", rec["vehicle_name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_FindByID_SoftDeleted(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents t WHERE t.is_deleted = FALSE AND t.id = $1")).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)

	rec, err := repo.FindByID(context.Background(), model.Documents, 9)

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_FindBy(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM next_of_kin t WHERE t.case_number = $1 ORDER BY t.created_at DESC, t.id DESC")).
		WithArgs("FD-2026-0101000000").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := repo.FindBy(context.Background(), model.NextOfKin, "case_number", "FD-2026-0101000000")

	assert.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_Distinct(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT DISTINCT t.vehicle_type FROM vehicles t WHERE t.vehicle_type IS NOT NULL AND t.vehicle_type <> '' ORDER BY t.vehicle_type")).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_type"}).AddRow("Hearse").AddRow("Van"))

	out, err := repo.Distinct(context.Background(), model.Vehicles, "vehicle_type")

	require.NoError(t, err)
	assert.Equal(t, []string{"Hearse", "Van"}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_Stats(t *testing.T) {
	t.Run("sums and difference", func(t *testing.T) {
		repo, mock := newMock(t)

		query := "SELECT COUNT(*), " +
			"COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Income'), 0)::text, " +
			"COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Expense'), 0)::text FROM transactions"
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c"}).AddRow(int64(4), "1500.00", "400.255"))

		stats, err := repo.Stats(context.Background(), model.Transactions)

		require.NoError(t, err)
		assert.Equal(t, int64(4), stats["total_transactions"])
		assert.Equal(t, "1500", stats["income"].(decimal.Decimal).String())
		assert.Equal(t, "400.26", stats["expenses"].(decimal.Decimal).String())
		assert.Equal(t, "1099.74", stats["net"].(decimal.Decimal).String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scoped to active rows", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM vehicles WHERE is_active")).
			WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}).AddRow(int64(3), int64(1), int64(1), int64(1)))

		stats, err := repo.Stats(context.Background(), model.Vehicles)

		require.NoError(t, err)
		assert.Equal(t, int64(3), stats["total"])
		assert.Equal(t, int64(1), stats["maintenance"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes soft-deleted rows", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(file_size / 1048576.0), 0)::text FROM documents WHERE is_deleted = FALSE")).
			WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}).AddRow(int64(2), int64(1), int64(0), "0"))

		stats, err := repo.Stats(context.Background(), model.Documents)

		require.NoError(t, err)
		assert.True(t, decimal.Zero.Equal(stats["total_storage_mb"].(decimal.Decimal)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordTx_InsertWithCode(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	paid := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("payments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payment_number FROM payments WHERE payment_number IS NOT NULL ORDER BY id DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"payment_number"}).AddRow("PAY-002"))
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO payments (payment_number, payer_name, payment_method, amount, payment_date, status, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, now()) RETURNING id")).
		WithArgs("PAY-003", "Ann", "Card", "150.5", paid, "Pending").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.LockSequence(ctx, model.Payments))

	last, ok, err := tx.LastCode(ctx, model.Payments)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "PAY-002", last)

	id, err := tx.Insert(ctx, model.Payments, model.Patch{
		"payment_number": "PAY-003",
		"payer_name":     "Ann",
		"payment_method": "Card",
		"amount":         decimal.RequireFromString("150.50"),
		"payment_date":   paid,
		"status":         "Pending",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTx_LastCode_Empty(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT family_id FROM families").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, ok, err := tx.LastCode(ctx, model.Families)
	assert.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTx_Insert_Duplicate(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO vehicles").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_vehicles_vin"})

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Insert(ctx, model.Vehicles, model.Patch{"vin": "1HGCM82633A004352"})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
	var dup *repository.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "ux_vehicles_vin", dup.Index)
}

func TestRecordTx_Insert_MissingParent(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO fuel_logs").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_fuel_logs_vehicle_id"})

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Insert(ctx, model.FuelLogs, model.Patch{"vehicle_id": int64(42)})

	assert.ErrorIs(t, err, repository.ErrMissingParent)
}

func TestRecordTx_DataExceptions(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		field   string
		message string
	}{
		{"numeric overflow", &pgconn.PgError{Code: "22003", ColumnName: "amount"}, "amount", "numeric value out of range"},
		{"date out of range", &pgconn.PgError{Code: "22008"}, "", "date or time out of range"},
		{"nul byte in text", &pgconn.PgError{Code: "22021", ColumnName: "notes"}, "notes", "contains invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			ctx := context.Background()

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO payments").WillReturnError(tt.pgErr)

			tx, err := repo.Begin(ctx)
			require.NoError(t, err)
			_, err = tx.Insert(ctx, model.Payments, model.Patch{"amount": decimal.RequireFromString("99999999999")})

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestRecordTx_Update_DataException(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").WillReturnError(&pgconn.PgError{Code: "22003"})

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	err = tx.Update(ctx, model.Payments, 3, model.Patch{"amount": decimal.RequireFromString("99999999999")})

	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)
}

func TestRecordTx_ExistsAndParent(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM document_types t WHERE t.is_deleted = FALSE AND t.name = $1 AND t.id <> $2)")).
		WithArgs("Will", 4).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM cases WHERE case_number = $1)")).
		WithArgs("FD-2026-0101000000").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)

	ok, err := tx.Exists(ctx, model.DocumentTypes, "name", "Will", 4)
	require.NoError(t, err)
	assert.True(t, ok)

	p, _ := model.Assignments.ParentFor("case_number")
	ok, err = tx.ParentExists(ctx, p, "FD-2026-0101000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTx_Update(t *testing.T) {
	t.Run("writes present fields only", func(t *testing.T) {
		repo, mock := newMock(t)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE contacts SET phone = $1, updated_at = now() WHERE id = $2")).
			WithArgs(nil, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := repo.Begin(ctx)
		require.NoError(t, err)
		assert.NoError(t, tx.Update(ctx, model.Contacts, 1, model.Patch{"phone": nil}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newMock(t)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE contacts").WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := repo.Begin(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, tx.Update(ctx, model.Contacts, 999, model.Patch{"name": "x"}), repository.ErrNotFound)
	})
}

func TestRecordTx_Delete(t *testing.T) {
	t.Run("hard", func(t *testing.T) {
		repo, mock := newMock(t)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contacts WHERE id = $1")).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := repo.Begin(ctx)
		require.NoError(t, err)
		assert.NoError(t, tx.Delete(ctx, model.Contacts, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("soft", func(t *testing.T) {
		repo, mock := newMock(t)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE")).
			WithArgs(2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := repo.Begin(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, tx.Delete(ctx, model.Documents, 2), repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordTx_FindByID_Locks(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM contacts WHERE id = $1 FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(contactSelect+" WHERE t.id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(contactColumns).AddRow(int64(1), "Ann", "a@b.c", nil, nil, now, now))

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	rec, err := tx.FindByID(ctx, model.Contacts, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", rec["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY t.display_order ASC, t.name ASC, t.id ASC", orderBy(model.ServiceAddons))
	assert.Equal(t, " ORDER BY t.date DESC, t.id DESC", orderBy(model.FuelLogs))
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "t.address_line1", qualify("address_line1"))
	assert.Equal(t, "v.make", qualify("v.make"))
	assert.Equal(t, "CAST(t.id AS TEXT)", qualify("CAST(t.id AS TEXT)"))
}
