package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fdms/internal/model"
	"fdms/internal/repository"

	"github.com/shopspring/decimal"
)

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
// SQL is generated from entity metadata; every value travels as a bind parameter.
type RecordPostgres struct {
	db *sql.DB
}

// NewRecordPostgres creates a new RecordPostgres repository.
func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var (
	_ repository.RecordRepository = (*RecordPostgres)(nil)
	_ repository.RecordTx         = (*recordTx)(nil)
)

// List returns a page of rows matching q.
func (r *RecordPostgres) List(ctx context.Context, e *model.Entity, q repository.ListQuery) ([]model.Record, error) {
	b := newBuilder(e)
	for _, c := range q.Conditions {
		b.condition(c)
	}
	query := b.selectSQL() + orderBy(e)
	limit := b.arg(q.Limit)
	offset := b.arg(q.Skip)
	query += " LIMIT " + limit + " OFFSET " + offset

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.Table, err)
	}
	out, err := collect(rows, columns(e))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.Table, err)
	}
	return out, nil
}

// FindByID fetches a single row by its primary key.
func (r *RecordPostgres) FindByID(ctx context.Context, e *model.Entity, id int64) (model.Record, error) {
	return findByID(ctx, r.db, e, id)
}

// FindBy returns every row whose column equals value.
func (r *RecordPostgres) FindBy(ctx context.Context, e *model.Entity, column string, value any) ([]model.Record, error) {
	b := newBuilder(e)
	b.where(qualify(column) + " = " + b.arg(toArg(value)))
	rows, err := r.db.QueryContext(ctx, b.selectSQL()+orderBy(e), b.args...)
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", e.Table, column, err)
	}
	out, err := collect(rows, columns(e))
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", e.Table, column, err)
	}
	return out, nil
}

// Distinct returns the sorted, non-empty values of column.
func (r *RecordPostgres) Distinct(ctx context.Context, e *model.Entity, column string) ([]string, error) {
	b := newBuilder(e)
	col := qualify(column)
	b.where(col + " IS NOT NULL")
	b.where(col + " <> ''")
	query := "SELECT DISTINCT " + col + " FROM " + e.Table + " t" + b.whereClause() + " ORDER BY " + col

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", e.Table, column, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats evaluates every aggregate in a single query. Counts are int64; sums and
// averages are decimals rounded to two places.
func (r *RecordPostgres) Stats(ctx context.Context, e *model.Entity) (map[string]any, error) {
	var scope []string
	if e.StatsScope != "" {
		scope = append(scope, e.StatsScope)
	}
	if e.SoftDelete {
		scope = append(scope, "is_deleted = FALSE")
	}

	var (
		exprs []string
		dest  []any
		kinds []model.Stat
	)
	for _, s := range e.Stats {
		expr := statExpr(s)
		if expr == "" {
			continue
		}
		exprs = append(exprs, expr)
		kinds = append(kinds, s)
		if s.Kind == model.Sum || s.Kind == model.Avg {
			dest = append(dest, new(string))
		} else {
			dest = append(dest, new(int64))
		}
	}

	query := "SELECT " + strings.Join(exprs, ", ") + " FROM " + e.Table
	if len(scope) > 0 {
		query += " WHERE " + strings.Join(scope, " AND ")
	}
	if err := r.db.QueryRowContext(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("stats %s: %w", e.Table, err)
	}

	out := make(map[string]any, len(e.Stats))
	for i, s := range kinds {
		switch v := dest[i].(type) {
		case *int64:
			out[s.Name] = *v
		case *string:
			d, err := decimal.NewFromString(*v)
			if err != nil {
				return nil, fmt.Errorf("stats %s.%s: %w", e.Table, s.Name, err)
			}
			out[s.Name] = d.Round(2)
		}
	}
	for _, s := range e.Stats {
		if s.Kind != model.Difference {
			continue
		}
		a, _ := out[s.Of[0]].(decimal.Decimal)
		b, _ := out[s.Of[1]].(decimal.Decimal)
		out[s.Name] = a.Sub(b)
	}
	return out, nil
}

func statExpr(s model.Stat) string {
	filter := ""
	if s.Where != "" {
		filter = " FILTER (WHERE " + s.Where + ")"
	}
	switch s.Kind {
	case model.Count:
		return "COUNT(*)" + filter
	case model.Sum:
		return "COALESCE(SUM(" + s.Expr + ")" + filter + ", 0)::text"
	case model.Avg:
		return "COALESCE(AVG(" + s.Expr + ")" + filter + ", 0)::text"
	case model.CountDistinct:
		return "COUNT(DISTINCT " + s.Expr + ")" + filter
	}
	return ""
}

// Begin starts a write transaction.
func (r *RecordPostgres) Begin(ctx context.Context) (repository.RecordTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}
	return &recordTx{tx: tx}, nil
}

func findByID(ctx context.Context, q querier, e *model.Entity, id int64) (model.Record, error) {
	b := newBuilder(e)
	b.where("t.id = " + b.arg(id))
	rec, err := scanRecord(q.QueryRowContext(ctx, b.selectSQL(), b.args...), columns(e))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find %s %d: %w", e.Table, id, err)
	}
	return rec, nil
}

type recordTx struct {
	tx *sql.Tx
}

func (t *recordTx) Commit() error   { return t.tx.Commit() }
func (t *recordTx) Rollback() error { return t.tx.Rollback() }

func (t *recordTx) LockSequence(ctx context.Context, e *model.Entity) error {
	if _, err := t.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", e.Table); err != nil {
		return fmt.Errorf("acquiring %s sequence lock: %w", e.Table, err)
	}
	return nil
}

func (t *recordTx) LastCode(ctx context.Context, e *model.Entity) (string, bool, error) {
	col := e.Code.Field
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY id DESC LIMIT 1", col, e.Table, col)
	var code string
	err := t.tx.QueryRowContext(ctx, query).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("last %s code: %w", e.Table, err)
	}
	return code, true, nil
}

func (t *recordTx) Count(ctx context.Context, e *model.Entity) (int64, error) {
	var n int64
	if err := t.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+e.Table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", e.Table, err)
	}
	return n, nil
}

func (t *recordTx) Exists(ctx context.Context, e *model.Entity, column string, value any, excludeID int64) (bool, error) {
	b := newBuilder(e)
	b.where(qualify(column) + " = " + b.arg(toArg(value)))
	if excludeID != 0 {
		b.where("t.id <> " + b.arg(excludeID))
	}
	query := "SELECT EXISTS (SELECT 1 FROM " + e.Table + " t" + b.whereClause() + ")"
	var ok bool
	if err := t.tx.QueryRowContext(ctx, query, b.args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking %s.%s: %w", e.Table, column, err)
	}
	return ok, nil
}

func (t *recordTx) ParentExists(ctx context.Context, p model.Parent, value any) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1", p.Table, p.Column)
	if p.SoftDelete {
		query += " AND is_deleted = FALSE"
	}
	query += ")"
	var ok bool
	if err := t.tx.QueryRowContext(ctx, query, toArg(value)).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking %s.%s: %w", p.Table, p.Column, err)
	}
	return ok, nil
}

// FindByID locks the row and then reads it with its joined columns.
func (t *recordTx) FindByID(ctx context.Context, e *model.Entity, id int64) (model.Record, error) {
	query := "SELECT id FROM " + e.Table + " WHERE id = $1"
	if e.SoftDelete {
		query += " AND is_deleted = FALSE"
	}
	query += " FOR UPDATE"
	var locked int64
	if err := t.tx.QueryRowContext(ctx, query, id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("locking %s %d: %w", e.Table, id, err)
	}
	return findByID(ctx, t.tx, e, id)
}

func (t *recordTx) Insert(ctx context.Context, e *model.Entity, p model.Patch) (int64, error) {
	fields := p.Changes(e)
	cols := make([]string, 0, len(fields)+1)
	phs := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, toArg(p[f.Name]))
		cols = append(cols, f.Name)
		phs = append(phs, fmt.Sprintf("$%d", len(args)))
	}
	cols = append(cols, "updated_at")
	phs = append(phs, "now()")

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		e.Table, strings.Join(cols, ", "), strings.Join(phs, ", "))
	var id int64
	if err := t.tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", e.Table, mapError(err))
	}
	return id, nil
}

func (t *recordTx) Update(ctx context.Context, e *model.Entity, id int64, p model.Patch) error {
	fields := p.Changes(e)
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		args = append(args, toArg(p[f.Name]))
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Name, len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", e.Table, strings.Join(sets, ", "), len(args))
	if e.SoftDelete {
		query += " AND is_deleted = FALSE"
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", e.Table, id, mapError(err))
	}
	return affected(res)
}

func (t *recordTx) Delete(ctx context.Context, e *model.Entity, id int64) error {
	query := "DELETE FROM " + e.Table + " WHERE id = $1"
	if e.SoftDelete {
		query = "UPDATE " + e.Table + " SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE"
	}
	res, err := t.tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", e.Table, id, mapError(err))
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
