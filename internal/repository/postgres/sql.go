package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fdms/internal/model"
	"fdms/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// qualify prefixes bare column names with the base table alias. Expressions and
// columns of joined tables are used as written.
func qualify(col string) string {
	if identifier.MatchString(col) {
		return "t." + col
	}
	return col
}

type column struct {
	name string
	expr string
	typ  model.FieldType
}

// columns lists what a read returns for e, in scan order.
func columns(e *model.Entity) []column {
	out := make([]column, 0, len(e.Fields)+len(e.Computed)+3)
	out = append(out, column{name: "id", expr: "t.id", typ: model.Integer})
	for _, f := range e.Fields {
		out = append(out, column{name: f.Name, expr: "t." + f.Name, typ: f.Type})
	}
	for _, c := range e.Computed {
		out = append(out, column{name: c.Name, expr: c.Expr, typ: c.Type})
	}
	out = append(out,
		column{name: "created_at", expr: "t.created_at", typ: model.Timestamp},
		column{name: "updated_at", expr: "t.updated_at", typ: model.Timestamp},
	)
	return out
}

func selectExpr(c column) string {
	expr := c.expr
	switch c.typ {
	case model.Decimal, model.Time, model.JSON:
		expr += "::text"
	case model.Date:
		expr = "to_char(" + expr + ", 'YYYY-MM-DD')"
	}
	return expr + " AS " + c.name
}

// builder accumulates predicates and positional arguments.
type builder struct {
	entity *model.Entity
	conds  []string
	args   []any
}

func newBuilder(e *model.Entity) *builder {
	b := &builder{entity: e}
	if e.SoftDelete {
		b.conds = append(b.conds, "t.is_deleted = FALSE")
	}
	return b
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *builder) condition(c repository.Condition) {
	if len(c.Columns) == 0 {
		return
	}
	var ph string
	op := " = "
	if c.Op == repository.Contains {
		ph = b.arg("%" + fmt.Sprint(c.Value) + "%")
		op = " ILIKE "
	} else {
		ph = b.arg(c.Value)
	}
	parts := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		parts[i] = qualify(col) + op + ph
	}
	if len(parts) == 1 {
		b.where(parts[0])
		return
	}
	b.where("(" + strings.Join(parts, " OR ") + ")")
}

func (b *builder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func (b *builder) selectSQL() string {
	cols := columns(b.entity)
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = selectExpr(c)
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(exprs, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.entity.Table)
	sb.WriteString(" t")
	for _, j := range b.entity.Joins {
		fmt.Fprintf(&sb, " LEFT JOIN %s %s ON %s", j.Table, j.Alias, j.On)
	}
	sb.WriteString(b.whereClause())
	return sb.String()
}

// orderBy renders the default order followed by an id tie-break.
func orderBy(e *model.Entity) string {
	terms := make([]string, 0, len(e.Order)+1)
	desc := false
	for i, o := range e.Order {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		if i == 0 {
			desc = o.Desc
		}
		terms = append(terms, qualify(o.Column)+" "+dir)
	}
	if desc {
		terms = append(terms, "t.id DESC")
	} else {
		terms = append(terms, "t.id ASC")
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner, cols []column) (model.Record, error) {
	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c.typ {
		case model.Integer:
			dest[i] = new(sql.NullInt64)
		case model.Boolean:
			dest[i] = new(sql.NullBool)
		case model.Timestamp:
			dest[i] = new(sql.NullTime)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	rec := make(model.Record, len(cols))
	for i, c := range cols {
		switch v := dest[i].(type) {
		case *sql.NullInt64:
			rec[c.name] = nullable(v.Valid, v.Int64)
		case *sql.NullBool:
			rec[c.name] = nullable(v.Valid, v.Bool)
		case *sql.NullTime:
			rec[c.name] = nullable(v.Valid, v.Time.UTC())
		case *sql.NullString:
			if !v.Valid {
				rec[c.name] = nil
				continue
			}
			val, err := fromText(c.typ, v.String)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.name, err)
			}
			rec[c.name] = val
		}
	}
	return rec, nil
}

func nullable[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}

func fromText(t model.FieldType, s string) (any, error) {
	switch t {
	case model.Decimal:
		return decimal.NewFromString(s)
	case model.JSON:
		return json.RawMessage(s), nil
	}
	return s, nil
}

// toArg converts a decoded patch value into a driver argument.
func toArg(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case json.RawMessage:
		return string(x)
	}
	return v
}

func collect(rows *sql.Rows, cols []column) ([]model.Record, error) {
	defer rows.Close()
	out := make([]model.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &repository.DuplicateError{Index: pgErr.ConstraintName}
		case "23503":
			return &repository.MissingParentError{Constraint: pgErr.ConstraintName}
		}
		// Class 22: the value was well-formed JSON but does not fit the column.
		if strings.HasPrefix(pgErr.Code, "22") {
			return &model.ValidationError{Field: pgErr.ColumnName, Message: dataExceptionMessage(pgErr.Code)}
		}
	}
	return err
}

func dataExceptionMessage(code string) string {
	switch code {
	case "22003":
		return "numeric value out of range"
	case "22008":
		return "date or time out of range"
	case "22001":
		return "value too long"
	case "22021", "22P05":
		return "contains invalid characters"
	}
	return "invalid value"
}
