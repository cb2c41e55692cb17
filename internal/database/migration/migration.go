package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fdms/internal/model"
)

// Step is one named, idempotent DDL statement.
type Step struct {
	Name string
	SQL  string
}

const ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Steps renders the schema of every entity, in order: each table is followed by its
// unique indexes (so later tables can reference them) and then its lookup indexes.
func Steps(entities []*model.Entity) []Step {
	var out []Step
	for _, e := range entities {
		out = append(out, Step{Name: "create_table_" + e.Table, SQL: createTable(e)})
		for _, u := range e.Uniques {
			name := e.UniqueIndex(u.Field)
			ddl := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", name, e.Table, u.Field)
			if e.SoftDelete {
				ddl += " WHERE is_deleted = FALSE"
			}
			out = append(out, Step{Name: "create_index_" + name, SQL: ddl})
		}
		for _, col := range indexedColumns(e) {
			name := "ix_" + e.Table + "_" + col
			out = append(out, Step{
				Name: "create_index_" + name,
				SQL:  fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, e.Table, col),
			})
		}
	}
	return out
}

func createTable(e *model.Entity) string {
	lines := []string{"  id BIGSERIAL PRIMARY KEY"}
	for _, f := range e.Fields {
		lines = append(lines, "  "+columnDDL(e, f))
	}
	if e.SoftDelete {
		lines = append(lines, "  is_deleted BOOLEAN NOT NULL DEFAULT FALSE")
	}
	lines = append(lines,
		"  created_at TIMESTAMPTZ NOT NULL DEFAULT now()",
		"  updated_at TIMESTAMPTZ",
	)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", e.Table, strings.Join(lines, ",\n"))
}

var sqlTypes = map[model.FieldType]string{
	model.Text:      "TEXT",
	model.Integer:   "BIGINT",
	model.Decimal:   "NUMERIC(12,2)",
	model.Boolean:   "BOOLEAN",
	model.Date:      "DATE",
	model.Time:      "TIME",
	model.Timestamp: "TIMESTAMPTZ",
	model.JSON:      "JSONB",
}

func columnDDL(e *model.Entity, f model.Field) string {
	parts := []string{f.Name, sqlTypes[f.Type]}
	if f.Required {
		parts = append(parts, "NOT NULL")
	}
	if def := defaultLiteral(f); def != "" {
		parts = append(parts, "DEFAULT "+def)
	}
	if p, ok := e.ParentFor(f.Name); ok {
		ref := fmt.Sprintf("CONSTRAINT %s REFERENCES %s (%s)", e.ForeignKey(f.Name), p.Table, p.Column)
		if p.Column != "id" {
			ref += " ON UPDATE CASCADE"
		}
		if f.Required {
			ref += " ON DELETE CASCADE"
		} else {
			ref += " ON DELETE SET NULL"
		}
		parts = append(parts, ref)
	}
	return strings.Join(parts, " ")
}

func defaultLiteral(f model.Field) string {
	if f.DefaultNow {
		if f.Type == model.Date {
			return "CURRENT_DATE"
		}
		return "now()"
	}
	switch v := f.Default.(type) {
	case nil:
		return ""
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return fmt.Sprint(v)
	case decimal.Decimal:
		return v.String()
	}
	return ""
}

// indexedColumns lists columns used for parent lookups, related-key routes and filters.
func indexedColumns(e *model.Entity) []string {
	seen := map[string]bool{}
	for _, u := range e.Uniques {
		seen[u.Field] = true
	}
	var out []string
	add := func(col string) {
		if seen[col] {
			return
		}
		if _, ok := e.Field(col); !ok {
			return
		}
		seen[col] = true
		out = append(out, col)
	}
	for _, p := range e.Parents {
		add(p.Field)
	}
	for _, r := range e.Related {
		add(r.Field)
	}
	for _, f := range e.Filters {
		add(f.Column)
	}
	for _, col := range e.Indexes {
		add(col)
	}
	return out
}

// EnsureMigrated applies every catalog step not yet recorded in schema_migrations.
// Each step runs in its own transaction together with its ledger row.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	log.Info("checking schema", zap.String("event", "db_migration_check"), zap.String("status", "starting"))

	fail := func(step string, err error) error {
		log.Error("migration failed",
			zap.String("event", "db_migration_failed"),
			zap.String("status", "error"),
			zap.String("migration_step", step),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("migration step %s failed: %w", step, err)
	}

	if _, err := db.ExecContext(ctx, ledgerDDL); err != nil {
		return fail("create_table_schema_migrations", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		return fail("read_schema_migrations", err)
	}

	pending := 0
	for _, step := range Steps(model.Catalog()) {
		if applied[step.Name] {
			continue
		}
		pending++
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			return fail(step.Name, err)
		}
		log.Info("migration step applied",
			zap.String("event", "db_migration_step"),
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	event := "db_migration_success"
	if pending == 0 {
		event = "db_migration_skip"
	}
	log.Info("schema up to date",
		zap.String("event", event),
		zap.String("status", "success"),
		zap.Int("applied_steps", pending),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", step.Name); err != nil {
		return err
	}
	return tx.Commit()
}
