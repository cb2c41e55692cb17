package repository

import (
	"context"
	"errors"

	"fdms/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist (or is soft-deleted).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrMissingParent is returned when a foreign key does not resolve.
	ErrMissingParent = errors.New("referenced record does not exist")
)

// DuplicateError names the unique index that rejected a write. It matches ErrDuplicate.
type DuplicateError struct {
	Index string
}

func (e *DuplicateError) Error() string { return "duplicate key violates " + e.Index }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// MissingParentError names the foreign key that rejected a write. It matches ErrMissingParent.
type MissingParentError struct {
	Constraint string
}

func (e *MissingParentError) Error() string { return "foreign key violates " + e.Constraint }

func (e *MissingParentError) Is(target error) bool { return target == ErrMissingParent }

// Op is the comparison applied by a Condition.
type Op int

const (
	// Eq matches the column value exactly.
	Eq Op = iota
	// Contains is a case-insensitive substring match.
	Contains
)

// Condition is one predicate of a list query. Multiple Columns are OR-combined.
type Condition struct {
	Columns []string
	Op      Op
	Value   any
}

// ListQuery selects a page of rows. Conditions are AND-combined.
type ListQuery struct {
	Conditions []Condition
	Skip       int
	Limit      int
}

// RecordRepository reads rows of any catalog entity. Writes go through a RecordTx.
type RecordRepository interface {
	// List returns rows matching q in the entity's default order.
	List(ctx context.Context, e *model.Entity, q ListQuery) ([]model.Record, error)

	// FindByID returns one row or ErrNotFound.
	FindByID(ctx context.Context, e *model.Entity, id int64) (model.Record, error)

	// FindBy returns every row whose column equals value, in default order.
	FindBy(ctx context.Context, e *model.Entity, column string, value any) ([]model.Record, error)

	// Distinct returns the sorted non-empty values of column.
	Distinct(ctx context.Context, e *model.Entity, column string) ([]string, error)

	// Stats computes every declared aggregate of e in one round trip.
	Stats(ctx context.Context, e *model.Entity) (map[string]any, error)

	// Begin opens a write transaction.
	Begin(ctx context.Context) (RecordTx, error)
}

// RecordTx is a unit of work over one or more entities.
type RecordTx interface {
	// LockSequence serialises code generation for e until the transaction ends.
	LockSequence(ctx context.Context, e *model.Entity) error

	// LastCode returns the code of the most recently created row.
	LastCode(ctx context.Context, e *model.Entity) (code string, ok bool, err error)

	// Count returns the number of rows of e.
	Count(ctx context.Context, e *model.Entity) (int64, error)

	// Exists reports whether another row already holds value in column. excludeID is
	// ignored when zero.
	Exists(ctx context.Context, e *model.Entity, column string, value any, excludeID int64) (bool, error)

	// ParentExists reports whether the referenced parent row exists.
	ParentExists(ctx context.Context, p model.Parent, value any) (bool, error)

	// FindByID returns one row and locks it for update.
	FindByID(ctx context.Context, e *model.Entity, id int64) (model.Record, error)

	// Insert writes a new row and returns its id.
	Insert(ctx context.Context, e *model.Entity, p model.Patch) (int64, error)

	// Update writes the fields present in p. It returns ErrNotFound if no row matched.
	Update(ctx context.Context, e *model.Entity, id int64, p model.Patch) error

	// Delete removes the row, or flags it when e is soft-deleted.
	Delete(ctx context.Context, e *model.Entity, id int64) error

	Commit() error
	Rollback() error
}
