package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FieldType is the storage and wire type of an entity field.
type FieldType int

const (
	Text FieldType = iota
	Integer
	Decimal
	Boolean
	Date
	Time
	Timestamp
	JSON
)

func (t FieldType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Decimal:
		return "number"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Time:
		return "time"
	case Timestamp:
		return "datetime"
	case JSON:
		return "json"
	default:
		return "string"
	}
}

// Field describes one writable column.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// Default is applied on create when the field is absent.
	Default any
	// DefaultNow fills Date and Timestamp fields with the current time on create.
	DefaultNow bool
	// Managed fields ignore client input on create and always take their default.
	Managed bool
}

// Req marks the field as required on create and non-nullable on update.
func (f Field) Req() Field {
	f.Required = true
	return f
}

// Def sets the create-time default. Plain ints are widened to the field's type.
func (f Field) Def(v any) Field {
	if n, ok := v.(int); ok {
		if f.Type == Decimal {
			v = decimal.NewFromInt(int64(n))
		} else {
			v = int64(n)
		}
	}
	f.Default = v
	return f
}

// Now defaults the field to the current time on create.
func (f Field) Now() Field {
	f.DefaultNow = true
	return f
}

// Server makes the field server-controlled on create.
func (f Field) Server() Field {
	f.Managed = true
	return f
}

// Code describes a generated human-readable identifier.
type Code struct {
	Field string
	// Next computes the code from the clock, the newest existing code and the row count.
	Next func(now time.Time, last string, hasLast bool, count int64) string
}

// Unique is a column whose values may not repeat; Message is returned on Conflict.
type Unique struct {
	Field   string
	Message string
}

// Parent is a reference from Field to Table.Column that must resolve to an existing row.
type Parent struct {
	Field      string
	Table      string
	Column     string
	Label      string
	SoftDelete bool
}

// Join attaches a related table to reads, aliased for use in Computed, Search and Filters.
type Join struct {
	Table string
	Alias string
	On    string
}

// Computed is a read-only column derived from an SQL expression.
type Computed struct {
	Name string
	Expr string
	Type FieldType
}

// FilterKind controls how a list query parameter is matched.
type FilterKind int

const (
	Exact FilterKind = iota
	Contains
	BoolMatch
	IntMatch
)

// Filter maps a query parameter to a column predicate.
type Filter struct {
	Param    string
	Column   string
	Kind     FilterKind
	Sentinel string
	// Values translates parameter values before matching. Unknown values disable the filter.
	Values map[string]any
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Related exposes GET /<path>/<Path>/:value returning every row where Field equals value.
type Related struct {
	Path  string
	Field string
}

// Enum exposes GET /<path>/<Path> listing the distinct non-empty values of Column.
type Enum struct {
	Path   string
	Column string
}

// StatKind selects the aggregate computed for a Stat.
type StatKind int

const (
	Count StatKind = iota
	Sum
	Avg
	CountDistinct
	Difference
)

// Stat is one aggregate in the stats payload. Where is a static SQL predicate.
type Stat struct {
	Name  string
	Kind  StatKind
	Expr  string
	Where string
	// Of names two earlier stats for Difference.
	Of [2]string
}

// Echo copies fields of a deleted record into the delete confirmation.
// Multiple fields are joined with a space.
type Echo struct {
	Key    string
	Fields []string
}

// Entity is the full description of one resource. The generic repository, service
// and handlers are driven entirely by it.
type Entity struct {
	Label string
	Path  string
	Table string

	Fields   []Field
	Code     *Code
	Uniques  []Unique
	Parents  []Parent
	Joins    []Join
	Computed []Computed

	Search  []string
	Filters []Filter
	Order   []Order
	Related []Related
	Enums   []Enum

	Stats      []Stat
	StatsScope string

	Echo       []Echo
	SoftDelete bool
	Indexes    []string
}

// Field returns the named field.
func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// UniqueIndex names the unique index guarding field.
func (e *Entity) UniqueIndex(field string) string {
	return "ux_" + e.Table + "_" + field
}

// ForeignKey names the constraint behind the parent reference in field.
func (e *Entity) ForeignKey(field string) string {
	return "fk_" + e.Table + "_" + field
}

// ParentFor returns the parent reference stored in the named field.
func (e *Entity) ParentFor(name string) (Parent, bool) {
	for _, p := range e.Parents {
		if p.Field == name {
			return p, true
		}
	}
	return Parent{}, false
}

// IsSentinel reports whether v means "no filter" for f.
func (f Filter) IsSentinel(v string) bool {
	return f.Sentinel != "" && v == f.Sentinel
}
