package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Record is the wire representation of one row, keyed by column name.
type Record map[string]any

// ID returns the surrogate key of the record, or 0 if absent.
func (r Record) ID() int64 {
	switch v := r["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Text returns a field rendered as a string; nil becomes "".
func (r Record) Text(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Patch holds decoded field values keyed by field name. A present key with a nil
// value is an explicit null; an absent key leaves the column untouched.
type Patch map[string]any

// Has reports whether the field was supplied.
func (p Patch) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Changes returns the supplied fields in declaration order.
func (p Patch) Changes(e *Entity) []Field {
	out := make([]Field, 0, len(p))
	for _, f := range e.Fields {
		if p.Has(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// EchoValues renders the delete confirmation fields of e from r.
func EchoValues(e *Entity, r Record) map[string]any {
	out := make(map[string]any, len(e.Echo))
	for _, echo := range e.Echo {
		if len(echo.Fields) == 1 {
			out[echo.Key] = r[echo.Fields[0]]
			continue
		}
		parts := make([]string, 0, len(echo.Fields))
		for _, f := range echo.Fields {
			if s := r.Text(f); s != "" {
				parts = append(parts, s)
			}
		}
		out[echo.Key] = strings.Join(parts, " ")
	}
	return out
}
