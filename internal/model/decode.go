package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedBody is returned when a request body is not a JSON object.
var ErrMalformedBody = errors.New("request body must be a JSON object")

// ValidationError reports a missing or mistyped input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// decimalLimit is the exclusive bound of a NUMERIC(12,2) column.
var decimalLimit = decimal.New(1, 10)

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DecodePatch decodes a JSON object into a Patch for e. Unknown and read-only keys
// (id, created_at, updated_at) are ignored. Present keys are type-checked.
func DecodePatch(e *Entity, body []byte) (Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrMalformedBody
	}

	p := make(Patch, len(raw))
	for _, f := range e.Fields {
		msg, ok := raw[f.Name]
		if !ok {
			continue
		}
		v, err := decodeValue(f, msg)
		if err != nil {
			return nil, err
		}
		p[f.Name] = v
	}
	return p, nil
}

// CheckCreate verifies every required field is present and non-null.
func (e *Entity) CheckCreate(p Patch) error {
	for _, f := range e.Fields {
		if !f.Required || f.Managed {
			continue
		}
		if v, ok := p[f.Name]; !ok || v == nil {
			return invalid(f.Name, "field required")
		}
	}
	return nil
}

// CheckUpdate rejects explicit nulls on required fields.
func (e *Entity) CheckUpdate(p Patch) error {
	for _, f := range e.Fields {
		if v, ok := p[f.Name]; ok && v == nil && f.Required {
			return invalid(f.Name, "may not be null")
		}
	}
	return nil
}

// ApplyDefaults fills absent fields with their defaults and overwrites managed fields.
func (e *Entity) ApplyDefaults(p Patch, now time.Time) {
	for _, f := range e.Fields {
		if p.Has(f.Name) && !f.Managed {
			continue
		}
		switch {
		case f.DefaultNow && f.Type == Date:
			p[f.Name] = dateOnly(now)
		case f.DefaultNow:
			p[f.Name] = now.UTC()
		case f.Default != nil:
			p[f.Name] = f.Default
		case f.Managed:
			p[f.Name] = nil
		}
	}
}

// ParseParam converts a path or query string into a value of the field's type.
func ParseParam(f Field, s string) (any, error) {
	switch f.Type {
	case Integer:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, invalid(f.Name, "must be an integer")
		}
		return n, nil
	case Boolean:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, invalid(f.Name, "must be a boolean")
		}
		return b, nil
	}
	quoted, _ := json.Marshal(s)
	return decodeValue(f, quoted)
}

func decodeValue(f Field, msg json.RawMessage) (any, error) {
	msg = bytes.TrimSpace(msg)
	if bytes.Equal(msg, []byte("null")) {
		return nil, nil
	}

	switch f.Type {
	case Text:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, invalid(f.Name, "must be a string")
		}
		return s, nil

	case Integer:
		s, ok := scalar(msg)
		if !ok {
			return nil, invalid(f.Name, "must be an integer")
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsInteger() {
			return nil, invalid(f.Name, "must be an integer")
		}
		return d.IntPart(), nil

	case Decimal:
		s, ok := scalar(msg)
		if !ok {
			return nil, invalid(f.Name, "must be a number")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, invalid(f.Name, "must be a number")
		}
		if d.Round(2).Abs().GreaterThanOrEqual(decimalLimit) {
			return nil, invalid(f.Name, "must be less than %s in magnitude", decimalLimit)
		}
		return d, nil

	case Boolean:
		var b bool
		if err := json.Unmarshal(msg, &b); err == nil {
			return b, nil
		}
		s, ok := scalar(msg)
		if !ok {
			return nil, invalid(f.Name, "must be a boolean")
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalid(f.Name, "must be a boolean")
		}
		return b, nil

	case Date:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, invalid(f.Name, "must be a date (YYYY-MM-DD)")
		}
		t, err := parseDate(s)
		if err != nil {
			return nil, invalid(f.Name, "must be a date (YYYY-MM-DD)")
		}
		return t, nil

	case Time:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, invalid(f.Name, "must be a time (HH:MM[:SS])")
		}
		t, err := parseClock(s)
		if err != nil {
			return nil, invalid(f.Name, "must be a time (HH:MM[:SS])")
		}
		return t, nil

	case Timestamp:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, invalid(f.Name, "must be a datetime")
		}
		t, err := parseTimestamp(s)
		if err != nil {
			return nil, invalid(f.Name, "must be a datetime")
		}
		return t, nil

	case JSON:
		var buf bytes.Buffer
		if err := json.Compact(&buf, msg); err != nil {
			return nil, invalid(f.Name, "must be valid JSON")
		}
		return json.RawMessage(buf.Bytes()), nil
	}
	return nil, invalid(f.Name, "unsupported field type")
}

// scalar returns the text of a JSON number or string.
func scalar(msg json.RawMessage) (string, bool) {
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String(), true
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	return "", false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", s)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return dateOnly(t), nil
}

func parseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04", "15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("unrecognised time %q", s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
