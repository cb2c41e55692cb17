// Package ident generates the human-readable codes attached to records
// (PAY-001, SUP-2026-0001, FD-2026-0314093000 and friends).
package ident

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sequence describes a numbered code family: Prefix, an optional year segment, and a zero-padded counter.
type Sequence struct {
	Prefix string
	Width  int
	Yearly bool
}

// Next returns the code following last. When hasLast is false the sequence starts at 1.
func (s Sequence) Next(now time.Time, last string, hasLast bool, count int64) string {
	return s.Format(now, NextNumber(last, hasLast, count))
}

// Format renders n with the sequence prefix and padding.
func (s Sequence) Format(now time.Time, n int64) string {
	prefix := s.Prefix + "-"
	if s.Yearly {
		prefix += strconv.Itoa(now.Year()) + "-"
	}
	return fmt.Sprintf("%s%0*d", prefix, s.Width, n)
}

// NextNumber parses the numeric suffix after the last '-' of last and adds one.
// An unparsable suffix falls back to count+1.
func NextNumber(last string, hasLast bool, count int64) int64 {
	if !hasLast {
		return 1
	}
	suffix := last
	if i := strings.LastIndex(last, "-"); i >= 0 {
		suffix = last[i+1:]
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return count + 1
	}
	return n + 1
}

const caseLayout = "0102150405"

// CaseNumber returns FD-<year>-<MMDDHHMMSS> for now. If that would not sort after last
// (two cases within the same second, or clock skew), the timestamp is advanced to one
// second past the one encoded in last.
func CaseNumber(now time.Time, last string, hasLast bool) string {
	code := formatCase(now)
	if !hasLast || code > last {
		return code
	}
	prev, ok := parseCase(last)
	if !ok {
		return code
	}
	return formatCase(prev.Add(time.Second))
}

func formatCase(t time.Time) string {
	return fmt.Sprintf("FD-%d-%s", t.Year(), t.Format(caseLayout))
}

func parseCase(code string) (time.Time, bool) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != "FD" || len(parts[2]) != len(caseLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006"+caseLayout, parts[1]+parts[2], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
