// Package validation provides a small declarative validator that collects
// field-level issues instead of failing on the first problem.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Issue describes a single invalid field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the issue as "field: message".
func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// Join renders issues as a comma separated list.
func Join(issues []Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, ", ")
}

// Path builds a dotted field path such as "items.0.price".
func Path(parts ...any) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, fmt.Sprint(p))
	}
	return strings.Join(segs, ".")
}

// Validator accumulates issues across rule checks.
type Validator struct {
	issues []Issue
}

// New creates an empty validator.
func New() *Validator {
	return &Validator{}
}

// Check records an issue for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) bool {
	if !ok {
		v.issues = append(v.issues, Issue{Field: field, Message: message})
	}
	return ok
}

// Required fails when value is blank after trimming.
func (v *Validator) Required(field, value, message string) bool {
	return v.Check(strings.TrimSpace(value) != "", field, message)
}

// MinLen fails when value has fewer than n runes.
func (v *Validator) MinLen(field, value string, n int, message string) bool {
	return v.Check(len([]rune(value)) >= n, field, message)
}

// MaxLen fails when value has more than n runes.
func (v *Validator) MaxLen(field, value string, n int, message string) bool {
	return v.Check(len([]rune(value)) <= n, field, message)
}

// Email fails when value is not a bare email address.
func (v *Validator) Email(field, value, message string) bool {
	addr, err := mail.ParseAddress(value)
	return v.Check(err == nil && addr.Address == value && strings.Contains(value, "."), field, message)
}

// Integer parses n as an integer, recording an issue when it is missing, has
// a fractional part or does not fit in an int64. The value decides, not the
// spelling: 150000.0 and 1.5e5 are both integers.
func (v *Validator) Integer(field string, n json.Number, message string) (int64, bool) {
	if n == "" {
		v.Check(false, field, "Required")
		return 0, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() || d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		v.Check(false, field, message)
		return 0, false
	}
	return d.IntPart(), true
}

// MinItems fails when count is below n.
func (v *Validator) MinItems(field string, count, n int, message string) bool {
	return v.Check(count >= n, field, message)
}

// Issues returns the collected issues in the order they were found.
func (v *Validator) Issues() []Issue {
	return v.issues
}

// Valid reports whether no issue was recorded.
func (v *Validator) Valid() bool {
	return len(v.issues) == 0
}
