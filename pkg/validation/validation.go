// Package validation holds the validator contract used by the mediator and a
// small set of rule helpers shared by the employee validators.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/morezero/employee-service/pkg/apperror"
)

// Severity of a failure.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
)

// Failure describes one rule violation.
type Failure struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule,omitempty"`
}

// Validator inspects a request and returns the violations it finds. Validators
// must be pure: no I/O and no mutation of the request.
type Validator[Q any] interface {
	Validate(req Q) []Failure
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[Q any] func(req Q) []Failure

func (f ValidatorFunc[Q]) Validate(req Q) []Failure {
	return f(req)
}

// Dedupe removes failures that repeat an earlier (Field, Rule) pair, keeping
// the first occurrence and the original order.
func Dedupe(failures []Failure) []Failure {
	if len(failures) < 2 {
		return failures
	}
	type key struct{ field, rule string }
	seen := make(map[key]struct{}, len(failures))
	out := make([]Failure, 0, len(failures))
	for _, f := range failures {
		rule := f.Rule
		if rule == "" {
			rule = f.Message
		}
		k := key{f.Field, rule}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	return out
}

// HasErrors reports whether any failure has error severity.
func HasErrors(failures []Failure) bool {
	for _, f := range failures {
		if f.Severity != SeverityWarning {
			return true
		}
	}
	return false
}

// Messages joins failure messages the way they are reported to callers.
func Messages(failures []Failure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Collector accumulates failures for one request.
type Collector struct {
	failures []Failure
}

// Add appends an error-severity failure.
func (c *Collector) Add(field, rule, message string) {
	c.failures = append(c.failures, Failure{Field: field, Rule: rule, Message: message, Severity: SeverityError})
}

// Warn appends a warning-severity failure.
func (c *Collector) Warn(field, rule, message string) {
	c.failures = append(c.failures, Failure{Field: field, Rule: rule, Message: message, Severity: SeverityWarning})
}

// Failures returns the collected failures.
func (c *Collector) Failures() []Failure {
	return c.failures
}

// NotEmpty fails when s is blank.
func (c *Collector) NotEmpty(field, s, message string) bool {
	if strings.TrimSpace(s) == "" {
		c.Add(field, "NotEmpty", message)
		return false
	}
	return true
}

// MaxLength fails when s is longer than max characters.
func (c *Collector) MaxLength(field, s string, max int, label string) bool {
	if len([]rune(s)) > max {
		c.Add(field, "MaxLength", fmt.Sprintf("%s cannot exceed %d characters", label, max))
		return false
	}
	return true
}

// Positive fails when n is not greater than zero.
func (c *Collector) Positive(field string, n int, message string) bool {
	if n <= 0 {
		c.Add(field, "GreaterThan", message)
		return false
	}
	return true
}

// OneOf fails when s does not match any allowed value, ignoring case.
func (c *Collector) OneOf(field, s string, allowed []string, message string) bool {
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return true
		}
	}
	c.Add(field, "OneOf", message)
	return false
}

// Before fails unless t is strictly before limit.
func (c *Collector) Before(field string, t, limit time.Time, message string) bool {
	if !t.Before(limit) {
		c.Add(field, "LessThan", message)
		return false
	}
	return true
}

// NotAfter fails when t is after limit.
func (c *Collector) NotAfter(field string, t, limit time.Time, message string) bool {
	if t.After(limit) {
		c.Add(field, "LessThanOrEqual", message)
		return false
	}
	return true
}

// NotBefore fails when t is before limit.
func (c *Collector) NotBefore(field string, t, limit time.Time, message string) bool {
	if t.Before(limit) {
		c.Add(field, "GreaterThanOrEqual", message)
		return false
	}
	return true
}

// AtLeastOne fails when none of present is true.
func (c *Collector) AtLeastOne(message string, present ...bool) bool {
	for _, p := range present {
		if p {
			return true
		}
	}
	c.Add("", "AtLeastOne", message)
	return false
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewError builds the validation error raised when failures contain errors.
// Warnings are dropped from the message but kept in the details.
func NewError(failures []Failure) *apperror.Error {
	blocking := make([]Failure, 0, len(failures))
	for _, f := range failures {
		if f.Severity != SeverityWarning {
			blocking = append(blocking, f)
		}
	}
	return &apperror.Error{
		Kind:    apperror.KindValidation,
		Message: Messages(blocking),
		Details: failures,
	}
}

// FailuresOf returns the failures carried by a validation error, or nil.
func FailuresOf(err error) []Failure {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return nil
	}
	failures, _ := appErr.Details.([]Failure)
	return failures
}
