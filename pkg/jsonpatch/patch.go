// Package jsonpatch applies RFC 6902 JSON Patch documents to Go structs
// through a fixed table of addressable fields.
//
// The whole patch is checked before any operation runs. Operations are then
// executed in order against the caller's working copy; a failing test
// operation stops execution. Any failure is reported as *Error and the caller
// must discard the working copy.
package jsonpatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/morezero/employee-service/pkg/apperror"
)

const logPrefix = "jsonpatch:patch"

// Operation names.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"
)

var validOps = []string{OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest}

// Operation is one entry of a JSON Patch document. Value is nil when the key
// was absent and the literal null when it was null.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
	From  string          `json:"from,omitempty"`
}

func (o Operation) name() string {
	return strings.ToLower(strings.TrimSpace(o.Op))
}

// OpError describes why one operation was rejected.
type OpError struct {
	Index   int             `json:"index"`
	Op      string          `json:"op"`
	Path    string          `json:"path"`
	From    string          `json:"from,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
	Message string          `json:"message"`
}

func (e OpError) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "operation %d '%s' on '%s'", e.Index, e.Op, e.Path)
	if e.From != "" {
		fmt.Fprintf(&b, " from '%s'", e.From)
	}
	if len(e.Value) > 0 {
		fmt.Fprintf(&b, " with value %s", string(e.Value))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Error reports every failed operation of a patch.
type Error struct {
	Operations []OpError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Operations))
	for _, op := range e.Operations {
		msgs = append(msgs, op.String())
	}
	return "JSON Patch failed: " + strings.Join(msgs, "; ")
}

// Kind classifies the error for envelope mapping.
func (e *Error) Kind() apperror.Kind {
	return apperror.KindPatch
}

// Messages returns the per-operation messages.
func (e *Error) Messages() []string {
	out := make([]string, 0, len(e.Operations))
	for _, op := range e.Operations {
		out = append(out, op.Message)
	}
	return out
}

func opError(i int, op Operation, msg string) OpError {
	return OpError{Index: i, Op: op.Op, Path: op.Path, From: op.From, Value: op.Value, Message: msg}
}

// Validate checks the shape of every operation against the table without
// touching any document.
func Validate[T any](table *Table[T], ops []Operation) []OpError {
	var errs []OpError
	if len(ops) == 0 {
		return []OpError{{Index: -1, Message: "Patch document must contain at least one operation"}}
	}
	for i, op := range ops {
		if msg := validateOne(table, op); msg != "" {
			errs = append(errs, opError(i, op, msg))
		}
	}
	return errs
}

func validateOne[T any](table *Table[T], op Operation) string {
	name := op.name()
	if !contains(validOps, name) {
		return fmt.Sprintf("Invalid operation '%s'. Valid operations are: %s", op.Op, strings.Join(validOps, ", "))
	}
	if op.Path == "" {
		return "Path is required"
	}
	if !strings.HasPrefix(op.Path, "/") {
		return fmt.Sprintf("Path '%s' must start with '/'", op.Path)
	}
	target, ok := table.Lookup(op.Path)
	if !ok {
		return fmt.Sprintf("Invalid path '%s'. Valid paths are: %s", op.Path, strings.Join(table.Paths(), ", "))
	}

	switch name {
	case OpMove, OpCopy:
		if op.From == "" {
			return fmt.Sprintf("%s operation requires 'from' property", titleCase(name))
		}
		source, ok := table.Lookup(op.From)
		if !ok {
			return fmt.Sprintf("Invalid from path '%s'. Valid paths are: %s", op.From, strings.Join(table.Paths(), ", "))
		}
		if name == OpMove && source.ReadOnly {
			return source.readOnlyMessage()
		}
	case OpAdd, OpReplace, OpTest:
		if op.Value == nil {
			return fmt.Sprintf("%s operation requires 'value' property", titleCase(name))
		}
		if target.Check != nil {
			if err := target.Check(op.Value); err != nil {
				return err.Error()
			}
		}
	}

	if name != OpTest && target.ReadOnly {
		return target.readOnlyMessage()
	}
	return ""
}

// Apply validates ops and executes them in order against doc.
func Apply[T any](table *Table[T], doc *T, ops []Operation) error {
	if errs := Validate(table, ops); len(errs) > 0 {
		return &Error{Operations: errs}
	}

	var errs []OpError
	for i, op := range ops {
		halt, err := execute(table, doc, op)
		if err != nil {
			errs = append(errs, opError(i, op, err.Error()))
		}
		if halt {
			break
		}
	}
	if len(errs) > 0 {
		return &Error{Operations: errs}
	}
	return nil
}

// execute runs one validated operation. halt is true when processing must
// stop, which only a failed test requests.
func execute[T any](table *Table[T], doc *T, op Operation) (halt bool, err error) {
	target, _ := table.Lookup(op.Path)

	switch op.name() {
	case OpAdd, OpReplace:
		return false, target.Set(doc, op.Value)

	case OpRemove:
		target.Clear(doc)
		return false, nil

	case OpMove, OpCopy:
		source, _ := table.Lookup(op.From)
		value, err := source.Get(doc)
		if err != nil {
			return false, err
		}
		if err := target.Set(doc, value); err != nil {
			return false, err
		}
		if op.name() == OpMove && !strings.EqualFold(source.Name, target.Name) {
			source.Clear(doc)
		}
		return false, nil

	case OpTest:
		equal, err := target.Equal(doc, op.Value)
		if err != nil {
			return true, err
		}
		if !equal {
			current, _ := target.Get(doc)
			return true, fmt.Errorf("test failed: current value %s does not match", string(current))
		}
		return false, nil
	}
	return false, fmt.Errorf("%s - unsupported operation %s", logPrefix, op.Op)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
