package jsonpatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Field describes one patchable member of a document of type T.
type Field[T any] struct {
	// Name is the member name without the leading slash.
	Name string
	// ReadOnly members may be read (test, move/copy source) but never written.
	ReadOnly bool
	// ReadOnlyMessage overrides the rejection message for writes.
	ReadOnlyMessage string

	Get   func(doc *T) (json.RawMessage, error)
	Set   func(doc *T, value json.RawMessage) error
	Clear func(doc *T)
	// Check validates a value before any operation runs. Optional.
	Check func(value json.RawMessage) error
	// Equal compares the member against a value for the test operation.
	Equal func(doc *T, value json.RawMessage) (bool, error)
}

func (f Field[T]) path() string {
	return "/" + f.Name
}

func (f Field[T]) readOnlyMessage() string {
	if f.ReadOnlyMessage != "" {
		return f.ReadOnlyMessage
	}
	return fmt.Sprintf("Path '%s' is read-only", f.path())
}

// Table is a fixed set of fields addressed by case-insensitive path.
type Table[T any] struct {
	fields map[string]Field[T]
	paths  []string
}

// NewTable builds a Table. Field names must be unique ignoring case.
func NewTable[T any](fields ...Field[T]) *Table[T] {
	t := &Table[T]{fields: make(map[string]Field[T], len(fields))}
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, dup := t.fields[key]; dup {
			panic(fmt.Sprintf("%s - duplicate field %s", logPrefix, f.Name))
		}
		t.fields[key] = f
		t.paths = append(t.paths, f.path())
	}
	sort.Strings(t.paths)
	return t
}

// Lookup resolves a JSON Pointer to a field. Only single-segment pointers
// starting with "/" resolve.
func (t *Table[T]) Lookup(path string) (Field[T], bool) {
	if !strings.HasPrefix(path, "/") {
		return Field[T]{}, false
	}
	name := unescape(path[1:])
	if strings.Contains(name, "/") {
		return Field[T]{}, false
	}
	f, ok := t.fields[strings.ToLower(name)]
	return f, ok
}

// Paths lists every addressable path in sorted order.
func (t *Table[T]) Paths() []string {
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

func unescape(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// StringField addresses a string member. A null value clears it.
func StringField[T any](name string, ptr func(*T) *string) Field[T] {
	decode := func(value json.RawMessage) (string, error) {
		if isNull(value) {
			return "", nil
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", fmt.Errorf("value for '/%s' must be a string", name)
		}
		return s, nil
	}
	return Field[T]{
		Name: name,
		Get: func(doc *T) (json.RawMessage, error) {
			return json.Marshal(*ptr(doc))
		},
		Set: func(doc *T, value json.RawMessage) error {
			s, err := decode(value)
			if err != nil {
				return err
			}
			*ptr(doc) = s
			return nil
		},
		Clear: func(doc *T) { *ptr(doc) = "" },
		Check: func(value json.RawMessage) error {
			_, err := decode(value)
			return err
		},
		Equal: func(doc *T, value json.RawMessage) (bool, error) {
			s, err := decode(value)
			if err != nil {
				return false, err
			}
			return *ptr(doc) == s, nil
		},
	}
}

// DateLayouts are the accepted encodings of date members, tried in order.
var DateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses an ISO 8601 date or date-time.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// TimeField addresses a date member. Values must be ISO 8601 strings.
func TimeField[T any](name string, ptr func(*T) *time.Time) Field[T] {
	decode := func(value json.RawMessage) (time.Time, error) {
		var s string
		if isNull(value) || json.Unmarshal(value, &s) != nil {
			return time.Time{}, dateFormatError(name)
		}
		t, err := ParseDate(s)
		if err != nil {
			return time.Time{}, dateFormatError(name)
		}
		return t, nil
	}
	return Field[T]{
		Name: name,
		Get: func(doc *T) (json.RawMessage, error) {
			return json.Marshal(ptr(doc).UTC().Format(time.RFC3339))
		},
		Set: func(doc *T, value json.RawMessage) error {
			t, err := decode(value)
			if err != nil {
				return err
			}
			*ptr(doc) = t
			return nil
		},
		Clear: func(doc *T) { *ptr(doc) = time.Time{} },
		Check: func(value json.RawMessage) error {
			_, err := decode(value)
			return err
		},
		Equal: func(doc *T, value json.RawMessage) (bool, error) {
			t, err := decode(value)
			if err != nil {
				return false, err
			}
			return ptr(doc).Equal(t), nil
		},
	}
}

func dateFormatError(name string) error {
	return fmt.Errorf("Invalid date format in path '/%s'. Use ISO 8601 format (e.g., '1990-01-01T00:00:00Z')", name)
}

// IntField addresses an integer member.
func IntField[T any](name string, ptr func(*T) *int) Field[T] {
	decode := func(value json.RawMessage) (int, error) {
		var n int
		if isNull(value) {
			return 0, nil
		}
		if err := json.Unmarshal(value, &n); err != nil {
			return 0, fmt.Errorf("value for '/%s' must be an integer", name)
		}
		return n, nil
	}
	return Field[T]{
		Name: name,
		Get: func(doc *T) (json.RawMessage, error) {
			return json.Marshal(*ptr(doc))
		},
		Set: func(doc *T, value json.RawMessage) error {
			n, err := decode(value)
			if err != nil {
				return err
			}
			*ptr(doc) = n
			return nil
		},
		Clear: func(doc *T) { *ptr(doc) = 0 },
		Check: func(value json.RawMessage) error {
			_, err := decode(value)
			return err
		},
		Equal: func(doc *T, value json.RawMessage) (bool, error) {
			n, err := decode(value)
			if err != nil {
				return false, err
			}
			return *ptr(doc) == n, nil
		},
	}
}
