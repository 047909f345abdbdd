package sobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeInvalidValue    = "invalid_value"
	CodeRequired        = "required"
	CodeExtraAttribute  = "extra_attribute"
	CodeNullNotAllowed  = "null_not_allowed"
	CodeInvalidEnum     = "invalid_enum"
	CodeVersionConflict = "version_conflict"
	CodeParseError      = "parse_error"
	CodeImmutable       = "immutable"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"property":"name"}) for
	// observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues, true
	}
	return nil, false
}

var representConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// represent renders a value for inclusion in error text. Output is
// deterministic: pointer addresses and capacities are suppressed and map keys
// are sorted.
func represent(v any) string {
	return strings.TrimRight(representConfig.Sdump(v), "\n")
}

func indentLines(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// UnmarshalError reports data that could not be converted because it matched
// none of the expected types. Parameter and Index, when set, annotate the
// message with the failing argument name or element position.
type UnmarshalError struct {
	Data      any
	Types     *Types
	Message   string
	Parameter string
	Index     any // string key or int index, nil when unknown
}

func newUnmarshalError(data any, types *Types, message string) UnmarshalError {
	return UnmarshalError{Data: data, Types: types, Message: message}
}

func (e *UnmarshalError) Error() string {
	lines := make([]string, 0, 6)
	if e.Parameter != "" {
		lines = append(lines, fmt.Sprintf(
			"Errors encountered in attempting to unmarshal %s:", e.Parameter))
	}
	if e.Index != nil {
		lines = append(lines, fmt.Sprintf(
			"Errors encountered in attempting to unmarshal the value at index %v:", e.Index))
	}
	if e.Types == nil {
		lines = append(lines,
			"The data provided is not an instance of an unmarshallable type:\n")
	} else {
		lines = append(lines,
			"The data provided does not match any of the expected types "+
				"and/or property definitions:\n")
	}
	lines = append(lines, "- data: "+indentLines(represent(e.Data), 2))
	if e.Types != nil {
		lines = append(lines, "- types: "+indentLines(represent(e.Types.Items()), 2))
	}
	if e.Message != "" {
		lines = append(lines, "", e.Message)
	}
	return strings.Join(lines, "\n")
}

// UnmarshalTypeError is an UnmarshalError whose first underlying failure was a
// type mismatch.
type UnmarshalTypeError struct{ UnmarshalError }

// UnmarshalValueError is an UnmarshalError whose first underlying failure was
// a semantically invalid value.
type UnmarshalValueError struct{ UnmarshalError }

// UnmarshalKeyError reports a failure while unmarshalling the value under a
// specific wire key.
type UnmarshalKeyError struct {
	Key     string
	Message string
	Cause   error
}

func (e *UnmarshalKeyError) Error() string { return e.Message }

func (e *UnmarshalKeyError) Unwrap() error { return e.Cause }

// ValidationError aggregates every violation discovered by Validate into one
// report.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		messages[i] = issue.Message
	}
	return strings.Join(messages, "\n")
}

// VersionError reports a versioned property holding a value although the
// active specification version excludes that property.
type VersionError struct {
	Message string
}

func (e *VersionError) Error() string { return e.Message }

// DeserializeError reports input text which could not be parsed.
type DeserializeError struct {
	Data    string
	Message string
	Cause   error
}

func (e *DeserializeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s\nCould not parse:\n%s", e.Message, e.Data)
	}
	return fmt.Sprintf("Could not parse:\n%s", e.Data)
}

func (e *DeserializeError) Unwrap() error { return e.Cause }

// typeError marks conversion failures caused by a value of the wrong shape,
// as opposed to a value of the right shape with invalid content. The
// polymorphic resolver uses the distinction when synthesizing its aggregate
// error.
type typeError struct{ msg string }

func (e *typeError) Error() string { return e.msg }

func newTypeError(format string, args ...any) error {
	return &typeError{msg: fmt.Sprintf(format, args...)}
}

func isTypeError(err error) bool {
	var te *typeError
	if errors.As(err, &te) {
		return true
	}
	var ute *UnmarshalTypeError
	return errors.As(err, &ute)
}
