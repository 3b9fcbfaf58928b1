package tabular

import (
	"fmt"
	"strings"
)

// FormatError reports text that does not parse as its declared delimited
// format, such as a ragged row or a truncated body.
type FormatError struct {
	Source string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// SchemaError reports a parsed table that is missing expected columns, or a
// required type coercion that failed. Raised at the boundary so upstream
// format drift fails loudly instead of corrupting the view.
type SchemaError struct {
	Source  string
	Missing []string
	Err     error
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing columns: %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
