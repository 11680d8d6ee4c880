// Package ingest turns loosely typed JSON and tabular input into raw
// records.
package ingest

import "fmt"

// ValidationError reports a structurally invalid input element. Index is
// the zero-based element (or data row) position.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("ingest: record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("ingest: record %d: field %q: %s", e.Index, e.Field, e.Reason)
}
