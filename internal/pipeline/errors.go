package pipeline

import "fmt"

// SourceError reports a failure to extract a dataset from its source
// (connection, auth, network, or a malformed document). It aborts that
// source's contribution only.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// SchemaError reports a failed load or finalization step, identifying the
// offending table (and column where known). It is fatal for the run.
type SchemaError struct {
	Table  string
	Column string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("table %s column %s: %v", e.Table, e.Column, e.Err)
	}
	return fmt.Sprintf("table %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// QueryError reports a failed catalog query with the original error
// preserved.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
