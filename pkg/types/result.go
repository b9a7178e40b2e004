// Package types provides core data types for the sqlean tutor.
package types

import "time"

// Result holds the outcome of executing one SQL statement batch.
// Either the query ran (Columns/Rows populated for row-returning statements,
// both nil for DML/DDL) or it failed and Err carries the engine's message.
type Result struct {
	// AttemptID uniquely identifies this execution for stats correlation
	AttemptID string

	// Columns are the result column names, in engine order
	Columns []string

	// Rows are the result rows, in engine order; values are the driver's
	// scalar types (int64, float64, string, []byte, bool, nil)
	Rows [][]interface{}

	// Duration is the wall-clock execution time
	Duration time.Duration

	// Err is the engine-level failure, nil when the query ran
	Err error
}

// Failed reports whether the execution errored.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// HasRows reports whether the statement produced a result set.
// DML and DDL statements run successfully without one.
func (r *Result) HasRows() bool {
	return r.Columns != nil
}

// RowCount returns the number of rows in the result set.
func (r *Result) RowCount() int {
	return len(r.Rows)
}

// Verdict is the validator's pass/fail outcome plus diagnostic text.
type Verdict struct {
	Passed  bool
	Message string

	// EngineError marks verdicts caused by the learner's SQL failing to
	// execute, as opposed to a wrong answer
	EngineError bool
}
