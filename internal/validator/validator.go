// Package validator decides whether a submitted query satisfies a lesson's
// intent. It dispatches over the three validation kinds: result-set
// comparison, keyword enforcement, and state inspection. The validator is
// stateless between calls; each verdict is a function of the spec, the
// learner's query, and the database handle's current contents.
package validator

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/sqlean/sqlean/internal/content"
	"github.com/sqlean/sqlean/internal/errors"
	"github.com/sqlean/sqlean/internal/query"
	"github.com/sqlean/sqlean/pkg/types"
)

// RebuildFunc returns a pristine instance of the attempt's starting dataset.
// Result-set comparison runs the solution against a fresh instance so a
// mutating user query can never poison the baseline.
type RebuildFunc func(ctx context.Context) (*sql.DB, error)

// Validator evaluates lesson attempts.
type Validator struct {
	exec *query.Executor
}

// New creates a validator that executes queries through exec.
func New(exec *query.Executor) *Validator {
	return &Validator{exec: exec}
}

// Validate evaluates userQuery against the lesson's validation spec.
// db is the attempt's freshly built sandbox; rebuild supplies pristine
// copies of the same dataset for solution runs. Engine-level failures
// become failed verdicts, never errors: the session always continues.
func (v *Validator) Validate(ctx context.Context, spec *content.ValidationSpec, userQuery string, db *sql.DB, rebuild RebuildFunc) types.Verdict {
	switch spec.Kind {
	case content.SpecResultsMatch:
		return v.resultsMatch(ctx, spec, userQuery, db, rebuild)
	case content.SpecKeywordCheck:
		return v.keywordCheck(ctx, spec, userQuery, db, rebuild)
	case content.SpecStateCheck:
		return v.stateCheck(ctx, spec, userQuery, db)
	default:
		// The repository validates specs at load time; an unknown kind
		// here means content slipped past it.
		return types.Verdict{
			Passed:  false,
			Message: fmt.Sprintf("This lesson is misconfigured: unknown validation type %q.", spec.Kind),
		}
	}
}

// resultsMatch compares the learner's result set against the solution
// query's result set, evaluated on a pristine copy of the dataset.
func (v *Validator) resultsMatch(ctx context.Context, spec *content.ValidationSpec, userQuery string, db *sql.DB, rebuild RebuildFunc) types.Verdict {
	userResult := v.exec.Execute(ctx, db, userQuery)
	if userResult.Failed() {
		return types.Verdict{
			Passed:      false,
			Message:     "Your query has an error:\n" + engineText(userResult.Err),
			EngineError: true,
		}
	}

	solutionDB, err := rebuild(ctx)
	if err != nil {
		return types.Verdict{
			Passed:  false,
			Message: "This lesson is misconfigured: could not rebuild its dataset.",
		}
	}
	defer solutionDB.Close()

	solutionResult := v.exec.Execute(ctx, solutionDB, spec.SolutionQuery)
	if solutionResult.Failed() {
		return types.Verdict{
			Passed:  false,
			Message: "Lesson error: the solution query failed: " + engineText(solutionResult.Err),
		}
	}

	if len(userResult.Columns) != len(solutionResult.Columns) {
		return types.Verdict{
			Passed: false,
			Message: fmt.Sprintf(
				"Incorrect. Your query returned %d column(s), but %d column(s) were expected.",
				len(userResult.Columns), len(solutionResult.Columns)),
		}
	}

	ordered := hasOrderingClause(spec.SolutionQuery)
	if ok, detail := compareRows(solutionResult.Rows, userResult.Rows, ordered); !ok {
		return types.Verdict{
			Passed: false,
			Message: "Incorrect. Your query ran, but the results did not match the expected output.\n" +
				detail,
		}
	}

	return types.Verdict{Passed: true, Message: "Correct!"}
}

// keywordCheck enforces required keywords before any execution, then falls
// through to the result-set comparison.
func (v *Validator) keywordCheck(ctx context.Context, spec *content.ValidationSpec, userQuery string, db *sql.DB, rebuild RebuildFunc) types.Verdict {
	if missing := missingKeywords(userQuery, spec.RequiredKeywords); len(missing) > 0 {
		return types.Verdict{
			Passed: false,
			Message: fmt.Sprintf("You must use the %s keyword%s for this exercise.",
				"`"+strings.Join(missing, "`, `")+"`", plural(len(missing))),
		}
	}
	return v.resultsMatch(ctx, spec, userQuery, db, rebuild)
}

// stateCheck runs the learner's query for its side effects, then inspects
// the mutated database with the validation query and compares against the
// literal expected rows from the spec.
func (v *Validator) stateCheck(ctx context.Context, spec *content.ValidationSpec, userQuery string, db *sql.DB) types.Verdict {
	userResult := v.exec.Execute(ctx, db, userQuery)
	if userResult.Failed() {
		return types.Verdict{
			Passed:      false,
			Message:     "Your query has an error:\n" + engineText(userResult.Err),
			EngineError: true,
		}
	}

	observed := v.exec.Execute(ctx, db, spec.ValidationQuery)
	if observed.Failed() {
		return types.Verdict{
			Passed:  false,
			Message: "Lesson error: the validation query failed: " + engineText(observed.Err),
		}
	}

	ordered := hasOrderingClause(spec.ValidationQuery)
	if ok, detail := compareRows(spec.ExpectedResults, observed.Rows, ordered); !ok {
		return types.Verdict{
			Passed: false,
			Message: "Incorrect. Your query ran, but the resulting database state was not correct.\n" +
				detail,
		}
	}

	return types.Verdict{Passed: true, Message: "Correct! The database state was updated successfully."}
}

// compareRows applies the ordering rule and produces a diagnostic detail
// line on mismatch: expected vs actual counts plus a first differing row.
func compareRows(expected, actual [][]interface{}, ordered bool) (bool, string) {
	if ordered {
		idx := rowsEqualOrdered(expected, actual)
		if idx < 0 {
			return true, ""
		}
		detail := fmt.Sprintf("Expected %d row(s), got %d.", len(expected), len(actual))
		if idx < len(expected) && idx < len(actual) {
			detail += fmt.Sprintf(" First difference at row %d: expected %s, got %s.",
				idx+1, formatRow(expected[idx]), formatRow(actual[idx]))
		}
		return false, detail
	}

	ok, sample := rowsEqualMultiset(expected, actual)
	if ok {
		return true, ""
	}
	detail := fmt.Sprintf("Expected %d row(s), got %d.", len(expected), len(actual))
	if sample != nil {
		detail += fmt.Sprintf(" Differing row: %s.", formatRow(sample))
	}
	return false, detail
}

// engineText extracts the engine's verbatim message from a query failure.
func engineText(err error) string {
	var se *errors.SqleanError
	if stderrors.As(err, &se) {
		if se.Cause != nil {
			return se.Cause.Error()
		}
		return se.Message
	}
	return err.Error()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
