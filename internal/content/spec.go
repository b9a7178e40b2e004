// Package content loads and serves the course manifest and lesson modules.
// Lessons are immutable once loaded and held for the process lifetime;
// manifest order is display order and is never re-sorted.
package content

import (
	"fmt"

	"github.com/sqlean/sqlean/internal/errors"
)

// SpecKind enumerates the validation strategies. The set is closed: the
// validator dispatches exhaustively over exactly these three kinds.
type SpecKind string

const (
	SpecResultsMatch SpecKind = "results_match"
	SpecKeywordCheck SpecKind = "keyword_check"
	SpecStateCheck   SpecKind = "state_check"
)

// ValidationSpec is the declarative pass/fail rule for one lesson.
// Every kind carries SolutionQuery; KeywordCheck additionally requires
// RequiredKeywords, StateCheck requires ValidationQuery and ExpectedResults.
type ValidationSpec struct {
	Kind             SpecKind        `yaml:"type"`
	SolutionQuery    string          `yaml:"solution_query"`
	RequiredKeywords []string        `yaml:"required_keywords,omitempty"`
	ValidationQuery  string          `yaml:"validation_query,omitempty"`
	ExpectedResults  [][]interface{} `yaml:"expected_results,omitempty"`
}

// Validate checks that the spec carries every field its kind requires.
// Called at load time so a malformed lesson is never presented.
func (s *ValidationSpec) Validate() error {
	if s.SolutionQuery == "" {
		return errors.NewContentError(errors.CodeInvalidSpec,
			"validation spec is missing solution_query", nil)
	}

	switch s.Kind {
	case SpecResultsMatch:
		// solution_query is all it needs
	case SpecKeywordCheck:
		if len(s.RequiredKeywords) == 0 {
			return errors.NewContentError(errors.CodeInvalidSpec,
				"keyword_check spec requires a non-empty required_keywords list", nil)
		}
	case SpecStateCheck:
		if s.ValidationQuery == "" {
			return errors.NewContentError(errors.CodeInvalidSpec,
				"state_check spec is missing validation_query", nil)
		}
		if s.ExpectedResults == nil {
			return errors.NewContentError(errors.CodeInvalidSpec,
				"state_check spec is missing expected_results", nil)
		}
	default:
		return errors.NewContentError(errors.CodeInvalidSpec,
			fmt.Sprintf("unknown validation type %q", s.Kind), nil)
	}

	return nil
}
