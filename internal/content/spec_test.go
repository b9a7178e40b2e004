package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sqlean/sqlean/internal/errors"
)

func TestValidationSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ValidationSpec
		wantErr string
	}{
		{
			name: "results_match needs only a solution",
			spec: ValidationSpec{
				Kind:          SpecResultsMatch,
				SolutionQuery: "SELECT 1;",
			},
		},
		{
			name: "keyword_check with keywords",
			spec: ValidationSpec{
				Kind:             SpecKeywordCheck,
				SolutionQuery:    "SELECT 1;",
				RequiredKeywords: []string{"SELECT"},
			},
		},
		{
			name: "state_check with query and expectations",
			spec: ValidationSpec{
				Kind:            SpecStateCheck,
				SolutionQuery:   "DELETE FROM t;",
				ValidationQuery: "SELECT COUNT(*) FROM t;",
				ExpectedResults: [][]interface{}{{0}},
			},
		},
		{
			name:    "missing solution query",
			spec:    ValidationSpec{Kind: SpecResultsMatch},
			wantErr: "solution_query",
		},
		{
			name: "keyword_check without keywords",
			spec: ValidationSpec{
				Kind:          SpecKeywordCheck,
				SolutionQuery: "SELECT 1;",
			},
			wantErr: "required_keywords",
		},
		{
			name: "state_check without validation query",
			spec: ValidationSpec{
				Kind:            SpecStateCheck,
				SolutionQuery:   "DELETE FROM t;",
				ExpectedResults: [][]interface{}{{0}},
			},
			wantErr: "validation_query",
		},
		{
			name: "state_check without expectations",
			spec: ValidationSpec{
				Kind:            SpecStateCheck,
				SolutionQuery:   "DELETE FROM t;",
				ValidationQuery: "SELECT COUNT(*) FROM t;",
			},
			wantErr: "expected_results",
		},
		{
			name: "unknown kind",
			spec: ValidationSpec{
				Kind:          SpecKind("regex_match"),
				SolutionQuery: "SELECT 1;",
			},
			wantErr: "unknown validation type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, errors.CodeInvalidSpec, errors.GetCode(err))
		})
	}
}

func TestValidationSpecUnmarshalYAML(t *testing.T) {
	doc := `type: state_check
solution_query: "DELETE FROM employees WHERE id = 2;"
validation_query: "SELECT id FROM employees;"
expected_results:
  - [1]
  - [3]
`
	var spec ValidationSpec
	require.NoError(t, yaml.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, SpecStateCheck, spec.Kind)
	assert.Equal(t, "DELETE FROM employees WHERE id = 2;", spec.SolutionQuery)
	require.Len(t, spec.ExpectedResults, 2)
	assert.Equal(t, []interface{}{1}, spec.ExpectedResults[0])
	assert.NoError(t, spec.Validate())
}
