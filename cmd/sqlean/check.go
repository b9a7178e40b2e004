package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlean/sqlean/internal/errors"
	"github.com/sqlean/sqlean/internal/query"
	"github.com/sqlean/sqlean/internal/validator"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that every lesson in the course is solvable",
		Long: `Check course integrity: every module's dataset must build, and every
lesson's solution query must pass the lesson's own validation. A broken
lesson is a content bug, not a learner error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, builder, err := loadEnvironment()
			if err != nil {
				return err
			}

			exec := query.NewExecutor(cfg.Query.Timeout)
			v := validator.New(exec)

			checked := 0
			broken := 0
			for _, module := range repo.Modules() {
				lessons, err := repo.Lessons(module.ID)
				if err != nil {
					return err
				}
				for i := range lessons {
					lesson := &lessons[i]
					checked++

					db, err := builder.Build(cmd.Context(), module.Dataset)
					if err != nil {
						broken++
						fmt.Printf("FAIL %s:%d %s: dataset %s: %v\n",
							module.ID, lesson.ID, lesson.Title, module.Dataset, err)
						continue
					}
					rebuild := func(ctx context.Context) (*sql.DB, error) {
						return builder.Build(ctx, module.Dataset)
					}

					verdict := v.Validate(cmd.Context(), &lesson.Validation,
						lesson.Validation.SolutionQuery, db, rebuild)
					db.Close()

					if verdict.Passed {
						fmt.Printf("ok   %s:%d %s\n", module.ID, lesson.ID, lesson.Title)
						continue
					}
					broken++
					fmt.Printf("FAIL %s:%d %s: solution does not pass: %s\n",
						module.ID, lesson.ID, lesson.Title, verdict.Message)
				}
			}

			fmt.Printf("\n%d lessons checked, %d broken\n", checked, broken)
			if broken > 0 {
				return errors.NewValidationError(errors.CodeSolutionFailed,
					fmt.Sprintf("%d broken lesson(s)", broken))
			}
			return nil
		},
	}
}
