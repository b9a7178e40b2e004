package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLessonsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List every module and lesson in the course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, _, err := loadEnvironment()
			if err != nil {
				return err
			}

			for _, module := range repo.Modules() {
				fmt.Printf("%s  %s  (dataset: %s)\n", module.ID, module.Title, module.Dataset)
				lessons, err := repo.Lessons(module.ID)
				if err != nil {
					return err
				}
				for _, lesson := range lessons {
					fmt.Printf("  %d. %s [%s]\n", lesson.ID, lesson.Title, lesson.Validation.Kind)
				}
			}
			return nil
		},
	}
}
