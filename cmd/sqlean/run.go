package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqlean/sqlean/internal/session"
)

func newRunCommand() *cobra.Command {
	var (
		moduleID string
		lessonID int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive tutoring session",
		Long: `Start the interactive tutor. The course runs lesson by lesson from the
beginning, or from a specific lesson when --module and --lesson are given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, builder, err := loadEnvironment()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := session.New(cfg, repo, builder, os.Stdin, os.Stdout)
			if moduleID != "" {
				return s.RunFrom(ctx, moduleID, lessonID)
			}
			if cmd.Flags().Changed("lesson") {
				return fmt.Errorf("--lesson requires --module")
			}
			return s.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&moduleID, "module", "m", "", "Module to start from (e.g. 01_select)")
	cmd.Flags().IntVarP(&lessonID, "lesson", "l", 1, "Lesson to start from within the module")
	return cmd
}
