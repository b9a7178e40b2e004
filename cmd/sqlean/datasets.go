package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlean/sqlean/internal/dataset"
)

func newDatasetsCommand() *cobra.Command {
	var showSchema bool

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the available practice datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, builder, err := loadEnvironment()
			if err != nil {
				return err
			}

			names, err := builder.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
				if !showSchema {
					continue
				}
				db, err := builder.Build(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("build dataset %s: %w", name, err)
				}
				info, err := dataset.Introspect(cmd.Context(), db)
				db.Close()
				if err != nil {
					return fmt.Errorf("introspect dataset %s: %w", name, err)
				}
				fmt.Println(info)
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSchema, "schema", false, "Print each dataset's table definitions")
	return cmd
}
