package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/locvx/ghichep/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed default categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.FormatSuccess("database is up to date"))
			return nil
		},
	}
}
