package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/locvx/ghichep/internal/cli"
	"github.com/locvx/ghichep/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their keywords",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.Categories(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Danh mục"))
			for _, cat := range categories {
				kind := "chi"
				if cat.Kind == model.KindIncome {
					kind = "thu"
				}
				fmt.Printf("%s %s\n", cli.InfoStyle.Render(cat.Name), cli.SubtleStyle.Render("("+kind+")"))
				if len(cat.Keywords) > 0 {
					fmt.Println(cli.SubtleStyle.Render("  " + strings.Join(cat.Keywords, ", ")))
				}
			}
			return nil
		},
	}
}
