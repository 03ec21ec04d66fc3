package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/locvx/ghichep/internal/cli"
	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/export"
	"github.com/locvx/ghichep/internal/identity"
	"github.com/locvx/ghichep/internal/model"
)

func exportCmd() *cobra.Command {
	var out string
	var phone string
	var platform string
	var account string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's ledger to CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var user *model.LogicalUser
			switch {
			case phone != "":
				user, err = store.UserByPhone(ctx, phone)
			case account != "":
				kind := model.PlatformKind(platform)
				if !kind.Valid() {
					return fmt.Errorf("%w: unknown platform %q", common.ErrInvalidConfig, platform)
				}
				user, err = store.UserByAccount(ctx, kind, account)
			default:
				// The local chat identity.
				resolver := identity.New(store, nil)
				user, err = resolver.Resolve(ctx, model.PlatformTelegram, "local", "local")
			}
			if err != nil {
				return fmt.Errorf("failed to resolve user: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()

			count, err := export.CSV(ctx, store, user.ID, f, true)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("exported %d transactions to %s", count, out)))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "ghichep.csv", "output CSV file")
	cmd.Flags().StringVar(&phone, "phone", "", "select the user by phone number")
	cmd.Flags().StringVar(&platform, "platform", "telegram", "platform of --account (telegram, zalo)")
	cmd.Flags().StringVar(&account, "account", "", "select the user by platform account ID")
	return cmd
}
