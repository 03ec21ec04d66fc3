package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/locvx/ghichep/internal/cli"
	"github.com/locvx/ghichep/internal/identity"
	"github.com/locvx/ghichep/internal/model"
)

func linkCmd() *cobra.Command {
	var phone string
	var platform string
	var account string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a platform account to a phone number",
		Long: `Ties a messaging account to the logical user identified by a phone
number, so transactions logged from any linked platform land in one ledger.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver := identity.New(store, nil)
			user, err := resolver.Link(ctx, phone, model.PlatformKind(platform), account)
			if err != nil {
				var conflict *identity.LinkConflictError
				if errors.As(err, &conflict) {
					fmt.Println(cli.FormatError(conflict.Error()))
					return nil
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("linked %s/%s to user %d", platform, account, user.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "phone number identifying the user")
	cmd.Flags().StringVar(&platform, "platform", "", "platform of the account (telegram, zalo)")
	cmd.Flags().StringVar(&account, "account", "", "platform account ID")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
