package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/locvx/ghichep/internal/cli"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot locally",
		Long:  `Starts a local chat session against your own ledger. Type messages like "cafe 50" or "tháng này chi bao nhiêu?". Ctrl+D exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, sessions, language, err := initEngine(ctx, store, nil)
			if err != nil {
				return err
			}
			defer sessions.Close()
			if language != nil {
				defer language.Close()
			}

			fmt.Println(cli.TitleStyle.Render("📒 ghichep"))
			fmt.Println(cli.SubtleStyle.Render("Gõ tin nhắn như trên điện thoại. Ctrl+D để thoát."))

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(cli.PromptStyle.Render("bạn> "))
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}

				reply, err := eng.ProcessMessage(ctx, service.InboundMessage{
					Platform:    model.PlatformTelegram,
					AccountID:   "local",
					DisplayName: "local",
					Text:        text,
				})
				if err != nil {
					fmt.Println(cli.FormatError(err.Error()))
					continue
				}
				fmt.Println(cli.BotStyle.Render(reply.Text))
			}
			return scanner.Err()
		},
	}
}
