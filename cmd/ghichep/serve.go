package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/locvx/ghichep/internal/amqp"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/transport"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot message loop",
		Long: `Starts the engine and pumps messages from the configured transports.
When an AMQP URL is configured, every saved transaction is also queued for
the sync worker.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var publisher service.SyncPublisher
			if url := viper.GetString("amqp.url"); url != "" {
				client, aerr := amqp.NewClient(url,
					viper.GetString("amqp.exchange"),
					viper.GetString("amqp.queue"))
				if aerr != nil {
					return aerr
				}
				defer func() { _ = client.Close() }()
				publisher = client
			}

			eng, sessions, language, err := initEngine(ctx, store, publisher)
			if err != nil {
				return err
			}
			defer sessions.Close()
			if language != nil {
				defer language.Close()
			}

			transports, err := buildTransports()
			if err != nil {
				return err
			}
			defer func() {
				for _, t := range transports {
					_ = t.Close()
				}
			}()

			err = transport.Serve(ctx, eng, slog.Default(), transports...)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// buildTransports assembles the enabled transports. The in-process transport
// is always available for tooling; platform transports attach here as they
// are implemented.
func buildTransports() ([]service.Transport, error) {
	local := transport.NewMemory("local", viper.GetInt("transport.buffer"))
	return []service.Transport{local}, nil
}
