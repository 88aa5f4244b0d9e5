package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timada-org/taskhub/internal/api"
	"github.com/timada-org/taskhub/internal/auth"
	"github.com/timada-org/taskhub/internal/core"
	"github.com/timada-org/taskhub/internal/events"
	"github.com/timada-org/taskhub/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the taskhub server",

	Run: func(cmd *cobra.Command, args []string) {
		config, err := core.NewConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}

		verifier, err := auth.New(config.JwksURL, config.Secret)
		if err != nil {
			log.Fatal().Err(err).Msg("init auth")
		}
		defer verifier.Close()

		s, err := store.Open(config.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("open store")
		}

		var publisher *events.Publisher
		if config.Broker.URL != "" {
			publisher, err = events.NewPublisher(events.PublisherOptions{
				URL:   config.Broker.URL,
				Topic: config.Broker.Topic,
				Name:  "taskhub-api",
			})
			if err != nil {
				log.Fatal().Err(err).Msg("connect broker")
			}
			defer publisher.Close()
		}

		app := api.New(api.AppOptions{
			Addr:   config.Addr,
			Auth:   verifier,
			Store:  s,
			Events: publisher,
		})

		log.Fatal().Err(app.Listen()).Msg("server stopped")
	},
}
