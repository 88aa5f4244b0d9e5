package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timada-org/taskhub/internal/core"
	"github.com/timada-org/taskhub/internal/events"
	"github.com/timada-org/taskhub/internal/feed"
	"github.com/timada-org/taskhub/pkg/todo"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail the mutation feed",

	Run: func(cmd *cobra.Command, args []string) {
		config, err := core.NewConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}

		if config.Broker.URL == "" {
			log.Fatal().Msg("no broker configured")
		}

		f, err := feed.New(feed.FeedOptions{
			URL:          config.Broker.URL,
			Topic:        config.Broker.Topic,
			Subscription: "taskhub-watch",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect broker")
		}
		defer f.Close()

		for _, name := range []string{events.Created, events.Completed, events.Deleted, events.Reassigned} {
			name := name
			f.On(name, func(userID int64, item todo.Todo) {
				log.Info().
					Str("event", name).
					Int64("user_id", userID).
					Int64("todo_id", item.ID).
					Str("name", item.Name).
					Msg("mutation")
			})
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f.Start(ctx)
		<-ctx.Done()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
