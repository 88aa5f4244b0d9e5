package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "taskhub",
		Short: "To-do assignment service",
		Long:  `Taskhub serves a JWT-authenticated to-do assignment API and publishes every mutation to a broker topic.`,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yml", "config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}
