package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timada-org/taskhub/internal/auth"
	"github.com/timada-org/taskhub/internal/core"
)

var (
	tokenUserID int64
	tokenTTL    time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue an HMAC token for a user",
		Long:  `Issues an HS256 token signed with the configured secret. Only valid when the server runs in secret mode rather than against a JWKS endpoint.`,

		Run: func(cmd *cobra.Command, args []string) {
			config, err := core.NewConfig(cfgFile)
			if err != nil {
				log.Fatal().Err(err).Msg("load config")
			}

			if config.Secret == "" {
				log.Fatal().Msg("no secret configured")
			}

			token, err := auth.Sign(config.Secret, tokenUserID, tokenTTL)
			if err != nil {
				log.Fatal().Err(err).Msg("sign token")
			}

			fmt.Println(token)
		},
	}
)

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 1, "user id to issue the token for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
