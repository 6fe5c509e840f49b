package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/pkg/messaging"
	"github.com/jwalitptl/homecare-api/pkg/messaging/redis"
)

// eventsCmd follows one lifecycle event channel and prints every message.
func eventsCmd(configFile *string) *cobra.Command {
	var eventType string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print service request lifecycle events as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			if cfg.Redis.URL == "" {
				return errors.New("redis url is not configured")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, log.Logger)
			if err != nil {
				return err
			}
			defer broker.Close()

			channel := messaging.Channel(cfg.Redis.ChannelPrefix, eventType)
			messages, err := broker.Subscribe(ctx, channel)
			if err != nil {
				return err
			}
			log.Info().Str("channel", channel).Msg("listening for events")

			for msg := range messages {
				fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventType, "type", "t", model.EventServiceRequestStatusChanged, "event type to follow")
	return cmd
}
