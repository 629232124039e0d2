package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/mail"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// vastra queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers in a standalone process",
	Long:  "Connects to Redis and works the shared job queue, so mail delivery can be scaled separately from the API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			return fmt.Errorf("queue:work needs Redis: %w", err)
		}

		jobs.UseMailer(mail.NewSMTP(mail.SMTPFromConfig()))
		jobs.RegisterAll()
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		queue.UseDB(database.DB)

		workers, _ := cmd.Flags().GetInt("workers")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		queue.StartWorkers(ctx, workers)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		sig := <-stop
		logger.Info("queue workers stopping", "signal", sig.String())
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().Int("workers", 4, "number of concurrent workers")
}
