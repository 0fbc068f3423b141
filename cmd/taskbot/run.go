package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/pool"

	server "github.com/kazz187/taskbot/internal"
	"github.com/kazz187/taskbot/internal/activity"
	"github.com/kazz187/taskbot/internal/config"
	"github.com/kazz187/taskbot/internal/conversation"
	"github.com/kazz187/taskbot/internal/eventbus"
	"github.com/kazz187/taskbot/internal/responder"
	rolerepo "github.com/kazz187/taskbot/internal/role/repositoryimpl"
	"github.com/kazz187/taskbot/internal/statewatch"
	taskrepo "github.com/kazz187/taskbot/internal/task/repositoryimpl"
	"github.com/kazz187/taskbot/internal/telegram"
)

func runBot(ctx context.Context, env *config.Env) error {
	loc, err := env.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	token, err := env.BotToken()
	if err != nil {
		return err
	}

	store, local, closeStore, err := openStorage(ctx, &env.StorageEnv)
	if err != nil {
		return err
	}
	defer closeStore()

	taskRepo, err := taskrepo.NewJSONRepository(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	roleRepo, err := rolerepo.NewJSONRepository(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}

	replies := responder.Default()
	if env.RepliesFile != "" {
		if replies, err = responder.LoadYAML(env.RepliesFile); err != nil {
			return err
		}
		slog.Info("loaded reply rules", "file", env.RepliesFile)
	}

	bus := eventbus.New()
	recorder := activity.NewRecorder(bus, activity.DefaultCapacity)
	// getUpdates holds the connection for up to PollTimeout.
	client := telegram.NewClient(env.APIEndpoint, token,
		telegram.WithHTTPClient(&http.Client{Timeout: env.PollTimeout + 10*time.Second}),
	)
	ctrl := conversation.New(taskRepo, roleRepo, replies, client,
		conversation.WithClock(now),
		conversation.WithEventBus(bus),
	)

	var webhook *telegram.WebhookHandler
	if env.TelegramEnv.Mode == config.ModeWebhook {
		webhook = telegram.NewWebhookHandler(env.WebhookSecret, ctrl)
	}
	srv := server.NewServer(env, taskRepo, recorder, webhook, now)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		recorder.Start(ctx)
		return nil
	})
	p.Go(srv.ListenAndServe)
	if env.TelegramEnv.Mode == config.ModePolling {
		p.Go(telegram.NewPoller(client, ctrl, env.PollTimeout).Run)
	}
	if env.WatchState && local != nil {
		p.Go(statewatch.New(local.BasePath(), map[string]statewatch.Reloader{
			taskrepo.DocumentPath: taskRepo,
			rolerepo.DocumentPath: roleRepo,
		}).Run)
	}

	slog.Info("taskbot started", "mode", env.TelegramEnv.Mode, "storage", env.StorageEnv.Type)
	return p.Wait()
}
