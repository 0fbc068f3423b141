package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kazz187/taskbot/internal/config"
	"github.com/kazz187/taskbot/internal/report"
	"github.com/kazz187/taskbot/internal/task"
	taskrepo "github.com/kazz187/taskbot/internal/task/repositoryimpl"
	"github.com/kazz187/taskbot/internal/taskparse"
)

func printReport(ctx context.Context, env *config.Env, w io.Writer, userID int64) error {
	loc, err := env.Location()
	if err != nil {
		return err
	}
	store, _, closeStore, err := openStorage(ctx, &env.StorageEnv)
	if err != nil {
		return err
	}
	defer closeStore()

	repo, err := taskrepo.NewJSONRepository(ctx, store)
	if err != nil {
		return err
	}
	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		return err
	}
	if userID != 0 {
		tasks = task.FilterByUser(tasks, userID)
	}
	_, err = fmt.Fprintln(w, report.Format(tasks, time.Now().In(loc)))
	return err
}

func printParse(env *config.Env, w io.Writer, text string) error {
	loc, err := env.Location()
	if err != nil {
		return err
	}
	t, err := taskparse.Parse(text, time.Now().In(loc))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
