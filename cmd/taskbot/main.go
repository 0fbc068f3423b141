package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/kazz187/taskbot/internal/config"
	"github.com/kazz187/taskbot/pkg/clog"
)

var (
	app = kingpin.New("taskbot", "Telegram bot for assigning and tracking team tasks")

	runCmd = app.Command("run", "Start the bot").Default()

	reportCmd  = app.Command("report", "Print the task report from the configured storage")
	reportUser = reportCmd.Flag("user", "Only tasks assigned to this user ID").Int64()

	parseCmd  = app.Command("parse", "Parse an assignment text and print the task as JSON")
	parseText = parseCmd.Arg("text", "Assignment text, e.g. \"Prepare the slides for 987654321 by tomorrow\"").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}
	setupLogger(env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case runCmd.FullCommand():
		err = runBot(ctx, env)
	case reportCmd.FullCommand():
		err = printReport(ctx, env, os.Stdout, *reportUser)
	case parseCmd.FullCommand():
		err = printParse(env, os.Stdout, *parseText)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(env *config.Env) {
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level), clog.WithColor(!color.NoColor))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))
}
