package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/anastasia-gushchina/topdj-bot/internal/app"
)

const appName = "topdj_bot"

func main() {
	cfg, err := app.NewEnvConfig("TOPDJ_BOT")
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := app.New(appName, cfg)

	if err := app.Run(ctx); err != nil {
		panic(err)
	}
}
