package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"todo_backend/internal/client/api"
	"todo_backend/internal/client/cli"
	"todo_backend/internal/client/session"
	"todo_backend/internal/client/storage"
	"todo_backend/internal/config"
	platformhttp "todo_backend/internal/platform/http"
	"todo_backend/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadClient()
	logger.Install(logger.Config{Level: os.Getenv("LOG_LEVEL"), Format: "text", Output: os.Stderr})

	st, err := storage.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer st.Close()

	client := api.New(cfg.APIURL, platformhttp.NewHTTPClient(cfg.HTTPTimeout))
	sess := session.New(client, st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(sess, os.Stdin, os.Stdout).ExecuteContext(ctx)
}
