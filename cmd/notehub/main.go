package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/oliverisaac/goli"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func init() {
	goli.InitLogrus(logrus.InfoLevel)
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Debug("no .env file loaded")
	}

	cfg, err := types.ConfigFromEnv()
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "Failed to load config"))
	}
	logrus.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "failed to connect database"))
	}
	defer st.Close()

	e, err := newServer(cfg, st)
	if err != nil {
		logrus.Fatal(err)
	}

	go func() {
		<-ctx.Done()
		logrus.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logrus.Error(errors.Wrap(err, "server shutdown"))
		}
	}()

	logrus.Infof("Listening on %s (store=%s, mcp=%t)", cfg.ListenAddr, cfg.Store, cfg.MCPEnabled())
	if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
}
