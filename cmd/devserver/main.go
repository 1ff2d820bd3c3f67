// Package main runs the bridge behind a local HTTP server for development.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricofy/assistant-bridge/internal/setup"
	"go.uber.org/zap"
)

// Server timeouts. A turn may chain several remote calls, so writes get a
// generous limit.
const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 3 * time.Minute
	ShutdownTimeout = 30 * time.Second
)

func main() {
	app, err := setup.InitializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup()

	srv := &http.Server{
		Addr:         app.Config.DevAddr,
		Handler:      newRouter(app.Handler, app.Logger.Named("devserver")),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	go func() {
		app.Logger.Info("Dev server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	app.Logger.Info("Shutting down dev server...")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		app.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
