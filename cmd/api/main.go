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

	"github.com/cloudnative-denmark/conference-companion/config"
	"github.com/cloudnative-denmark/conference-companion/internal/bootstrap"
	"github.com/cloudnative-denmark/conference-companion/internal/content"
)

const serviceName = "conference-companion"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg)

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	// first snapshot in the background so the server answers with loading: true meanwhile
	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, 2*cfg.Sessionize.Timeout)
		defer cancel()
		_ = app.Schedule.Refetch(fetchCtx)
	}()

	if err := app.Refresher.Start(); err != nil {
		log.Fatalf("refresher: %v", err)
	}
	defer app.Refresher.Stop()

	watcher, err := content.NewWatcher(app.Catalog, 0)
	if err != nil {
		log.Printf("Warning: content hot reload disabled: %v", err)
	} else {
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Printf("content watcher stopped: %v", err)
			}
		}()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		App:         app,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("%s %s listening on :%s (env=%s)", serviceName, cfg.App.Version, cfg.Server.Port, cfg.App.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server: %v", err)
		return
	}
	log.Println("server stopped")
}
