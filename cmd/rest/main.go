package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"buildhub-state/internal/bootstrap"
	"buildhub-state/internal/config"
	"buildhub-state/internal/server"
	"buildhub-state/internal/tracer"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	container.Start(ctx)

	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
