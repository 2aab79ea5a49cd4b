package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/icewatch/ice-news-monitor/internal/application"
	"github.com/icewatch/ice-news-monitor/internal/transport/server"
)

func main() {
	app, err := application.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	router := server.NewRouter(app)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", app.Config.Host, app.Config.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Runs never overlap: the state store assumes exclusive access for the
	// duration of a run.
	var runMu sync.Mutex

	c := cron.New()
	_, err = c.AddFunc(app.Config.Schedule, func() {
		runMu.Lock()
		defer runMu.Unlock()

		log.Printf("🕐 Scheduled check starting")
		if _, err := app.Monitor.Run(ctx, false); err != nil {
			log.Printf("❌ Scheduled check failed: %v", err)
		} else {
			log.Printf("✅ Scheduled check completed")
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule monitor with cron %q: %v", app.Config.Schedule, err)
	}
	log.Printf("📅 Scheduled monitor with cron: %s", app.Config.Schedule)

	c.Start()
	defer c.Stop()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Starting server on %s:%s", app.Config.Host, app.Config.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	log.Println("🛑 Shutting down server...")

	cancel()
	c.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Server stopped")
}
