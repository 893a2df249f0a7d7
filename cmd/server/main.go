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

	"trinkspiel/internal/config"
	"trinkspiel/internal/db"
	"trinkspiel/internal/server"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred teardown happens before exiting.
func run() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	var conn *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		conn, err = db.Open(cfg)
		if err != nil {
			log.Printf("database connection failed: %v", err)
			return 1
		}
	} else {
		log.Println("DATABASE_URL is not set; serving the built-in deck with in-memory rooms")
	}

	srv := server.New(conn, cfg)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, httpServer, srv.Close); err != nil {
		log.Printf("server stopped: %v", err)
		return 1
	}
	return 0
}

// serve runs httpServer until ctx ends or listening fails, then shuts it down
// and calls teardown on every path.
func serve(ctx context.Context, httpServer *http.Server, teardown func()) error {
	defer teardown()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("trinkspiel server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Println("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
