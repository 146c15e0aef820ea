package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/pollstream/live-polls/broadcast"
	"github.com/pollstream/live-polls/cliparse"
	"github.com/pollstream/live-polls/db"
	"github.com/pollstream/live-polls/middleware"
	"github.com/pollstream/live-polls/polls"
	"github.com/pollstream/live-polls/router"
	"github.com/pollstream/live-polls/scheduler"
)

func main() {
	var err error

	// Load .env if present, then parse configuration
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}

	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Bootstrap admin account if configured
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := db.EnsureAdmin(dbConn, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Broadcast hub shared by the handlers and the scheduler
	hub := broadcast.NewHub()

	// Create router
	mux := router.NewRouter(dbConn, cfg, hub)

	// Background publisher for scheduled polls
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := polls.NewAggregator(dbConn)
	lifecycle := polls.NewLifecycle(dbConn, agg, hub)
	go scheduler.New(lifecycle, cfg.PublishInterval).Run(ctx)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
