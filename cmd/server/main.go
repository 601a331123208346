/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the worked-hours engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and HOURS_* environment, then apply flags
  2. Resolve the timezone punches are grouped in
  3. Initialize SQLite store and seed holidays from YAML
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port      HTTP server port (HOURS_PORT, default: 8080)
  -db        SQLite database path (HOURS_DB_PATH, default: hours.db)
             Use ":memory:" for in-memory database
  -holidays  Holiday seed file, YAML (HOURS_HOLIDAYS_FILE)

ENVIRONMENT (a .env file in the working directory is read first; real
environment variables win):
  HOURS_TIMEZONE         Zone used to group punches into days (America/Sao_Paulo)
  HOURS_LOCALE           Default label locale (pt-BR)
  HOURS_REPORT_WORKERS   Parallel workers for the daily report (4)
  HOURS_ALLOWED_ORIGINS  CORS origins, comma separated
  HOURS_DAY_CLOSE_ENABLED / HOURS_DAY_CLOSE_INTERVAL
                         Background check of yesterday's punches (true, 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and Brazilian holidays
  ./server -db="./data/hours.db" -holidays=holidays.yaml

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/hours-engine/api"
	"github.com/warp/hours-engine/config"
	"github.com/warp/hours-engine/factory"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/i18n"
	"github.com/warp/hours-engine/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to read .env: %v", err)
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags
	port := flag.Int("port", cfg.Server.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Store.DBPath, "SQLite database path")
	holidaysFile := flag.String("holidays", cfg.Store.HolidaysFile, "Holiday seed file (YAML)")
	flag.Parse()

	loc, err := cfg.Engine.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	var holidays []generic.Holiday
	if *holidaysFile != "" {
		data, err := os.ReadFile(*holidaysFile)
		if err != nil {
			log.Fatalf("Failed to read holidays file: %v", err)
		}
		holidays, err = factory.ParseHolidaysYAML(data)
		if err != nil {
			log.Fatalf("Failed to parse holidays file: %v", err)
		}
	}

	translator, err := i18n.New(cfg.Engine.Locale)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	log.Printf("Loaded translations: %v (default %s)", translator.Languages(), cfg.Engine.Locale)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler, err := api.NewHandler(store, api.Options{
		Clock:          generic.SystemClock{Location: loc},
		Location:       loc,
		Translator:     translator,
		ReportWorkers:  cfg.Engine.ReportWorkers,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Holidays:       holidays,
	})
	if err != nil {
		log.Fatalf("Failed to create handler: %v", err)
	}

	if err := handler.SeedHolidays(context.Background()); err != nil {
		log.Printf("Warning: Failed to seed holidays: %v", err)
	} else if len(holidays) > 0 {
		log.Printf("Seeded %d holidays from %s", len(holidays), *holidaysFile)
	}

	// Start day-close checker
	handler.DayClose.Enabled = cfg.Engine.DayCloseEnabled
	handler.DayClose.CheckInterval = cfg.Engine.DayCloseInterval
	handler.DayClose.Start()
	defer handler.DayClose.Stop()

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d (timezone %s, locale %s)", *port, loc, cfg.Engine.Locale)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
