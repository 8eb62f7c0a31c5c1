package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/biomech-data/biomech.coach/internal/api"
	"github.com/biomech-data/biomech.coach/internal/config"
	"github.com/biomech-data/biomech.coach/internal/db"
	"github.com/biomech-data/biomech.coach/internal/units"
	"github.com/biomech-data/biomech.coach/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbPath     = flag.String("db", "coach_data.db", "Path to the SQLite database")
	configPath = flag.String("config", "", "Path to a tuning config JSON file (optional)")
	angleUnits = flag.String("units", "", "Angle units for responses: "+units.GetValidUnitsString()+" (defaults to the tuning config)")
)

func loadTuning() *config.TuningConfig {
	path := *configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err != nil {
			// No config file anywhere; run on built-in defaults.
			return config.EmptyTuningConfig()
		}
		path = config.DefaultConfigPath
	}

	tuning, err := config.LoadTuningConfig(path)
	if err != nil {
		log.Fatalf("failed to load tuning config %s: %v", path, err)
	}
	log.Printf("loaded tuning config from %s", path)
	return tuning
}

func main() {
	flag.Parse()

	// `coach migrate <up|down|status|force>` runs a migration and exits.
	if flag.Arg(0) == "migrate" {
		db.RunMigrateCommand(flag.Args()[1:], *dbPath)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	tuning := loadTuning()

	resolvedUnits := *angleUnits
	if resolvedUnits == "" {
		resolvedUnits = tuning.GetAngleUnits()
	}
	if !units.IsValid(resolvedUnits) {
		log.Fatalf("invalid units %q: must be one of %s", resolvedUnits, units.GetValidUnitsString())
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Printf("coach %s (%s) serving on %s, db=%s, units=%s",
		version.Version, version.GitSHA, *listen, *dbPath, resolvedUnits)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// periodic status log so long-running captures show up in the journal
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(tuning.GetSummaryFlushInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessions, frames, err := database.Counts()
				if err != nil {
					log.Printf("failed to read store counts: %v", err)
					continue
				}
				log.Printf("store status: %d sessions, %d frames", sessions, frames)
			case <-ctx.Done():
				log.Print("status routine terminated")
				return
			}
		}
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, tuning, resolvedUnits).ServeMux()

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
