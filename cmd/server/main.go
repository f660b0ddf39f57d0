package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"breach-tactics/server/config"
	"breach-tactics/server/handlers"
	"breach-tactics/server/persistence"
	"breach-tactics/server/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin; front ends are served separately
		return true
	},
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	db, err := persistence.Open(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()

	logger.Println("Persistence initialized successfully")

	catalog := services.NewLevelCatalog(cfg.LevelsDir)
	if _, err := catalog.Get(cfg.DefaultLevel); err != nil {
		logger.Fatalf("default level: %v", err)
	}
	sessions := services.NewSessionService(catalog, db, cfg.Rules, log.New(os.Stdout, "[session] ", log.LstdFlags))
	clientManager := handlers.NewClientManager()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/levels", func(rw http.ResponseWriter, r *http.Request) {
		names, err := catalog.List()
		if err != nil {
			logger.Printf("list levels: %v", err)
			http.Error(rw, "could not list levels", http.StatusInternalServerError)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]interface{}{
			"levels":  names,
			"default": cfg.DefaultLevel,
		})
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		handlers.HandleClientConnection(conn, sessions, clientManager, cfg.DefaultLevel, logger)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("Server starting on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	logger.Printf("Server stopped")
}
