package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/levant12/shawarma-club/internal/auth"
	"github.com/levant12/shawarma-club/internal/catalog"
	"github.com/levant12/shawarma-club/internal/server"
	"github.com/levant12/shawarma-club/internal/storage"
	"github.com/levant12/shawarma-club/internal/storage/memory"
	"github.com/levant12/shawarma-club/internal/storage/sqlite"
	"github.com/levant12/shawarma-club/pkg/logging"
)

const (
	defaultPort        = 8080
	defaultDeliveryFee = 4
	defaultTokenHours  = 24
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", strconv.Itoa(defaultPort))
	dbPath := getEnv("DB_PATH", "./data/orders.db")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	deliveryFee := float64(defaultDeliveryFee)
	if raw := os.Getenv("DELIVERY_FEE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			slog.Error("Invalid DELIVERY_FEE", "value", raw, "error", err)
			os.Exit(1)
		}
		deliveryFee = parsed
	}

	// STORE=memory keeps everything in process, for local development.
	var store storage.Store
	var err error
	if getEnv("STORE", "sqlite") == "memory" {
		store = memory.New()
		slog.Info("Storage initialized", "backend", "memory")
	} else {
		store, err = sqlite.New(dbPath)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		slog.Info("Storage initialized", "backend", "sqlite", "database", dbPath)
	}
	defer store.Close()

	cat := catalog.Default()
	if path := os.Getenv("CATALOG_PATH"); path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			slog.Error("Failed to load catalog", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("Catalog loaded", "path", path, "sizes", len(cat.Sizes))
	}

	srv := server.New(server.Config{
		Store:       store,
		Catalog:     cat,
		Auth:        auth.NewManager(secret, defaultTokenHours*time.Hour),
		DeliveryFee: deliveryFee,
		DevTokens:   os.Getenv("DEV_TOKENS") == "1",
	})

	// Wrap with h2c for HTTP/2 without TLS.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "delivery_fee", deliveryFee)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
