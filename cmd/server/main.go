package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinxiu-shop/storefront/internal/api"
	"github.com/jinxiu-shop/storefront/internal/config"
	"github.com/jinxiu-shop/storefront/internal/core"
	"github.com/jinxiu-shop/storefront/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize the snapshot store
	snapshots, err := store.NewSnapshotStore(config.AppConfig.SnapshotDB)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	defer snapshots.Close()

	// Initialize services. Each loads its document from the snapshot store,
	// falling back to the built-in seed data on a fresh database.
	users := core.NewUserService(snapshots)
	catalog := core.NewCatalogService(snapshots)
	carts := core.NewCartService(snapshots)
	orders := core.NewOrderService(snapshots, carts)
	stats := core.NewStatsService(orders)
	chat := core.NewChatService(snapshots)

	stylist := core.NewStylistService()
	defer stylist.Close()

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(users, catalog, carts, orders, stats, chat, stylist, snapshots)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // styling advice calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
