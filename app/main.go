package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmhservices05-prog/alohomora/app/api"
	"github.com/rmhservices05-prog/alohomora/app/articlemeta"
	"github.com/rmhservices05-prog/alohomora/app/cfg"
	"github.com/rmhservices05-prog/alohomora/app/changelog"
	"github.com/rmhservices05-prog/alohomora/app/config"
	"github.com/rmhservices05-prog/alohomora/app/feed"
	"github.com/rmhservices05-prog/alohomora/app/quotes"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting alohomora %s...", appCfg.Version)

	domainCfg, err := config.Load(appCfg.SourcesFile)
	if err != nil {
		log.Fatalf("Failed to load sources configuration: %v", err)
	}
	log.Printf("Loaded %d feed sources and %d quote symbols",
		len(domainCfg.Sources), len(domainCfg.Symbols))

	httpClient := &http.Client{}

	aggregator := feed.NewAggregator(
		domainCfg.Sources,
		httpClient,
		appCfg.UserAgent,
		time.Duration(appCfg.FeedTimeout)*time.Second,
		time.Duration(appCfg.RetentionDays)*24*time.Hour,
		appCfg.TechFilter,
	)

	quoteService := quotes.NewService(
		quotes.DefaultProviders(httpClient, appCfg.UserAgent),
		domainCfg.Symbols,
		time.Duration(appCfg.QuoteTTL)*time.Second,
	)

	metaService := articlemeta.NewService(
		httpClient,
		appCfg.UserAgent,
		time.Duration(appCfg.ArticleMetaTTL)*time.Second,
	)

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	changelogService := changelog.NewService(workDir)

	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(aggregator, quoteService, metaService, changelogService)
	server := api.NewServer(apiHandler, appCfg.PublicDir)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("API endpoints available:")
		log.Printf("  News:          http://localhost:%s/api/news", appCfg.Port)
		log.Printf("  Stocks:        http://localhost:%s/api/stocks", appCfg.Port)
		log.Printf("  Article meta:  http://localhost:%s/api/article-meta?url=<url>", appCfg.Port)
		log.Printf("  Changelog:     http://localhost:%s/api/changelog", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/healthz", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("alohomora started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("alohomora shutdown complete")
}
