package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atravisjones/Arizona-Roofers-Scheduler/config"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/fetcher"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/formatter"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/roster"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/server"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/sheets"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/skills"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Define flags
	date := flag.String("date", "", "Target date as YYYY-MM-DD (default: today)")
	format := flag.String("format", "text", "Output format: text|json|csv")
	serve := flag.String("serve", "", "Run the HTTP API on this address instead of a one-shot query (e.g., :8080)")
	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Validate format enum
	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[*format] {
		fmt.Printf("Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(1)
	}

	targetDate := time.Now()
	if *date != "" {
		targetDate, err = time.Parse("2006-01-02", *date)
		if err != nil {
			fmt.Printf("Error: date must be YYYY-MM-DD (got: %s)\n", *date)
			os.Exit(1)
		}
	}

	// Wire the engine
	f := fetcher.New(cfg.MaxRetries, cfg.InitialDelay, log.Logger)
	client := sheets.NewClient(cfg.BaseURL, cfg.SpreadsheetID, cfg.APIKey, f)
	loader := skills.NewLoader(client, cfg.SkillsRange, cfg.RankingRange, log.Logger)
	svc := roster.NewService(client, loader, cfg, log.Logger)

	// Server mode: expose the engine over HTTP and block
	if *serve != "" {
		api := server.New(svc, log.Logger)
		log.Info().Str("addr", *serve).Msg("serving roster API")
		if err := http.ListenAndServe(*serve, api.Routes(cfg.AllowedOrigins)); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info().Str("addr", *metricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	snapshot, err := svc.FetchSheetData(context.Background(), targetDate)
	if err != nil {
		log.Fatal().Err(err).Msg("ingestion query failed")
	}

	// Output based on format
	switch *format {
	case "json":
		fmt.Print(formatter.FormatJSON(snapshot))
	case "csv":
		fmt.Print(formatter.FormatCSV(snapshot))
	default: // "text"
		fmt.Print(formatter.FormatText(snapshot))
	}

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "sheet_ingest"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			log.Error().Err(err).Msg("error pushing to Pushgateway")
		} else {
			log.Info().Msg("metrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
}
