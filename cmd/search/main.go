package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"job-hunter/internal/config"
	"job-hunter/internal/infrastructure/collector"
	"job-hunter/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	query := flag.String("query", "", "job search query")
	location := flag.String("location", "", "job location")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	q := strings.TrimSpace(*query)
	loc := strings.TrimSpace(*location)
	if q == "" && loc == "" {
		zl.Fatal("provide -query and/or -location")
	}

	client := collector.NewClient(cfg.Collector.BaseURL, cfg.Collector.Timeout, zl.Named("collector"))
	if client == nil {
		zl.Fatal("COLLECTOR_BASE_URL is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	taskID, err := client.TriggerSearch(ctx, q, loc)
	if err != nil {
		zl.Fatal("trigger search failed", zap.Error(err))
	}
	zl.Info("search triggered", zap.String("task_id", taskID), zap.String("query", q), zap.String("location", loc))
	fmt.Println(taskID)
}
