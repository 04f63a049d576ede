package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/taxwiseapp/taxwise/internal/category"
	categorystore "github.com/taxwiseapp/taxwise/internal/category/store"
	"github.com/taxwiseapp/taxwise/internal/classify"
	"github.com/taxwiseapp/taxwise/internal/config"
	"github.com/taxwiseapp/taxwise/internal/database"
	"github.com/taxwiseapp/taxwise/internal/export"
	router "github.com/taxwiseapp/taxwise/internal/http"
	categoryhandler "github.com/taxwiseapp/taxwise/internal/http/category"
	exporthandler "github.com/taxwiseapp/taxwise/internal/http/export"
	rulehandler "github.com/taxwiseapp/taxwise/internal/http/rule"
	summaryhandler "github.com/taxwiseapp/taxwise/internal/http/summary"
	transactionhandler "github.com/taxwiseapp/taxwise/internal/http/transaction"
	uploadhandler "github.com/taxwiseapp/taxwise/internal/http/upload"
	"github.com/taxwiseapp/taxwise/internal/rule"
	rulestore "github.com/taxwiseapp/taxwise/internal/rule/store"
	"github.com/taxwiseapp/taxwise/internal/summary"
	summarystore "github.com/taxwiseapp/taxwise/internal/summary/store"
	"github.com/taxwiseapp/taxwise/internal/transaction"
	transactionstore "github.com/taxwiseapp/taxwise/internal/transaction/store"
	"github.com/taxwiseapp/taxwise/internal/upload"
	uploadstore "github.com/taxwiseapp/taxwise/internal/upload/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactionSvc := transaction.NewService(transactionstore.New(db))
	categoryStore := categorystore.New(db)
	categorySvc := category.NewService(categoryStore)
	ruleStore := rulestore.New(db)
	ruleSvc := rule.NewService(ruleStore)
	summarySvc := summary.NewService(summarystore.New(db), transactionSvc, categoryStore)
	exportSvc := export.NewService(transactionSvc, categoryStore)

	var classifier classify.Classifier
	if cfg.AI.APIKey != "" {
		classifier = classify.NewAnthropicClassifier(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		slog.Warn("no anthropic api key configured, unresolved transactions stay pending")
	}

	classifySvc := classify.NewService(categoryStore, ruleStore, transactionSvc, classifier, cfg.AI.BatchSize, cfg.AI.Workers)

	uploadSvc := upload.NewService(uploadstore.New(db), transactionSvc, classifySvc, summarySvc, cfg.App.Currency)

	handler := router.New(
		cfg.Auth.JWTSecret,
		uploadhandler.NewHandler(uploadSvc),
		transactionhandler.NewHandler(transactionSvc),
		categoryhandler.NewHandler(categorySvc),
		rulehandler.NewHandler(ruleSvc),
		summaryhandler.NewHandler(summarySvc),
		exporthandler.NewHandler(exportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", cfg.App.Port)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
