package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/creditcore/loan-advisor/internal/advisor"
	"github.com/creditcore/loan-advisor/internal/cache"
	"github.com/creditcore/loan-advisor/internal/config"
	"github.com/creditcore/loan-advisor/internal/server"
	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/loans"
	"github.com/creditcore/loan-advisor/pkg/output"
	"github.com/creditcore/loan-advisor/pkg/products"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	productsLocation := flag.String("products", "", "path to product catalog override")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	showSchedule := flag.Bool("schedule", false, "print the full amortization schedule")
	serve := flag.Bool("serve", false, "run the HTTP API instead of a one-shot quote")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Load the product catalog (CLI override takes precedence over config)
	catalogPath := conf.Catalog.Path
	if *productsLocation != "" {
		catalogPath = *productsLocation
	}
	catalog, err := products.LoadCatalog(catalogPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("failed to load product catalog at %s", catalogPath),
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *serve {
		runServer(logger, catalog, *serverConfigLocation)
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}
	switch outputFormat {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
	default:
		logger.Fatal(fmt.Sprintf("invalid output format: %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	method, err := loans.ParseMethod(conf.Request.Method)
	if err != nil {
		logger.Fatal("failed to parse repayment method",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	adv := advisor.NewAdvisor(logger, catalog, nil)
	req := advisor.QuoteRequest{
		Product:       conf.Request.Product,
		Principal:     conf.Request.Principal,
		TermMonths:    conf.Request.TermMonths,
		Method:        method,
		MonthlyIncome: conf.Request.MonthlyIncome,
		DTIThreshold:  conf.Engine.DTIThreshold,
	}

	quote, err := adv.Quote(context.Background(), req)
	if err != nil {
		logger.Fatal("failed to compute quote",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	var schedule loans.Schedule
	if *showSchedule {
		schedule, err = adv.Schedule(context.Background(), req)
		if err != nil {
			logger.Fatal("failed to generate amortization schedule",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, quote, schedule)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, schedule)
	}
}

// runServer hosts the loan API until interrupted.
func runServer(logger *zap.Logger, catalog *products.Catalog, serverConfigLocation string) {
	serverConf, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		logger.Fatal("failed to load server configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	var quoteCache cache.Cache
	if serverConf.Redis.Address != "" {
		redisCache := cache.NewRedis(serverConf.Redis.Address, serverConf.RedisTTL())
		defer func() {
			_ = redisCache.Close()
		}()
		quoteCache = redisCache
		logger.Info("using redis quote cache",
			zap.String("op", "main"),
			zap.String("address", serverConf.Redis.Address),
		)
	} else {
		quoteCache = cache.NewMemory()
	}

	adv := advisor.NewAdvisor(logger, catalog, quoteCache)

	limiter := server.NewRateLimiter(serverConf.RateLimit.Requests, serverConf.RateLimitWindow())
	defer limiter.Stop()

	handler := server.NewHandler(logger, adv, limiter, serverConf.RequestBytes(), version)

	srv := &http.Server{
		Addr:         serverConf.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("loan advisor API listening",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	case <-quit:
		logger.Info("shutting down server",
			zap.String("op", "main"),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
