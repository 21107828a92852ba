package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ladinglens/internal/config"
	"ladinglens/internal/email/noop"
	"ladinglens/internal/email/ses"
	"ladinglens/internal/extract"
	"ladinglens/internal/handler"
	"ladinglens/internal/mail/gmail"
	"ladinglens/internal/pagemd"
	"ladinglens/internal/parser"
	"ladinglens/internal/parser/claude"
	"ladinglens/internal/parser/ollama"
	"ladinglens/internal/port"
	"ladinglens/internal/repository/postgres"
	"ladinglens/internal/router"
	"ladinglens/internal/service"
	s3storage "ladinglens/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	jobRepo := postgres.NewJobRepo(db)

	// Model extractors behind the deterministic engine
	parser.RegisterProvider("claude", func(pc *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return claude.NewExtractor(pc), nil
	})
	parser.RegisterProvider("ollama", func(pc *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return ollama.NewExtractor(pc), nil
	})
	model, err := parser.NewFromConfig(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractors: %w", err)
	}
	engine := extract.NewEngine(model)

	mailClient, err := gmail.NewClient(ctx, &cfg.Gmail)
	if err != nil {
		return fmt.Errorf("failed to initialize gmail client: %w", err)
	}

	converter := pagemd.NewClient(&cfg.Converter)

	// Archive storage is optional
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	// Initialize services
	processingSvc := service.NewProcessingService(mailClient, converter, engine, docRepo, jobRepo, storage, service.ProcessingConfig{
		EmailLimit:    cfg.Gmail.MaxMessages,
		AllowFallback: cfg.Extractor.AllowFallback,
		ArchiveBucket: cfg.S3.Bucket,
	})
	docSvc := service.NewDocumentService(docRepo)
	jobSvc := service.NewJobService(jobRepo)

	runner := service.NewJobRunner(jobRepo, processingSvc, sender, service.JobRunnerConfig{
		PollInterval:  time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:   cfg.Queue.Concurrency,
		NotifyAddress: cfg.Email.ToAddress,
	})
	runnerDone := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(runnerDone)
	}()

	// Initialize handlers
	processH := handler.NewProcessHandler(processingSvc, jobSvc)
	documentH := handler.NewDocumentHandler(docSvc)
	jobH := handler.NewJobHandler(jobSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(processH, documentH, jobH, healthH, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-runnerDone

	return nil
}
