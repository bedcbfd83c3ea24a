package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"ladex/internal/config"
	"ladex/internal/enhance/ollama"
	"ladex/internal/extract"
	"ladex/internal/handler"
	"ladex/internal/ocr"
	"ladex/internal/ocr/paddle"
	"ladex/internal/ocr/pdftext"
	"ladex/internal/ocr/tesseract"
	"ladex/internal/pattern"
	"ladex/internal/port"
	"ladex/internal/repository/postgres"
	"ladex/internal/router"
	"ladex/internal/service"
	s3storage "ladex/internal/storage/s3"
	"ladex/internal/structure/docling"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// History store is optional: a failed connection downgrades to
	// extraction-only mode instead of refusing to start.
	var db *sqlx.DB
	var repo port.ExtractionRepository
	if d, err := postgres.NewDB(&cfg.DB); err != nil {
		log.Printf("main: history store unavailable, continuing without persistence: %v", err)
	} else {
		db = d
		defer db.Close()
		repo = postgres.NewExtractionRepo(db)
	}

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		storage = s3Client
	}

	// OCR backends in fallback order behind the registry
	registry := ocr.NewRegistry(cfg.OCR.Preferred,
		pdftext.New(),
		tesseract.New(cfg.OCR.Languages),
		paddle.New(cfg.OCR.PaddleEndpoint, time.Duration(cfg.OCR.TimeoutSecs)*time.Second),
	)

	var structureExt port.StructureExtractor
	if cfg.Structure.Enabled {
		structureExt = docling.New(cfg.Structure.Endpoint, time.Duration(cfg.Structure.TimeoutSecs)*time.Second)
	}

	var enhancer port.Enhancer
	if cfg.Enhancer.Enabled {
		enhancer = ollama.New(cfg.Enhancer.Endpoint, cfg.Enhancer.Model,
			cfg.Enhancer.Temperature, time.Duration(cfg.Enhancer.TimeoutSecs)*time.Second)
	}

	caps := probeCapabilities(registry, structureExt, enhancer, storage != nil)
	log.Printf("main: capabilities enhancer=%v structure=%v ocr=%v archive=%v",
		caps.Enhancer, caps.Structure, caps.OCRBackends, caps.ArchiveStore)

	orchestrator := extract.NewOrchestrator(enhancer, pattern.NewEngine(), caps, cfg.Extract)

	// Services
	extractSvc := service.NewExtractService(registry, structureExt, orchestrator, repo, storage, cfg)
	var historySvc service.HistoryService
	if repo != nil {
		historySvc = service.NewHistoryService(repo, storage, &cfg.S3)
	}

	// Handlers
	extractH := handler.NewExtractHandler(extractSvc)
	var historyH *handler.HistoryHandler
	if historySvc != nil {
		historyH = handler.NewHistoryHandler(historySvc)
	}
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(extractH, historyH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// probeCapabilities checks each optional collaborator once at startup.
func probeCapabilities(registry *ocr.Registry, structureExt port.StructureExtractor, enhancer port.Enhancer, archive bool) extract.Capabilities {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	caps := extract.Capabilities{
		OCRBackends:  registry.Backends(ctx),
		ArchiveStore: archive,
	}
	if structureExt != nil {
		caps.Structure = structureExt.Available(ctx)
	}
	if enhancer != nil {
		caps.Enhancer = enhancer.Available(ctx)
	}
	return caps
}
