package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ladex/internal/config"
	"ladex/internal/domain"
	"ladex/internal/extract"
	"ladex/internal/ocr"
	"ladex/internal/port"
)

// ExtractInput is the DTO for extraction requests.
type ExtractInput struct {
	File    multipart.File
	Header  *multipart.FileHeader
	Options extract.Options
}

// ExtractResult pairs the extraction record with its history row ID.
// ID is uuid.Nil when persistence is disabled or failed; archiving and
// persistence are side effects, never reasons to fail an extraction.
type ExtractResult struct {
	ID     uuid.UUID                `json:"id,omitempty"`
	Record *domain.ExtractionRecord `json:"record"`
}

// ExtractService runs the extraction pipeline over an uploaded document.
type ExtractService interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error)
	Capabilities() extract.Capabilities
}

type extractService struct {
	registry     *ocr.Registry
	structure    port.StructureExtractor
	orchestrator *extract.Orchestrator
	repo         port.ExtractionRepository
	storage      port.ObjectStorage
	cfg          *config.Config
}

// NewExtractService creates a new ExtractService implementation.
// structure, repo and storage may be nil when the matching collaborator
// is disabled.
func NewExtractService(
	registry *ocr.Registry,
	structure port.StructureExtractor,
	orchestrator *extract.Orchestrator,
	repo port.ExtractionRepository,
	storage port.ObjectStorage,
	cfg *config.Config,
) ExtractService {
	return &extractService{
		registry:     registry,
		structure:    structure,
		orchestrator: orchestrator,
		repo:         repo,
		storage:      storage,
		cfg:          cfg,
	}
}

func (s *extractService) Capabilities() extract.Capabilities {
	return s.orchestrator.Capabilities()
}

func (s *extractService) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.S3.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	// Recognizers and the structuring collaborator read from disk.
	tmpPath, err := s.spool(input.File, ext)
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}
	defer os.Remove(tmpPath)

	log.Printf("extractService.Extract: processing %s (%s, %d bytes)",
		input.Header.Filename, detectedType, input.Header.Size)

	hint := s.structuredHint(ctx, input.Options, tmpPath)

	text, backend, err := s.registry.ExtractText(ctx, tmpPath)
	if err != nil {
		return nil, err
	}
	log.Printf("extractService.Extract: %s recognized %d characters from %s",
		backend, len(text), input.Header.Filename)

	rec := s.orchestrator.Extract(ctx, extract.Input{
		Text:    text,
		Hint:    hint,
		Options: input.Options,
	})

	id := s.persist(ctx, input, fileType, rec)
	return &ExtractResult{ID: id, Record: rec}, nil
}

// spool writes the upload to a temp file and returns its path.
func (s *extractService) spool(file multipart.File, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "ladex-*."+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// structuredHint asks the structuring collaborator for a section hint.
// Any failure degrades to no hint; the orchestrator falls through on its
// own.
func (s *extractService) structuredHint(ctx context.Context, opts extract.Options, path string) *domain.StructuredHint {
	if !opts.UseStructuredHint || s.structure == nil {
		return nil
	}
	if !s.orchestrator.Capabilities().Structure {
		return nil
	}
	hint, err := s.structure.ExtractHint(ctx, path)
	if err != nil {
		log.Printf("extractService.structuredHint: structuring failed: %v", err)
		return nil
	}
	return hint
}

// persist archives the original document and stores the history row.
// Both are best effort: failures are logged and the extraction result is
// returned regardless.
func (s *extractService) persist(ctx context.Context, input ExtractInput, fileType domain.FileType, rec *domain.ExtractionRecord) uuid.UUID {
	if s.repo == nil {
		return uuid.Nil
	}

	id := uuid.New()
	var s3Bucket, s3Key string

	if s.storage != nil && s.cfg.S3.Enabled {
		key := fmt.Sprintf("documents/%s/%s", id, input.Header.Filename)
		if _, err := input.File.Seek(0, io.SeekStart); err == nil {
			_, err = s.storage.Upload(ctx, port.UploadInput{
				Bucket:      s.cfg.S3.Bucket,
				Key:         key,
				Body:        input.File,
				ContentType: domain.AllowedFileTypes[fileType],
			})
			if err != nil {
				log.Printf("extractService.persist: archive upload failed for %s: %v", input.Header.Filename, err)
			} else {
				s3Bucket, s3Key = s.cfg.S3.Bucket, key
			}
		}
	}

	recordJSON, err := json.Marshal(rec)
	if err != nil {
		log.Printf("extractService.persist: failed to marshal record: %v", err)
		return uuid.Nil
	}

	row := &domain.Extraction{
		ID:         id,
		FileName:   input.Header.Filename,
		FileType:   fileType,
		FileSize:   input.Header.Size,
		S3Bucket:   s3Bucket,
		S3Key:      s3Key,
		Method:     rec.Method,
		Confidence: rec.Confidence,
		Record:     recordJSON,
		RawText:    rec.RawText,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		log.Printf("extractService.persist: failed to store history row: %v", err)
		return uuid.Nil
	}
	return id
}
