package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"ladex/internal/config"
	"ladex/internal/csvexport"
	"ladex/internal/domain"
	"ladex/internal/port"
)

// HistoryService reads and exports the extraction history.
type HistoryService interface {
	List(ctx context.Context, offset, limit int) ([]domain.Extraction, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type historyService struct {
	repo    port.ExtractionRepository
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewHistoryService creates a new HistoryService implementation. storage
// may be nil when document archiving is disabled.
func NewHistoryService(repo port.ExtractionRepository, storage port.ObjectStorage, cfg *config.S3Config) HistoryService {
	return &historyService{
		repo:    repo,
		storage: storage,
		cfg:     cfg,
	}
}

func (s *historyService) List(ctx context.Context, offset, limit int) ([]domain.Extraction, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *historyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *historyService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage == nil || e.S3Key == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, e.S3Bucket, e.S3Key, s.cfg.PresignExpiry)
}

// exportBatchSize bounds how many rows each repository page fetches
// during export.
const exportBatchSize = 500

func (s *historyService) allExtractions(ctx context.Context) ([]domain.Extraction, error) {
	var all []domain.Extraction
	for offset := 0; ; offset += exportBatchSize {
		page, total, err := s.repo.List(ctx, offset, exportBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

func (s *historyService) ExportCSV(ctx context.Context) ([]byte, error) {
	extractions, err := s.allExtractions(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteExtractions(extractions); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	log.Printf("historyService.ExportCSV: exported %d rows", len(extractions))
	return buf.Bytes(), nil
}

func (s *historyService) ExportXLSX(ctx context.Context) ([]byte, error) {
	extractions, err := s.allExtractions(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document Name", "Extraction Method", "Confidence",
		"B/L Number", "Shipper", "Consignee",
		"Port of Loading", "Port of Discharge",
		"Vessel", "Containers", "Freight Terms", "Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := range extractions {
		e := &extractions[i]
		var rec domain.ExtractionRecord
		if len(e.Record) > 0 {
			_ = json.Unmarshal(e.Record, &rec)
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, e.FileName)
		write(2, e.Method)
		write(3, strconv.FormatFloat(e.Confidence, 'f', 2, 64))
		write(4, rec.BLNumber)
		if rec.Shipper != nil {
			write(5, rec.Shipper.Name)
		}
		if rec.Consignee != nil {
			write(6, rec.Consignee.Name)
		}
		if rec.PortOfLoading != nil {
			write(7, rec.PortOfLoading.Name)
		}
		if rec.PortOfDischarge != nil {
			write(8, rec.PortOfDischarge.Name)
		}
		if rec.Transport != nil {
			write(9, rec.Transport.VesselName)
		}
		write(10, len(rec.Containers))
		write(11, rec.FreightTerms)
		write(12, e.CreatedAt.Format(time.RFC3339))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "H", 24)
	_ = f.SetColWidth(sheet, "I", "L", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	log.Printf("historyService.ExportXLSX: exported %d rows", len(extractions))
	return buf.Bytes(), nil
}
