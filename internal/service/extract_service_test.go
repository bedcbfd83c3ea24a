package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladex/internal/config"
	"ladex/internal/domain"
	"ladex/internal/extract"
	"ladex/internal/ocr"
	"ladex/internal/pattern"
	"ladex/internal/service"
	"ladex/mocks"
)

const scannedText = `B/L NO: MAEU12345678
SHIPPER: ACME EXPORTS GMBH / HAMBURG
PORT OF DISCHARGE: SINGAPORE`

// uploadFile builds a real multipart.File and header the way gin hands
// them to the service.
func uploadFile(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	fh := form.File["file"][0]
	f, err := fh.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, fh
}

func testConfig() *config.Config {
	return &config.Config{
		S3: config.S3Config{
			Enabled:       false,
			Bucket:        "test-bucket",
			MaxFileSizeMB: 10,
		},
		Extract: config.ExtractConfig{
			AcceptStructured: 0.8,
			AcceptEnhanced:   0.5,
			HintMinSections:  2,
		},
	}
}

func patternOnlyService(t *testing.T, repo *mocks.MockExtractionRepo) service.ExtractService {
	t.Helper()

	recognizer := new(mocks.MockTextRecognizer)
	recognizer.On("Name").Return("mock")
	recognizer.On("Available", mock.Anything).Return(true)
	recognizer.On("ExtractText", mock.Anything, mock.Anything).Return(scannedText, nil)

	cfg := testConfig()
	orchestrator := extract.NewOrchestrator(nil, pattern.NewEngine(), extract.Capabilities{}, cfg.Extract)
	return service.NewExtractService(
		ocr.NewRegistry("mock", recognizer), nil, orchestrator, repo, nil, cfg)
}

func TestExtract_PatternPipeline(t *testing.T) {
	repo := new(mocks.MockExtractionRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Extraction")).Return(nil)

	svc := patternOnlyService(t, repo)
	file, header := uploadFile(t, "bl-scan.pdf", []byte("%PDF-1.4 fake document body"))

	result, err := svc.Extract(context.Background(), service.ExtractInput{
		File:    file,
		Header:  header,
		Options: extract.Options{UseEnhancement: true, UseStructuredHint: true},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Record)

	assert.Equal(t, domain.MethodPatternOnly, result.Record.Method)
	assert.Equal(t, "MAEU12345678", result.Record.BLNumber)
	assert.NotEqual(t, uuid.Nil, result.ID)
	repo.AssertNumberOfCalls(t, "Create", 1)

	created := repo.Calls[0].Arguments.Get(1).(*domain.Extraction)
	assert.Equal(t, "bl-scan.pdf", created.FileName)
	assert.Equal(t, domain.FileTypePDF, created.FileType)
	assert.Equal(t, domain.MethodPatternOnly, created.Method)
	assert.NotEmpty(t, created.Record)
}

func TestExtract_PersistFailureIsNotFatal(t *testing.T) {
	repo := new(mocks.MockExtractionRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := patternOnlyService(t, repo)
	file, header := uploadFile(t, "bl-scan.pdf", []byte("%PDF-1.4 fake document body"))

	result, err := svc.Extract(context.Background(), service.ExtractInput{File: file, Header: header})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, result.ID)
	assert.NotNil(t, result.Record)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	svc := patternOnlyService(t, new(mocks.MockExtractionRepo))
	file, header := uploadFile(t, "notes.txt", []byte("plain text"))

	_, err := svc.Extract(context.Background(), service.ExtractInput{File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtract_SpoofedContentType(t *testing.T) {
	// Extension says PDF, magic bytes say HTML.
	svc := patternOnlyService(t, new(mocks.MockExtractionRepo))
	file, header := uploadFile(t, "fake.pdf", []byte("<html><body>not a pdf</body></html>"))

	_, err := svc.Extract(context.Background(), service.ExtractInput{File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtract_FileTooLarge(t *testing.T) {
	recognizer := new(mocks.MockTextRecognizer)
	recognizer.On("Name").Return("mock")

	cfg := testConfig()
	cfg.S3.MaxFileSizeMB = 0
	orchestrator := extract.NewOrchestrator(nil, pattern.NewEngine(), extract.Capabilities{}, cfg.Extract)
	svc := service.NewExtractService(
		ocr.NewRegistry("mock", recognizer), nil, orchestrator, new(mocks.MockExtractionRepo), nil, cfg)

	file, header := uploadFile(t, "bl-scan.pdf", []byte("%PDF-1.4 fake document body"))
	_, err := svc.Extract(context.Background(), service.ExtractInput{File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestExtract_NoBackendCanRead(t *testing.T) {
	recognizer := new(mocks.MockTextRecognizer)
	recognizer.On("Name").Return("mock")
	recognizer.On("Available", mock.Anything).Return(false)

	cfg := testConfig()
	orchestrator := extract.NewOrchestrator(nil, pattern.NewEngine(), extract.Capabilities{}, cfg.Extract)
	svc := service.NewExtractService(
		ocr.NewRegistry("mock", recognizer), nil, orchestrator, new(mocks.MockExtractionRepo), nil, cfg)

	file, header := uploadFile(t, "bl-scan.pdf", []byte("%PDF-1.4 fake document body"))
	_, err := svc.Extract(context.Background(), service.ExtractInput{File: file, Header: header})
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}

func TestExtract_StructuredHintFailureDegrades(t *testing.T) {
	recognizer := new(mocks.MockTextRecognizer)
	recognizer.On("Name").Return("mock")
	recognizer.On("Available", mock.Anything).Return(true)
	recognizer.On("ExtractText", mock.Anything, mock.Anything).Return(scannedText, nil)

	structure := new(mocks.MockStructureExtractor)
	structure.On("ExtractHint", mock.Anything, mock.Anything).Return(nil, errors.New("service down"))

	repo := new(mocks.MockExtractionRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	cfg := testConfig()
	orchestrator := extract.NewOrchestrator(nil, pattern.NewEngine(),
		extract.Capabilities{Structure: true}, cfg.Extract)
	svc := service.NewExtractService(
		ocr.NewRegistry("mock", recognizer), structure, orchestrator, repo, nil, cfg)

	file, header := uploadFile(t, "bl-scan.pdf", []byte("%PDF-1.4 fake document body"))
	result, err := svc.Extract(context.Background(), service.ExtractInput{
		File:    file,
		Header:  header,
		Options: extract.Options{UseStructuredHint: true},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodPatternOnly, result.Record.Method)
}
