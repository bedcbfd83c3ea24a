package ocr_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladex/internal/domain"
	"ladex/internal/ocr"
	"ladex/mocks"
)

func newRecognizer(name string, available bool) *mocks.MockTextRecognizer {
	r := new(mocks.MockTextRecognizer)
	r.On("Name").Return(name)
	r.On("Available", mock.Anything).Return(available)
	return r
}

func TestExtractText_PreferredBackendFirst(t *testing.T) {
	first := newRecognizer("tesseract", true)
	second := newRecognizer("paddleocr", true)
	second.On("ExtractText", mock.Anything, "doc.png").Return("recognized text", nil)

	reg := ocr.NewRegistry("paddleocr", first, second)
	text, backend, err := reg.ExtractText(context.Background(), "doc.png")

	require.NoError(t, err)
	assert.Equal(t, "recognized text", text)
	assert.Equal(t, "paddleocr", backend)
	first.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtractText_FallsThroughOnError(t *testing.T) {
	first := newRecognizer("pdftext", true)
	first.On("ExtractText", mock.Anything, "doc.pdf").Return("", errors.New("no text layer"))
	second := newRecognizer("tesseract", true)
	second.On("ExtractText", mock.Anything, "doc.pdf").Return("fallback text", nil)

	reg := ocr.NewRegistry("pdftext", first, second)
	text, backend, err := reg.ExtractText(context.Background(), "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, "fallback text", text)
	assert.Equal(t, "tesseract", backend)
}

func TestExtractText_SkipsUnavailableBackends(t *testing.T) {
	down := newRecognizer("paddleocr", false)
	up := newRecognizer("tesseract", true)
	up.On("ExtractText", mock.Anything, "doc.jpg").Return("text", nil)

	reg := ocr.NewRegistry("paddleocr", down, up)
	_, backend, err := reg.ExtractText(context.Background(), "doc.jpg")

	require.NoError(t, err)
	assert.Equal(t, "tesseract", backend)
	down.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtractText_EmptyResultIsFailure(t *testing.T) {
	first := newRecognizer("pdftext", true)
	first.On("ExtractText", mock.Anything, "doc.pdf").Return("", nil)
	second := newRecognizer("tesseract", true)
	second.On("ExtractText", mock.Anything, "doc.pdf").Return("real text", nil)

	reg := ocr.NewRegistry("pdftext", first, second)
	text, _, err := reg.ExtractText(context.Background(), "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, "real text", text)
}

func TestExtractText_AllFailIsUnreadable(t *testing.T) {
	first := newRecognizer("pdftext", true)
	first.On("ExtractText", mock.Anything, "doc.pdf").Return("", errors.New("bad pdf"))
	second := newRecognizer("tesseract", false)

	reg := ocr.NewRegistry("pdftext", first, second)
	_, _, err := reg.ExtractText(context.Background(), "doc.pdf")

	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}

func TestBackends_ReportsAvailableOnly(t *testing.T) {
	reg := ocr.NewRegistry("paddleocr",
		newRecognizer("pdftext", true),
		newRecognizer("tesseract", false),
		newRecognizer("paddleocr", true),
	)
	assert.Equal(t, []string{"paddleocr", "pdftext"}, reg.Backends(context.Background()))
}
