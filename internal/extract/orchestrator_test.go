package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ladex/internal/config"
	"ladex/internal/domain"
	"ladex/internal/extract"
	"ladex/internal/pattern"
	"ladex/mocks"
)

var testCfg = config.ExtractConfig{
	AcceptStructured: 0.8,
	AcceptEnhanced:   0.5,
	HintMinSections:  2,
}

const testText = "B/L NO: MAEU12345678 PORT OF DISCHARGE: SINGAPORE"

func completeHint() *domain.StructuredHint {
	return &domain.StructuredHint{
		Header:  []string{"B/L NO: MAEU12345678"},
		Parties: []string{"SHIPPER: ACME"},
	}
}

func enhancedRecord(confidence float64) *domain.ExtractionRecord {
	return &domain.ExtractionRecord{
		BLNumber:   "MAEU12345678",
		Confidence: confidence,
	}
}

func allOptions() extract.Options {
	return extract.Options{UseEnhancement: true, UseStructuredHint: true}
}

func TestExtract_StructuredEnhancedAccepted(t *testing.T) {
	enhancer := new(mocks.MockEnhancer)
	hint := completeHint()
	enhancer.On("Enhance", mock.Anything, testText, hint).Return(enhancedRecord(0.9), nil)

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Hint: hint, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodStructuredEnhanced, rec.Method)
	assert.Equal(t, testText, rec.RawText)
	enhancer.AssertNumberOfCalls(t, "Enhance", 1)
}

func TestExtract_StructuredThresholdIsStrict(t *testing.T) {
	// Exactly 0.8 does not clear the structured gate, but does clear the
	// plain-enhanced gate on the second attempt.
	enhancer := new(mocks.MockEnhancer)
	hint := completeHint()
	enhancer.On("Enhance", mock.Anything, testText, hint).Return(enhancedRecord(0.8), nil)

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Hint: hint, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodEnhanced, rec.Method)
	enhancer.AssertNumberOfCalls(t, "Enhance", 2)
}

func TestExtract_IncompleteHintSkipsStructured(t *testing.T) {
	enhancer := new(mocks.MockEnhancer)
	hint := &domain.StructuredHint{Header: []string{"B/L NO: MAEU12345678"}}
	enhancer.On("Enhance", mock.Anything, testText, hint).Return(enhancedRecord(0.9), nil)

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Hint: hint, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodEnhanced, rec.Method)
	enhancer.AssertNumberOfCalls(t, "Enhance", 1)
}

func TestExtract_NilHintSkipsStructured(t *testing.T) {
	enhancer := new(mocks.MockEnhancer)
	enhancer.On("Enhance", mock.Anything, testText, (*domain.StructuredHint)(nil)).Return(enhancedRecord(0.6), nil)

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodEnhanced, rec.Method)
	enhancer.AssertNumberOfCalls(t, "Enhance", 1)
}

func TestExtract_LowConfidenceFallsThroughToPattern(t *testing.T) {
	enhancer := new(mocks.MockEnhancer)
	hint := completeHint()
	enhancer.On("Enhance", mock.Anything, testText, hint).Return(enhancedRecord(0.3), nil)

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Hint: hint, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodPatternOnly, rec.Method)
	enhancer.AssertNumberOfCalls(t, "Enhance", 2)
}

func TestExtract_EnhancerErrorFallsThroughToPattern(t *testing.T) {
	enhancer := new(mocks.MockEnhancer)
	hint := completeHint()
	enhancer.On("Enhance", mock.Anything, testText, hint).Return(nil, errors.New("connection refused"))

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Hint: hint, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodPatternOnly, rec.Method)
	assert.Equal(t, "MAEU12345678", rec.BLNumber)
}

func TestExtract_EnhancementDeclined(t *testing.T) {
	enhancer := new(mocks.MockEnhancer)

	o := extract.NewOrchestrator(enhancer, pattern.NewEngine(), extract.Capabilities{Enhancer: true}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{
		Text:    testText,
		Hint:    completeHint(),
		Options: extract.Options{UseEnhancement: false, UseStructuredHint: true},
	})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodPatternOnly, rec.Method)
	enhancer.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_NoEnhancerCapability(t *testing.T) {
	o := extract.NewOrchestrator(nil, pattern.NewEngine(), extract.Capabilities{}, testCfg)
	rec := o.Extract(context.Background(), extract.Input{Text: testText, Options: allOptions()})

	require.NotNil(t, rec)
	assert.Equal(t, domain.MethodPatternOnly, rec.Method)
}

func TestExtract_AlwaysReturnsRecord(t *testing.T) {
	o := extract.NewOrchestrator(nil, pattern.NewEngine(), extract.Capabilities{}, testCfg)
	for _, text := range []string{"", "no shipping fields here", testText} {
		rec := o.Extract(context.Background(), extract.Input{Text: text, Options: allOptions()})
		require.NotNil(t, rec)
		assert.Equal(t, domain.MethodPatternOnly, rec.Method)
	}
}
