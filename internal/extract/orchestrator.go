package extract

import (
	"context"
	"log"

	"ladex/internal/config"
	"ladex/internal/domain"
	"ladex/internal/pattern"
	"ladex/internal/port"
)

// state is a step in the strategy ladder. The orchestrator walks the states
// in order and stops at the first accepted result; the pattern state always
// accepts, so the walk terminates for every input.
type state int

const (
	stateTryStructuredEnhanced state = iota
	stateTryEnhanced
	stateTryPattern
	stateDone
)

func (s state) String() string {
	switch s {
	case stateTryStructuredEnhanced:
		return "try_structured_enhanced"
	case stateTryEnhanced:
		return "try_enhanced"
	case stateTryPattern:
		return "try_pattern"
	default:
		return "done"
	}
}

// Capabilities records which optional collaborators were reachable at
// startup. It is computed once and never mutated, so a collaborator that
// dies mid-flight surfaces as a failed attempt, not a capability change.
type Capabilities struct {
	Enhancer     bool     `json:"enhancer"`
	Structure    bool     `json:"structure"`
	OCRBackends  []string `json:"ocr_backends"`
	ArchiveStore bool     `json:"archive_store"`
}

// Options are per-request toggles. Either path can be declined by the
// caller even when the collaborator is up.
type Options struct {
	UseEnhancement    bool
	UseStructuredHint bool
}

// Input is one extraction request as seen by the orchestrator: recognized
// text plus whatever hint the structuring collaborator produced (nil when
// it was skipped or failed).
type Input struct {
	Text    string
	Hint    *domain.StructuredHint
	Options Options
}

// Orchestrator selects the best extraction strategy for a document. It
// tries language-model extraction with a structured hint first, then plain
// language-model extraction, then deterministic pattern extraction, and
// returns the first result whose confidence clears the threshold for its
// strategy. Pattern extraction is total and always accepted, so Extract
// never returns nil.
type Orchestrator struct {
	enhancer port.Enhancer
	engine   *pattern.Engine
	caps     Capabilities
	cfg      config.ExtractConfig
}

// NewOrchestrator builds an orchestrator. enhancer may be nil when no
// enhancement backend is configured.
func NewOrchestrator(enhancer port.Enhancer, engine *pattern.Engine, caps Capabilities, cfg config.ExtractConfig) *Orchestrator {
	return &Orchestrator{
		enhancer: enhancer,
		engine:   engine,
		caps:     caps,
		cfg:      cfg,
	}
}

// Capabilities returns the startup capability snapshot.
func (o *Orchestrator) Capabilities() Capabilities {
	return o.caps
}

// Extract runs the strategy ladder over the recognized text and returns a
// record. The record's Method names the strategy that produced it.
func (o *Orchestrator) Extract(ctx context.Context, in Input) *domain.ExtractionRecord {
	for st := stateTryStructuredEnhanced; st != stateDone; st = next(st) {
		switch st {
		case stateTryStructuredEnhanced:
			if rec, ok := o.tryStructuredEnhanced(ctx, in); ok {
				return rec
			}
		case stateTryEnhanced:
			if rec, ok := o.tryEnhanced(ctx, in); ok {
				return rec
			}
		case stateTryPattern:
			return o.engine.Parse(in.Text)
		}
	}
	// Unreachable: the pattern state returns unconditionally.
	return o.engine.Parse(in.Text)
}

// next returns the state entered after st declined or was rejected.
func next(st state) state {
	switch st {
	case stateTryStructuredEnhanced:
		return stateTryEnhanced
	case stateTryEnhanced:
		return stateTryPattern
	default:
		return stateDone
	}
}

// hintUsable reports whether the structured hint is complete enough to
// gate the structured-enhanced path: at least HintMinSections of the
// header, parties and ports groups must be non-empty.
func (o *Orchestrator) hintUsable(hint *domain.StructuredHint) bool {
	return hint != nil && hint.CompleteSections() >= o.cfg.HintMinSections
}

func (o *Orchestrator) tryStructuredEnhanced(ctx context.Context, in Input) (*domain.ExtractionRecord, bool) {
	if !in.Options.UseEnhancement || !in.Options.UseStructuredHint {
		return nil, false
	}
	if !o.caps.Enhancer || o.enhancer == nil {
		return nil, false
	}
	if !o.hintUsable(in.Hint) {
		log.Printf("extract.Orchestrator: structured hint missing or incomplete, skipping %s", stateTryStructuredEnhanced)
		return nil, false
	}

	rec, err := o.enhancer.Enhance(ctx, in.Text, in.Hint)
	if err != nil {
		log.Printf("extract.Orchestrator: %s failed: %v", stateTryStructuredEnhanced, err)
		return nil, false
	}
	if rec.Confidence <= o.cfg.AcceptStructured {
		log.Printf("extract.Orchestrator: %s rejected, confidence %.2f below %.2f",
			stateTryStructuredEnhanced, rec.Confidence, o.cfg.AcceptStructured)
		return nil, false
	}

	rec.Method = domain.MethodStructuredEnhanced
	rec.RawText = in.Text
	return rec, true
}

func (o *Orchestrator) tryEnhanced(ctx context.Context, in Input) (*domain.ExtractionRecord, bool) {
	if !in.Options.UseEnhancement {
		return nil, false
	}
	if !o.caps.Enhancer || o.enhancer == nil {
		return nil, false
	}

	// The hint is still forwarded here when present. This path differs from
	// the structured path only in its completeness gate and threshold.
	rec, err := o.enhancer.Enhance(ctx, in.Text, in.Hint)
	if err != nil {
		log.Printf("extract.Orchestrator: %s failed: %v", stateTryEnhanced, err)
		return nil, false
	}
	if rec.Confidence <= o.cfg.AcceptEnhanced {
		log.Printf("extract.Orchestrator: %s rejected, confidence %.2f below %.2f",
			stateTryEnhanced, rec.Confidence, o.cfg.AcceptEnhanced)
		return nil, false
	}

	rec.Method = domain.MethodEnhanced
	rec.RawText = in.Text
	return rec, true
}
