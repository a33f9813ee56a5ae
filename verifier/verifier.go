// Package verifier implements the content verification pipeline: four
// independent checks over a file buffer (AI-generation likelihood,
// provenance, metadata, safety) or a single safety check over a URL,
// aggregated into one report with an overall verdict and risk level.
package verifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HeyBatlle1/tos-salad/model"
	"github.com/HeyBatlle1/tos-salad/pkg/logger"
	"github.com/HeyBatlle1/tos-salad/scoring"
	"github.com/google/uuid"
)

// ModelClient is the multimodal inference dependency. Its output is
// untrusted free text that may or may not contain a JSON object.
type ModelClient interface {
	AnalyzeImage(ctx context.Context, prompt string, mimeType string, image []byte) (string, error)
}

// ProvenanceLookup cross-references a perceptual hash against external
// sources. Implementations are pluggable; a nil lookup degrades the
// provenance check to "no matches found".
type ProvenanceLookup interface {
	FindMatches(ctx context.Context, perceptualHash string) ([]model.ProvenanceMatch, error)
}

// ReportSink persists sanitized verification records. Persistence failures
// are logged and swallowed; they never fail a verification call.
type ReportSink interface {
	SaveReport(ctx context.Context, rec *model.VerificationRecord) error
}

// Input is one verification request.
type Input struct {
	Type     model.InputType
	Filename string
	Data     []byte
	URL      string
}

// Verifier runs the pipeline. All external dependencies are injected so
// tests can substitute fakes.
type Verifier struct {
	model         ModelClient
	lookup        ProvenanceLookup
	sink          ReportSink
	modelTimeout  time.Duration
	lookupTimeout time.Duration
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithModelTimeout bounds each inference call.
func WithModelTimeout(d time.Duration) Option {
	return func(v *Verifier) { v.modelTimeout = d }
}

// WithLookupTimeout bounds each provenance lookup call.
func WithLookupTimeout(d time.Duration) Option {
	return func(v *Verifier) { v.lookupTimeout = d }
}

// New creates a Verifier. model, lookup and sink may each be nil: a nil
// model fails the AI check into analysis_failed, a nil lookup yields no
// provenance matches, a nil sink skips persistence.
func New(mc ModelClient, lookup ProvenanceLookup, sink ReportSink, opts ...Option) *Verifier {
	v := &Verifier{
		model:         mc,
		lookup:        lookup,
		sink:          sink,
		modelTimeout:  30 * time.Second,
		lookupTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyFile runs all four checks over a file buffer.
func (v *Verifier) VerifyFile(ctx context.Context, filename string, data []byte) *model.VerificationReport {
	return v.Verify(ctx, Input{Type: model.InputFile, Filename: filename, Data: data})
}

// VerifyURL runs the safety check over a URL.
func (v *Verifier) VerifyURL(ctx context.Context, rawURL string) *model.VerificationReport {
	return v.Verify(ctx, Input{Type: model.InputURL, URL: rawURL})
}

// Verify dispatches on input type and always returns a well-formed report.
// Catastrophic input failure yields ANALYSIS_FAILED with an error string,
// never a Go error.
func (v *Verifier) Verify(ctx context.Context, in Input) *model.VerificationReport {
	report := &model.VerificationReport{
		ID:                uuid.New().String(),
		Timestamp:         time.Now().UTC(),
		InputType:         in.Type,
		EthicalGuardrails: Guardrails(),
	}

	switch in.Type {
	case model.InputFile:
		logger.Debug(ctx, "verification dispatched", "report_id", report.ID, "input", "file", "size", len(in.Data))
		report.Modules = v.runFileChecks(ctx, in.Filename, in.Data)
	case model.InputURL:
		logger.Debug(ctx, "verification dispatched", "report_id", report.ID, "input", "url")
		report.Modules = []model.ModuleResult{scanURL(in.URL)}
	default:
		report.OverallVerdict = model.VerdictAnalysisFailed
		report.RiskLevel = model.RiskLow
		report.Error = fmt.Sprintf("unknown input type %q", in.Type)
		return report
	}

	report.OverallVerdict = overallVerdict(report.Modules)
	report.RiskLevel = scoring.RiskFor(report.Modules)
	report.Summary = summarize(report.Modules)

	v.persist(ctx, report)

	logger.Debug(ctx, "verification complete",
		"report_id", report.ID,
		"verdict", report.OverallVerdict,
		"risk", report.RiskLevel,
	)
	return report
}

// runFileChecks fans the four independent checks out on goroutines and
// joins them into a fixed four-slot slice. The checks share no mutable
// state and no ordering is assumed between them.
func (v *Verifier) runFileChecks(ctx context.Context, filename string, data []byte) []model.ModuleResult {
	results := make([]model.ModuleResult, 4)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		results[0] = v.detectAIGeneration(ctx, filename, data)
	}()
	go func() {
		defer wg.Done()
		results[1] = v.checkProvenance(ctx, data)
	}()
	go func() {
		defer wg.Done()
		results[2] = analyzeMetadata(data)
	}()
	go func() {
		defer wg.Done()
		results[3] = scanFile(filename, data)
	}()
	wg.Wait()

	return results
}

// overallVerdict applies the fixed precedence order: module failure, then
// security risk, then AI signals, then complete. Security and manipulation
// signals are never overridden by a clean AI-detection result.
func overallVerdict(modules []model.ModuleResult) model.OverallVerdict {
	var ai *model.AIDetectionResult
	var safety *model.SafetyResult
	for i := range modules {
		m := &modules[i]
		if m.Failed() {
			return model.VerdictAnalysisIncomplete
		}
		if m.AIDetection != nil {
			ai = m.AIDetection
		}
		if m.Safety != nil {
			safety = m.Safety
		}
	}

	if safety != nil && safety.Verdict == model.SafetyWarning {
		return model.VerdictSecurityRisk
	}
	if ai != nil {
		switch ai.Verdict {
		case model.AIHighProbability:
			return model.VerdictHighProbabilityAI
		case model.AISignsOfEditing:
			return model.VerdictManipulation
		}
	}
	return model.VerdictAnalysisComplete
}

func summarize(modules []model.ModuleResult) model.ReportSummary {
	var s model.ReportSummary
	for i := range modules {
		m := &modules[i]
		switch {
		case m.AIDetection != nil:
			s.AIDetection = fmt.Sprintf("AI genesis score %d/100 (%s confidence): %s",
				m.AIDetection.Score, m.AIDetection.Confidence, m.AIDetection.Verdict)
		case m.Provenance != nil:
			s.Provenance = fmt.Sprintf("%d matching sources found: %s",
				m.Provenance.MatchCount, m.Provenance.Verdict)
		case m.Metadata != nil:
			s.Metadata = fmt.Sprintf("%d metadata warnings: %s",
				len(m.Metadata.Warnings), m.Metadata.Verdict)
		case m.Safety != nil:
			s.Safety = fmt.Sprintf("%d risk flags: %s",
				len(m.Safety.Flags), m.Safety.Verdict)
		}
	}
	return s
}

// persist writes the sanitized projection. Never raw bytes, and never fatal.
func (v *Verifier) persist(ctx context.Context, report *model.VerificationReport) {
	if v.sink == nil {
		return
	}
	rec := model.SanitizeReport(report)
	if err := v.sink.SaveReport(ctx, rec); err != nil {
		logger.Warn(ctx, "failed to persist verification record",
			"report_id", report.ID,
			"error", err,
		)
	}
}

// Guardrails returns the fixed ethical-disclosure block attached to every
// report.
func Guardrails() model.EthicalGuardrails {
	return model.EthicalGuardrails{
		PrivacyNotice:          "Submitted content is analyzed in memory only and is not retained after the request completes.",
		UncertaintyPrinciple:   "All results are probabilistic evidence, not proof. No automated check can establish authenticity with certainty.",
		TransparencyCommitment: "Every module's individual result, including failures, is reported so conclusions can be independently weighed.",
	}
}

// Wipe zeroes a buffer in place. This minimizes the retained lifetime of
// sensitive content; it is not a security boundary in a garbage-collected
// runtime.
func Wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
