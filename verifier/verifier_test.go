package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/HeyBatlle1/tos-salad/model"
)

type fakeLookup struct {
	matches []model.ProvenanceMatch
	err     error
}

func (f *fakeLookup) FindMatches(context.Context, string) ([]model.ProvenanceMatch, error) {
	return f.matches, f.err
}

type fakeSink struct {
	mu      sync.Mutex
	records []*model.VerificationRecord
	err     error
}

func (f *fakeSink) SaveReport(_ context.Context, rec *model.VerificationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return f.err
}

// authenticModel always judges the image authentic.
func authenticModel() *fakeModel {
	return &fakeModel{response: `{"ai_genesis_score": 5, "confidence": "high", "reasoning": "organic", "verdict": "likely_authentic"}`}
}

func TestVerifyFileHasFourDistinctModules(t *testing.T) {
	v := New(authenticModel(), NoopLookup{}, nil)

	report := v.VerifyFile(context.Background(), "photo.png", onePixelPNG(t))

	if len(report.Modules) != 4 {
		t.Fatalf("Expected exactly 4 module results, got %d", len(report.Modules))
	}

	seen := make(map[model.ModuleName]bool)
	for _, m := range report.Modules {
		if seen[m.Module] {
			t.Errorf("Duplicate module %s", m.Module)
		}
		seen[m.Module] = true
	}
	for _, name := range []model.ModuleName{
		model.ModuleAIDetection, model.ModuleProvenance,
		model.ModuleMetadata, model.ModuleSafety,
	} {
		if !seen[name] {
			t.Errorf("Missing module %s", name)
		}
	}
}

func TestVerifyURLHasSingleSafetyModule(t *testing.T) {
	v := New(nil, nil, nil)

	report := v.VerifyURL(context.Background(), "https://example.com/terms")

	if len(report.Modules) != 1 {
		t.Fatalf("Expected exactly 1 module result, got %d", len(report.Modules))
	}
	if report.Modules[0].Module != model.ModuleSafety {
		t.Errorf("Expected SAFETY_SCAN, got %s", report.Modules[0].Module)
	}
	if report.InputType != model.InputURL {
		t.Errorf("Expected url input type, got %s", report.InputType)
	}
}

func TestSafetyWarningOverridesCleanAIResult(t *testing.T) {
	// AI detection reports likely_authentic, but the file carries a script
	// marker. The security verdict must win.
	v := New(authenticModel(), NoopLookup{}, nil)

	data := append(onePixelPNG(t), []byte("<script>alert(1)</script>")...)
	report := v.VerifyFile(context.Background(), "photo.png", data)

	if report.OverallVerdict != model.VerdictSecurityRisk {
		t.Errorf("Expected SECURITY_RISK_DETECTED, got %s", report.OverallVerdict)
	}
}

func TestHighProbabilityAIVerdict(t *testing.T) {
	fm := &fakeModel{response: `{"ai_genesis_score": 95, "confidence": "high", "verdict": "high_probability_ai"}`}
	v := New(fm, NoopLookup{}, nil)

	report := v.VerifyFile(context.Background(), "photo.png", onePixelPNG(t))

	if report.OverallVerdict != model.VerdictHighProbabilityAI {
		t.Errorf("Expected HIGH_PROBABILITY_AI_GENERATED, got %s", report.OverallVerdict)
	}
}

func TestModelFailureDegradesToIncompleteReport(t *testing.T) {
	fm := &fakeModel{err: errors.New("timeout")}
	v := New(fm, NoopLookup{}, nil)

	report := v.VerifyFile(context.Background(), "photo.png", onePixelPNG(t))

	if len(report.Modules) != 4 {
		t.Fatalf("A failed module must not suppress the others, got %d modules", len(report.Modules))
	}
	if report.OverallVerdict != model.VerdictAnalysisIncomplete {
		t.Errorf("Expected ANALYSIS_INCOMPLETE, got %s", report.OverallVerdict)
	}

	for _, m := range report.Modules {
		if m.Module == model.ModuleAIDetection && m.AIDetection.Verdict != model.AIAnalysisFailed {
			t.Errorf("Expected analysis_failed, got %s", m.AIDetection.Verdict)
		}
	}
}

func TestCleanImageScenario(t *testing.T) {
	// 1x1 transparent PNG, no EXIF, benign filename.
	v := New(authenticModel(), NoopLookup{}, nil)

	report := v.VerifyFile(context.Background(), "pixel.png", onePixelPNG(t))

	for _, m := range report.Modules {
		switch m.Module {
		case model.ModuleMetadata:
			if m.Metadata.Verdict != model.MetadataNone {
				t.Errorf("Expected no_metadata, got %s", m.Metadata.Verdict)
			}
		case model.ModuleSafety:
			if m.Safety.Verdict != model.SafetySafe {
				t.Errorf("Expected SAFE, got %s", m.Safety.Verdict)
			}
		}
	}
	if report.RiskLevel != model.RiskLow {
		t.Errorf("Expected LOW risk, got %s", report.RiskLevel)
	}
	if report.OverallVerdict != model.VerdictAnalysisComplete {
		t.Errorf("Expected ANALYSIS_COMPLETE, got %s", report.OverallVerdict)
	}
}

func TestLookupFailureIsSoft(t *testing.T) {
	v := New(authenticModel(), &fakeLookup{err: errors.New("service down")}, nil)

	report := v.VerifyFile(context.Background(), "photo.png", onePixelPNG(t))

	for _, m := range report.Modules {
		if m.Module == model.ModuleProvenance {
			if m.Error != "" {
				t.Errorf("Lookup unavailability must degrade softly, got error %q", m.Error)
			}
			if m.Provenance.Verdict != model.ProvenanceNoMatches {
				t.Errorf("Expected no_matches_found, got %s", m.Provenance.Verdict)
			}
		}
	}
}

func TestProvenanceMatchesRaiseVerdict(t *testing.T) {
	matches := make([]model.ProvenanceMatch, 6)
	for i := range matches {
		matches[i] = model.ProvenanceMatch{URL: fmt.Sprintf("https://site%d.example.com", i), Similarity: 0.97}
	}
	v := New(authenticModel(), &fakeLookup{matches: matches}, nil)

	report := v.VerifyFile(context.Background(), "photo.png", onePixelPNG(t))

	for _, m := range report.Modules {
		if m.Module == model.ModuleProvenance {
			if m.Provenance.Verdict != model.ProvenanceWidelyDistributed {
				t.Errorf("Expected widely_distributed, got %s", m.Provenance.Verdict)
			}
			if m.Provenance.MatchCount != 6 {
				t.Errorf("Expected 6 matches, got %d", m.Provenance.MatchCount)
			}
		}
	}
}

func TestUnknownInputTypeFails(t *testing.T) {
	v := New(nil, nil, nil)

	report := v.Verify(context.Background(), Input{Type: "carrier-pigeon"})

	if report.OverallVerdict != model.VerdictAnalysisFailed {
		t.Errorf("Expected ANALYSIS_FAILED, got %s", report.OverallVerdict)
	}
	if report.Error == "" {
		t.Error("Expected an error string on the report")
	}
}

func TestGuardrailsAlwaysAttached(t *testing.T) {
	v := New(nil, nil, nil)

	reports := []*model.VerificationReport{
		v.VerifyURL(context.Background(), "https://example.com"),
		v.VerifyFile(context.Background(), "x.bin", []byte("junk")),
		v.Verify(context.Background(), Input{Type: "bogus"}),
	}

	for i, r := range reports {
		if r.EthicalGuardrails.PrivacyNotice == "" ||
			r.EthicalGuardrails.UncertaintyPrinciple == "" ||
			r.EthicalGuardrails.TransparencyCommitment == "" {
			t.Errorf("Report %d missing ethical guardrails", i)
		}
	}
}

func TestSinkReceivesSanitizedRecord(t *testing.T) {
	sink := &fakeSink{}
	v := New(authenticModel(), NoopLookup{}, sink)

	data := onePixelPNG(t)
	report := v.VerifyFile(context.Background(), "photo.png", data)

	if len(sink.records) != 1 {
		t.Fatalf("Expected 1 persisted record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if rec.ReportID != report.ID {
		t.Error("Record must reference the report")
	}
	if rec.ModuleCount != 4 {
		t.Errorf("Expected module count 4, got %d", rec.ModuleCount)
	}
	sum := sha256.Sum256(data)
	if rec.ContentHash != hex.EncodeToString(sum[:]) {
		t.Error("Expected content hash in sanitized record")
	}
}

func TestSinkFailureIsNonFatal(t *testing.T) {
	sink := &fakeSink{err: errors.New("db down")}
	v := New(authenticModel(), NoopLookup{}, sink)

	report := v.VerifyFile(context.Background(), "photo.png", onePixelPNG(t))

	if report.OverallVerdict != model.VerdictAnalysisComplete {
		t.Errorf("Persistence failure must not fail the call, got %s", report.OverallVerdict)
	}
}

func TestConcurrentVerifyNoCrossContamination(t *testing.T) {
	// The model echoes a score derived from the input size so each
	// report's AI result is traceable to its own input.
	echo := &echoModel{}
	v := New(echo, NoopLookup{}, nil)

	inputs := make([][]byte, 4)
	for i := range inputs {
		inputs[i] = encodePNG(t, gradientImage(16+8*i))
	}

	reports := make([]*model.VerificationReport, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i] = v.VerifyFile(context.Background(), fmt.Sprintf("img-%d.png", i), inputs[i])
		}()
	}
	wg.Wait()

	for i, r := range reports {
		wantHash := sha256.Sum256(inputs[i])
		wantScore := len(inputs[i]) % 100
		for _, m := range r.Modules {
			switch m.Module {
			case model.ModuleMetadata:
				if m.Metadata.ContentHash != hex.EncodeToString(wantHash[:]) {
					t.Errorf("Report %d carries another input's content hash", i)
				}
			case model.ModuleAIDetection:
				if m.AIDetection.Score != wantScore {
					t.Errorf("Report %d carries another input's AI score: got %d, want %d",
						i, m.AIDetection.Score, wantScore)
				}
			}
		}
	}
}

// echoModel derives its judgment from the submitted image bytes.
type echoModel struct{}

func (echoModel) AnalyzeImage(_ context.Context, _ string, _ string, image []byte) (string, error) {
	return fmt.Sprintf(`{"ai_genesis_score": %d, "confidence": "medium", "verdict": "likely_authentic"}`,
		len(image)%100), nil
}

func TestWipe(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	Wipe(buf)
	for i, b := range buf {
		if b != 0 {
			t.Errorf("Byte %d not zeroed", i)
		}
	}
}
