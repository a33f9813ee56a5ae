package verifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HeyBatlle1/tos-salad/model"
)

// fakeModel scripts the multimodal client for tests.
type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) AnalyzeImage(_ context.Context, prompt string, _ string, _ []byte) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestDetectAIGenerationParsesJudgment(t *testing.T) {
	fm := &fakeModel{response: `Here is my assessment:
{"ai_genesis_score": 87, "confidence": "high", "detected_artifacts": ["smoothed skin texture"], "reasoning": "telltale diffusion artifacts", "verdict": "high_probability_ai"}
Hope that helps!`}
	v := New(fm, nil, nil)

	res := v.detectAIGeneration(context.Background(), "photo.png", onePixelPNG(t))

	if res.Error != "" {
		t.Fatalf("Unexpected error: %s", res.Error)
	}
	ai := res.AIDetection
	if ai == nil {
		t.Fatal("Expected AI detection result")
	}
	if ai.Score != 87 {
		t.Errorf("Expected score 87, got %d", ai.Score)
	}
	if ai.Verdict != model.AIHighProbability {
		t.Errorf("Expected high_probability_ai, got %s", ai.Verdict)
	}
	if ai.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", ai.Confidence)
	}
	if len(fm.prompts) != 1 || !strings.Contains(fm.prompts[0], "format=png") {
		t.Error("Expected prompt to carry extracted technical metadata")
	}
}

func TestDetectAIGenerationUnparseableResponse(t *testing.T) {
	// Unstructured output degrades to a neutral low-confidence result.
	fm := &fakeModel{response: "I think this image looks fine to me, no JSON for you."}
	v := New(fm, nil, nil)

	res := v.detectAIGeneration(context.Background(), "photo.png", onePixelPNG(t))

	if res.Error != "" {
		t.Fatalf("Parse failure must not be a module failure, got %s", res.Error)
	}
	ai := res.AIDetection
	if ai.Score != 50 {
		t.Errorf("Expected neutral score 50, got %d", ai.Score)
	}
	if ai.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", ai.Confidence)
	}
	if ai.Verdict != model.AILikelyAuthentic {
		t.Errorf("Expected neutral verdict, got %s", ai.Verdict)
	}
}

func TestDetectAIGenerationModelError(t *testing.T) {
	fm := &fakeModel{err: errors.New("inference service unavailable")}
	v := New(fm, nil, nil)

	res := v.detectAIGeneration(context.Background(), "photo.png", onePixelPNG(t))

	if res.AIDetection.Verdict != model.AIAnalysisFailed {
		t.Errorf("Expected analysis_failed, got %s", res.AIDetection.Verdict)
	}
	if res.Error == "" {
		t.Error("Expected module-local error")
	}
	if !res.Failed() {
		t.Error("Expected module to report failure")
	}
}

func TestDetectAIGenerationBadImage(t *testing.T) {
	fm := &fakeModel{response: "{}"}
	v := New(fm, nil, nil)

	res := v.detectAIGeneration(context.Background(), "junk.bin", []byte("not an image"))

	if res.AIDetection.Verdict != model.AIAnalysisFailed {
		t.Errorf("Expected analysis_failed for undecodable input, got %s", res.AIDetection.Verdict)
	}
	if len(fm.prompts) != 0 {
		t.Error("Model must not be called when the image cannot be decoded")
	}
}

func TestDetectAIGenerationNilClient(t *testing.T) {
	v := New(nil, nil, nil)
	res := v.detectAIGeneration(context.Background(), "photo.png", onePixelPNG(t))
	if res.AIDetection.Verdict != model.AIAnalysisFailed {
		t.Errorf("Expected analysis_failed without a client, got %s", res.AIDetection.Verdict)
	}
}

func TestParseModelResponse(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		expectedScore   int
		expectedVerdict string
	}{
		{
			name:            "clean JSON",
			text:            `{"ai_genesis_score": 20, "confidence": "medium", "reasoning": "looks organic", "verdict": "likely_authentic"}`,
			expectedScore:   20,
			expectedVerdict: "likely_authentic",
		},
		{
			name:            "JSON buried in prose",
			text:            "Sure! {\"ai_genesis_score\": 65, \"confidence\": \"medium\", \"verdict\": \"signs_of_editing\"} as requested.",
			expectedScore:   65,
			expectedVerdict: "signs_of_editing",
		},
		{
			name:            "score clamped",
			text:            `{"ai_genesis_score": 250, "confidence": "high", "verdict": "high_probability_ai"}`,
			expectedScore:   100,
			expectedVerdict: "high_probability_ai",
		},
		{
			name:            "unknown verdict falls back to neutral",
			text:            `{"ai_genesis_score": 10, "confidence": "high", "verdict": "definitely_fake"}`,
			expectedScore:   50,
			expectedVerdict: "likely_authentic",
		},
		{
			name:            "no JSON at all",
			text:            "no structured data here",
			expectedScore:   50,
			expectedVerdict: "likely_authentic",
		},
		{
			name:            "malformed JSON",
			text:            `{"ai_genesis_score": oops}`,
			expectedScore:   50,
			expectedVerdict: "likely_authentic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := parseModelResponse(tt.text)
			if j.Score != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, j.Score)
			}
			if j.Verdict != tt.expectedVerdict {
				t.Errorf("Expected verdict %s, got %s", tt.expectedVerdict, j.Verdict)
			}
		})
	}
}

func TestInspectImage(t *testing.T) {
	traits, err := inspectImage(encodePNG(t, gradientImage(64)))
	if err != nil {
		t.Fatalf("Failed to inspect: %v", err)
	}
	if traits.Format != "png" {
		t.Errorf("Expected png format, got %s", traits.Format)
	}
	if traits.Width != 64 || traits.Height != 64 {
		t.Errorf("Expected 64x64, got %dx%d", traits.Width, traits.Height)
	}
	if traits.MeanLuminance <= 0 || traits.MeanLuminance >= 255 {
		t.Errorf("Implausible mean luminance %f", traits.MeanLuminance)
	}
}

func TestInspectImageEmptyBuffer(t *testing.T) {
	if _, err := inspectImage(nil); err == nil {
		t.Error("Expected error for empty buffer")
	}
}
