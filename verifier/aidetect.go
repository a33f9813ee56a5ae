package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/HeyBatlle1/tos-salad/model"
)

// imageTraits is the technical metadata extracted before the model call,
// supplied to the model as context alongside the image.
type imageTraits struct {
	Format        string
	Width         int
	Height        int
	Channels      int
	MeanLuminance float64
}

// modelJudgment is the JSON object we expect somewhere inside the model's
// free-text response.
type modelJudgment struct {
	Score      int      `json:"ai_genesis_score"`
	Confidence string   `json:"confidence"`
	Artifacts  []string `json:"detected_artifacts"`
	Reasoning  string   `json:"reasoning"`
	Verdict    string   `json:"verdict"`
}

// detectAIGeneration extracts basic technical metadata from the image and
// delegates semantic judgment to the multimodal model. Hard failures (bad
// image, missing client, API error) surface as analysis_failed; an
// unparseable model response degrades to a neutral low-confidence result.
func (v *Verifier) detectAIGeneration(ctx context.Context, filename string, data []byte) model.ModuleResult {
	res := model.ModuleResult{Module: model.ModuleAIDetection}

	traits, err := inspectImage(data)
	if err != nil {
		res.Error = fmt.Sprintf("image inspection failed: %v", err)
		res.AIDetection = &model.AIDetectionResult{
			Confidence: model.ConfidenceLow,
			Verdict:    model.AIAnalysisFailed,
			Reasoning:  "input could not be decoded as an image",
		}
		return res
	}

	if v.model == nil {
		res.Error = "inference client not configured"
		res.AIDetection = &model.AIDetectionResult{
			Confidence: model.ConfidenceLow,
			Verdict:    model.AIAnalysisFailed,
			Format:     traits.Format,
			Width:      traits.Width,
			Height:     traits.Height,
		}
		return res
	}

	callCtx, cancel := context.WithTimeout(ctx, v.modelTimeout)
	defer cancel()

	text, err := v.model.AnalyzeImage(callCtx, buildDetectionPrompt(filename, traits), mimeFor(traits.Format), data)
	if err != nil {
		res.Error = fmt.Sprintf("inference call failed: %v", err)
		res.AIDetection = &model.AIDetectionResult{
			Confidence: model.ConfidenceLow,
			Verdict:    model.AIAnalysisFailed,
			Format:     traits.Format,
			Width:      traits.Width,
			Height:     traits.Height,
		}
		return res
	}

	judgment := parseModelResponse(text)
	res.AIDetection = &model.AIDetectionResult{
		Score:      judgment.Score,
		Confidence: judgment.Confidence,
		Artifacts:  judgment.Artifacts,
		Reasoning:  judgment.Reasoning,
		Verdict:    model.AIVerdict(judgment.Verdict),
		Format:     traits.Format,
		Width:      traits.Width,
		Height:     traits.Height,
	}
	return res
}

// inspectImage decodes the buffer and computes basic traits. The full
// decode doubles as validation that the input is a real image.
func inspectImage(data []byte) (*imageTraits, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty buffer")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	traits := &imageTraits{
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: 4,
	}

	// Mean luminance over a sparse sample keeps large images cheap.
	step := bounds.Dx() / 64
	if step < 1 {
		step = 1
	}
	var sum, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			n++
		}
	}
	if n > 0 {
		traits.MeanLuminance = sum / n
	}
	return traits, nil
}

func buildDetectionPrompt(filename string, traits *imageTraits) string {
	var b strings.Builder
	b.WriteString("Assess how likely this image is to be AI-generated or digitally manipulated.\n")
	fmt.Fprintf(&b, "Technical context: filename=%q format=%s dimensions=%dx%d mean_luminance=%.1f\n",
		filename, traits.Format, traits.Width, traits.Height, traits.MeanLuminance)
	b.WriteString("Respond with a JSON object with these fields:\n")
	b.WriteString(`{"ai_genesis_score": 0-100, "confidence": "low|medium|high", "detected_artifacts": [...], "reasoning": "...", "verdict": "likely_authentic|signs_of_editing|high_probability_ai"}`)
	return b.String()
}

func mimeFor(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// parseModelResponse locates a JSON object inside untrusted model output
// and validates it. Anything unparseable degrades to a neutral
// low-confidence judgment rather than an error.
func parseModelResponse(text string) modelJudgment {
	neutral := modelJudgment{
		Score:      50,
		Confidence: model.ConfidenceLow,
		Reasoning:  "model response did not contain a parseable judgment; treating as inconclusive",
		Verdict:    string(model.AILikelyAuthentic),
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return neutral
	}

	var j modelJudgment
	if err := json.Unmarshal([]byte(text[start:end+1]), &j); err != nil {
		return neutral
	}

	if j.Score < 0 {
		j.Score = 0
	}
	if j.Score > 100 {
		j.Score = 100
	}
	switch j.Confidence {
	case model.ConfidenceLow, model.ConfidenceMedium, model.ConfidenceHigh:
	default:
		j.Confidence = model.ConfidenceLow
	}
	switch model.AIVerdict(j.Verdict) {
	case model.AILikelyAuthentic, model.AISignsOfEditing, model.AIHighProbability:
	default:
		return neutral
	}
	return j
}
