package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeyBatlle1/tos-salad/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// InferenceService wraps the multimodal model behind the verifier's
// ModelClient interface.
type InferenceService struct {
	model llms.Model
}

// NewInferenceService builds the OpenAI-compatible client from config.
func NewInferenceService(cfg *config.InferenceConfig) (*InferenceService, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.APIURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.APIURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	return &InferenceService{model: client}, nil
}

// AnalyzeImage sends the image plus prompt to the model and returns its
// raw text response. Callers must treat the response as untrusted.
func (s *InferenceService) AnalyzeImage(ctx context.Context, prompt string, mimeType string, image []byte) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, image),
				llms.TextPart(prompt),
			},
		},
	}

	resp, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(0.1))
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("inference response contained no choices")
	}
	return resp.Choices[0].Content, nil
}
