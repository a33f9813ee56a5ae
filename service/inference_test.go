package service

import (
	"context"
	"errors"
	"testing"

	"github.com/HeyBatlle1/tos-salad/config"
	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	response string
	err      error
	lastMsgs []llms.MessageContent
}

func (s *stubModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	s.lastMsgs = messages
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return s.response, s.err
}

func TestNewInferenceService(t *testing.T) {
	cfg := &config.InferenceConfig{
		APIURL: "https://api.openai.test/v1",
		APIKey: "test-key",
		Model:  "gpt-4o-mini",
	}

	svc, err := NewInferenceService(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("Expected non-nil service")
	}
}

func TestAnalyzeImage(t *testing.T) {
	stub := &stubModel{response: `{"ai_genesis_score": 30}`}
	svc := &InferenceService{model: stub}

	resp, err := svc.AnalyzeImage(context.Background(), "describe this", "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp != `{"ai_genesis_score": 30}` {
		t.Errorf("Unexpected response %s", resp)
	}

	if len(stub.lastMsgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(stub.lastMsgs))
	}
	if len(stub.lastMsgs[0].Parts) != 2 {
		t.Errorf("Expected image and prompt parts, got %d", len(stub.lastMsgs[0].Parts))
	}
}

func TestAnalyzeImageError(t *testing.T) {
	svc := &InferenceService{model: &stubModel{err: errors.New("upstream down")}}

	if _, err := svc.AnalyzeImage(context.Background(), "p", "image/png", nil); err == nil {
		t.Error("Expected error from failing model")
	}
}

func TestAnalyzeImageNoChoices(t *testing.T) {
	svc := &InferenceService{model: &emptyModel{}}

	if _, err := svc.AnalyzeImage(context.Background(), "p", "image/png", nil); err == nil {
		t.Error("Expected error for empty response")
	}
}

type emptyModel struct{}

func (emptyModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (emptyModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", nil
}
