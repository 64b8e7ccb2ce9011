package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/errs"
	"github.com/GregMSThompson/vending-backend/internal/metrics"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type aiService struct {
	vertex   vertexClient
	model    string
	clockNow func() time.Time
}

func NewAIService(vertex vertexClient, model string) *aiService {
	return &aiService{
		vertex:   vertex,
		model:    model,
		clockNow: time.Now,
	}
}

// Answer forwards the question verbatim. There is no retry; a failed call
// surfaces as an ExternalServiceError.
func (s *aiService) Answer(ctx context.Context, question string) (dto.Answer, error) {
	log := logger.FromContext(ctx)

	start := s.clockNow()
	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		Model:       s.model,
		UserMessage: question,
	})
	metrics.ObserveAI(s.model, err, s.clockNow().Sub(start))
	if err != nil {
		log.Error("ai generation failed", "model", s.model, "error", err)
		return dto.Answer{}, errs.NewExternalServiceError("gemini", "AI processing failed", err)
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}

	log.Info("ai answer generated", "model", model, "finish_reason", resp.FinishReason, "answer_chars", len(resp.Text))
	return dto.Answer{Text: resp.Text, Model: model}, nil
}
