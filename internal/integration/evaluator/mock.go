package evaluator

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

// MockConnector stands in for the evaluation service in local runs. It
// applies a crude length rule so both verdicts are reachable from the UI.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) EvaluateAnswer(ctx context.Context, req *entity.EvaluateAnswerRequest) (
	*entity.EvaluateAnswerResponse, error,
) {
	ctxzap.Info(ctx, "[MOCK] evaluating answer", zap.Int("answer_length", len(req.Answer)))

	substantial := len(strings.TrimSpace(req.Answer)) >= 120
	weak := !substantial
	reasoning := "Detailed answer with concrete grounding (MOCK)"
	if weak {
		reasoning = "Answer lacks enough detail to judge depth (MOCK)"
	}

	resp := &entity.EvaluateAnswerResponse{
		IsWeak:           boolPtr(weak),
		HasSpecifics:     boolPtr(substantial),
		HasRealExample:   boolPtr(substantial),
		CoversCorePoints: boolPtr(substantial),
		Reasoning:        reasoning,
	}

	ctxzap.Info(ctx, "[MOCK] answer evaluated", zap.Bool("is_weak", weak))
	return resp, nil
}

func boolPtr(b bool) *bool { return &b }
