package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

type stubEvaluator struct {
	resp *entity.EvaluateAnswerResponse
	err  error

	gotReq *entity.EvaluateAnswerRequest
}

func (s *stubEvaluator) EvaluateAnswer(ctx context.Context, req *entity.EvaluateAnswerRequest) (*entity.EvaluateAnswerResponse, error) {
	s.gotReq = req
	return s.resp, s.err
}

func boolPtr(b bool) *bool { return &b }

func TestPolicyUsesServiceVerdict(t *testing.T) {
	stub := &stubEvaluator{
		resp: &entity.EvaluateAnswerResponse{
			IsWeak:           boolPtr(false),
			HasSpecifics:     boolPtr(true),
			HasRealExample:   boolPtr(true),
			CoversCorePoints: boolPtr(true),
			Reasoning:        "solid practical answer",
		},
	}
	policy := NewPolicy(stub, MustNewHeuristic(DefaultLexicon()), zap.NewNop())

	got := policy.Evaluate(context.Background(), Input{
		Answer:   "short",
		Question: entity.Question{ID: "q1", Difficulty: entity.DifficultySenior},
	})

	if got.IsWeak || !got.CoversCorePoints {
		t.Fatalf("verdict = %+v, want the service verdict applied", got)
	}
	if got.Reasoning != "solid practical answer" {
		t.Errorf("Reasoning = %q, want service reasoning", got.Reasoning)
	}
}

func TestPolicyFallsBackOnServiceError(t *testing.T) {
	stub := &stubEvaluator{err: errors.New("boom")}
	policy := NewPolicy(stub, MustNewHeuristic(DefaultLexicon()), zap.NewNop())

	got := policy.Evaluate(context.Background(), Input{
		Answer:   "I dunno.",
		Question: entity.Question{ID: "q1", Difficulty: entity.DifficultyIntermediate},
	})

	if !got.IsWeak {
		t.Fatalf("IsWeak = false, want heuristic reject after service failure")
	}
	if got.Reasoning != "Explicit statement of inability to answer" {
		t.Errorf("Reasoning = %q, want heuristic reasoning", got.Reasoning)
	}
}

func TestPolicyFallsBackOnMalformedVerdict(t *testing.T) {
	stub := &stubEvaluator{
		resp: &entity.EvaluateAnswerResponse{
			IsWeak:    boolPtr(true),
			Reasoning: "missing the other booleans",
		},
	}
	policy := NewPolicy(stub, MustNewHeuristic(DefaultLexicon()), zap.NewNop())

	got := policy.Evaluate(context.Background(), Input{
		Answer:   "Hooks are nice.",
		Question: entity.Question{ID: "q1", Difficulty: entity.DifficultyIntermediate},
	})

	if got.Reasoning != "Response too brief to demonstrate knowledge" {
		t.Errorf("Reasoning = %q, want heuristic reasoning on malformed reply", got.Reasoning)
	}
}

func TestPolicySendsRecentResponseSignals(t *testing.T) {
	stub := &stubEvaluator{
		resp: &entity.EvaluateAnswerResponse{
			IsWeak:           boolPtr(false),
			HasSpecifics:     boolPtr(true),
			HasRealExample:   boolPtr(false),
			CoversCorePoints: boolPtr(true),
		},
	}
	policy := NewPolicy(stub, MustNewHeuristic(DefaultLexicon()), zap.NewNop())

	recent := []entity.Response{
		{QuestionID: "a", Evaluation: entity.Evaluation{IsWeak: true}},
		{QuestionID: "b", Evaluation: entity.Evaluation{HasSpecifics: true, CoversCorePoints: true}},
	}
	policy.Evaluate(context.Background(), Input{
		Answer:          "  padded answer  ",
		Question:        entity.Question{ID: "q1", Difficulty: entity.DifficultySenior},
		RecentResponses: recent,
	})

	if stub.gotReq == nil {
		t.Fatal("connector never called")
	}
	if stub.gotReq.Answer != "padded answer" {
		t.Errorf("Answer = %q, want trimmed", stub.gotReq.Answer)
	}
	if len(stub.gotReq.PreviousResponses) != 2 {
		t.Fatalf("PreviousResponses len = %d, want 2", len(stub.gotReq.PreviousResponses))
	}
	if !stub.gotReq.PreviousResponses[0].IsWeak || !stub.gotReq.PreviousResponses[1].HasSpecifics {
		t.Errorf("signals not mapped: %+v", stub.gotReq.PreviousResponses)
	}
}

func TestPolicyWithoutConnectorUsesHeuristic(t *testing.T) {
	policy := NewPolicy(nil, MustNewHeuristic(DefaultLexicon()), zap.NewNop())

	got := policy.Evaluate(context.Background(), Input{
		Answer:   "I dunno.",
		Question: entity.Question{Difficulty: entity.DifficultyIntermediate},
	})
	if !got.IsWeak {
		t.Errorf("IsWeak = false, want heuristic verdict with nil connector")
	}
}
