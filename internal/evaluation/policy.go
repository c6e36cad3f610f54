package evaluation

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

// EvaluatorConnector delegates evaluation to the external service.
type EvaluatorConnector interface {
	EvaluateAnswer(ctx context.Context, req *entity.EvaluateAnswerRequest) (*entity.EvaluateAnswerResponse, error)
}

// Input is everything the policy needs to judge one answer.
type Input struct {
	Answer   string
	Question entity.Question

	// RecentResponses carries up to the last 3 responses so the external
	// evaluator can calibrate leniency against the candidate's run so far.
	RecentResponses []entity.Response
}

// Policy is the two-tier evaluation policy: delegate to the external
// evaluator, degrade to the offline heuristic on any failure. Evaluate
// never returns an error; the state machine must always receive a verdict.
type Policy struct {
	connector EvaluatorConnector
	heuristic *Heuristic
	logger    *zap.Logger
}

func NewPolicy(connector EvaluatorConnector, heuristic *Heuristic, logger *zap.Logger) *Policy {
	return &Policy{
		connector: connector,
		heuristic: heuristic,
		logger:    logger,
	}
}

func (p *Policy) Evaluate(ctx context.Context, in Input) entity.Evaluation {
	if p.connector != nil {
		if verdict, ok := p.evaluateRemote(ctx, in); ok {
			return verdict
		}
	}

	ctxzap.Info(ctx, "using heuristic evaluation tier",
		zap.String("question_id", in.Question.ID),
		zap.String("difficulty", string(in.Question.Difficulty)),
	)
	return p.heuristic.Evaluate(in.Answer, in.Question.Difficulty)
}

func (p *Policy) evaluateRemote(ctx context.Context, in Input) (entity.Evaluation, bool) {
	signals := make([]entity.ResponseSignal, 0, len(in.RecentResponses))
	for _, r := range in.RecentResponses {
		signals = append(signals, entity.ResponseSignal{
			IsWeak:           r.Evaluation.IsWeak,
			HasSpecifics:     r.Evaluation.HasSpecifics,
			CoversCorePoints: r.Evaluation.CoversCorePoints,
		})
	}

	req := &entity.EvaluateAnswerRequest{
		Answer:                 strings.TrimSpace(in.Answer),
		QuestionDifficulty:     in.Question.Difficulty,
		QuestionText:           in.Question.Text,
		ExpectedAnswerElements: in.Question.ExpectedAnswerElements,
		WeakAnswerIndicators:   in.Question.WeakAnswerIndicators,
		PreviousResponses:      signals,
	}

	resp, err := p.connector.EvaluateAnswer(ctx, req)
	if err != nil {
		ctxzap.Warn(ctx, "evaluation service failed, falling back to heuristic",
			zap.Error(err),
			zap.String("question_id", in.Question.ID),
		)
		return entity.Evaluation{}, false
	}

	// A reply missing any of the four booleans is malformed and triggers
	// the fallback tier, same as a transport failure.
	if resp.IsWeak == nil || resp.HasSpecifics == nil || resp.HasRealExample == nil || resp.CoversCorePoints == nil {
		ctxzap.Warn(ctx, "evaluation service returned malformed verdict, falling back to heuristic",
			zap.String("question_id", in.Question.ID),
		)
		return entity.Evaluation{}, false
	}

	return entity.Evaluation{
		IsWeak:           *resp.IsWeak,
		HasSpecifics:     *resp.HasSpecifics,
		HasRealExample:   *resp.HasRealExample,
		CoversCorePoints: *resp.CoversCorePoints,
		Reasoning:        resp.Reasoning,
	}, true
}
