package generator

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

// MockConnector stands in for the generation service in local runs.
type MockConnector struct {
	logger *zap.Logger
	next   atomic.Uint64
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

var mockQuestions = []entity.GenerateQuestionResponse{
	{
		Text:       "You notice a list of 500 rows re-renders on every keystroke in a search box. Walk me through how you would diagnose and fix it.",
		FollowUp:   "Which profiler output told you the memoization was the problem, and what did you measure after the fix?",
		Category:   "Performance Optimization",
		Difficulty: entity.DifficultySenior,
		StyleTag:   "debugging",
	},
	{
		Text:       "Compare lifting state up against introducing a context provider for sharing form state across sibling components.",
		FollowUp:   "Describe a project where you picked one over the other. What made you regret or confirm the choice?",
		Category:   "State Management",
		Difficulty: entity.DifficultyIntermediate,
		StyleTag:   "comparison",
	},
	{
		Text:       "You are reviewing a pull request that adds a useEffect with a missing dependency and an eslint-disable comment. How do you respond?",
		FollowUp:   "Tell me about a real bug that shipped because of a dependency array problem. How was it caught?",
		Category:   "React Hooks",
		Difficulty: entity.DifficultySenior,
		StyleTag:   "code-review",
	},
	{
		Text:       "Your app bundle grew past 2 MB and the landing page takes four seconds on 3G. Outline your plan for the next sprint.",
		FollowUp:   "What was the largest single saving you ever achieved on bundle size, and which tool found it?",
		Category:   "Performance Optimization",
		Difficulty: entity.DifficultyIntermediate,
		StyleTag:   "scenario-based",
	},
}

// GenerateQuestion cycles through canned questions so repeated calls stay
// varied without talking to the real service.
func (m *MockConnector) GenerateQuestion(ctx context.Context, req *entity.GenerateQuestionRequest) (
	*entity.GenerateQuestionResponse, error,
) {
	ctxzap.Info(ctx, "[MOCK] generating question",
		zap.String("difficulty", string(req.Difficulty)),
		zap.Strings("weak_areas", req.WeakAreas),
	)

	idx := (m.next.Add(1) - 1) % uint64(len(mockQuestions))
	resp := mockQuestions[idx]
	resp.ID = "mock-" + uuid.New().String()

	ctxzap.Info(ctx, "[MOCK] question generated", zap.String("category", resp.Category))
	return &resp, nil
}

// GenerateFollowUp returns a canned pressure follow-up.
func (m *MockConnector) GenerateFollowUp(ctx context.Context, req *entity.GenerateFollowUpRequest) (
	*entity.GenerateFollowUpResponse, error,
) {
	ctxzap.Info(ctx, "[MOCK] generating follow-up")

	resp := &entity.GenerateFollowUpResponse{
		FollowUpQuestion:    "That sounds theoretical. Give me one concrete example from a project you shipped, including what went wrong first.",
		FocusArea:           "practical grounding",
		ExpectedImprovement: "a specific project, a named tool, or a measured outcome",
	}

	ctxzap.Info(ctx, "[MOCK] follow-up generated")
	return resp, nil
}
