package question

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

type stubGenerator struct {
	resp *entity.GenerateQuestionResponse
	err  error

	calls  int
	gotReq *entity.GenerateQuestionRequest
}

func (s *stubGenerator) GenerateQuestion(ctx context.Context, req *entity.GenerateQuestionRequest) (*entity.GenerateQuestionResponse, error) {
	s.calls++
	s.gotReq = req
	return s.resp, s.err
}

func testPool() []entity.Question {
	return []entity.Question{
		{ID: "hooks-1", Text: "hooks?", Category: "React Hooks", Difficulty: entity.DifficultyIntermediate},
		{ID: "state-1", Text: "state?", Category: "State Management", Difficulty: entity.DifficultySenior},
		{ID: "perf-1", Text: "perf?", Category: "Performance Optimization", Difficulty: entity.DifficultySenior},
	}
}

func weakResponse(id string) entity.Response {
	return entity.Response{QuestionID: id, Evaluation: entity.Evaluation{IsWeak: true}}
}

func strongResponse(id string) entity.Response {
	return entity.Response{QuestionID: id, Evaluation: entity.Evaluation{
		HasSpecifics: true, HasRealExample: true, CoversCorePoints: true,
	}}
}

func newTestSelector(gen GeneratorConnector) *Selector {
	return NewSelectorWithRand(testPool(), gen, zap.NewNop(), rand.New(rand.NewSource(1)))
}

func TestSelectorEscalatesAfterStrongWindow(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	s := newTestSelector(gen)

	q, err := s.Next(context.Background(), Request{
		Difficulty: entity.DifficultyIntermediate,
		Responses:  []entity.Response{strongResponse("hooks-1"), strongResponse("state-1")},
	})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if gen.gotReq.Difficulty != entity.DifficultySenior {
		t.Errorf("requested difficulty = %s, want senior after strong window", gen.gotReq.Difficulty)
	}
	if gen.gotReq.PerformanceLevel != PerformanceStrong {
		t.Errorf("performance = %q, want %q", gen.gotReq.PerformanceLevel, PerformanceStrong)
	}
	if q.Difficulty != entity.DifficultySenior {
		t.Errorf("pool fallback difficulty = %s, want senior", q.Difficulty)
	}
}

func TestSelectorDeEscalatesAfterWeakWindow(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	s := newTestSelector(gen)

	q, err := s.Next(context.Background(), Request{
		Difficulty: entity.DifficultySenior,
		Responses:  []entity.Response{weakResponse("state-1"), weakResponse("perf-1")},
	})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if gen.gotReq.Difficulty != entity.DifficultyIntermediate {
		t.Errorf("requested difficulty = %s, want intermediate after weak window", gen.gotReq.Difficulty)
	}
	if gen.gotReq.PerformanceLevel != PerformanceStruggling {
		t.Errorf("performance = %q, want %q", gen.gotReq.PerformanceLevel, PerformanceStruggling)
	}
	if q == nil {
		t.Fatal("pool fallback returned nil")
	}
}

func TestSelectorWindowOnlyCountsLastThree(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	s := newTestSelector(gen)

	// Two old weak responses pushed out of the window by three neutral ones.
	responses := []entity.Response{
		weakResponse("state-1"),
		weakResponse("perf-1"),
		{QuestionID: "hooks-1"},
		{QuestionID: "state-1"},
		{QuestionID: "perf-1"},
	}
	if _, err := s.Next(context.Background(), Request{
		Difficulty: entity.DifficultySenior,
		Responses:  responses,
	}); err != nil {
		t.Fatalf("Next: %v", err)
	}

	if gen.gotReq.PerformanceLevel != PerformanceNeutral {
		t.Errorf("performance = %q, want neutral once weak answers age out", gen.gotReq.PerformanceLevel)
	}
	if gen.gotReq.Difficulty != entity.DifficultySenior {
		t.Errorf("difficulty = %s, want requested difficulty kept", gen.gotReq.Difficulty)
	}
}

func TestSelectorWeakAreasFromRecentWeakResponses(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	s := newTestSelector(gen)

	responses := []entity.Response{
		weakResponse("hooks-1"),
		weakResponse("state-1"),
		weakResponse("perf-1-followup"),
	}
	if _, err := s.Next(context.Background(), Request{
		Difficulty: entity.DifficultyIntermediate,
		Responses:  responses,
	}); err != nil {
		t.Fatalf("Next: %v", err)
	}

	got := gen.gotReq.WeakAreas
	want := []string{"State Management", "Performance Optimization"}
	if len(got) != len(want) {
		t.Fatalf("WeakAreas = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("WeakAreas[%d] = %q, want %q (followup id must map to original)", i, got[i], want[i])
		}
	}
}

func TestSelectorUsesGeneratedQuestion(t *testing.T) {
	gen := &stubGenerator{
		resp: &entity.GenerateQuestionResponse{
			Text:       "Describe how you would debug a memory leak in a long-lived SPA.",
			Category:   "Debugging",
			Difficulty: entity.DifficultySenior,
			StyleTag:   "debugging",
		},
	}
	s := newTestSelector(gen)

	q, err := s.Next(context.Background(), Request{
		Difficulty: entity.DifficultySenior,
		Responses:  []entity.Response{strongResponse("hooks-1")},
	})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if !q.IsGenerated {
		t.Error("IsGenerated = false, want true")
	}
	if q.ID == "" {
		t.Error("ID empty, want a generated id assigned")
	}
	if q.StyleTag != "debugging" {
		t.Errorf("StyleTag = %q, want propagated", q.StyleTag)
	}
	if !IsKnownStyleTag(gen.gotReq.StyleTag) {
		t.Errorf("request StyleTag = %q, want one of the known tags", gen.gotReq.StyleTag)
	}
}

func TestSelectorPoolWidensWhenDifficultyExhausted(t *testing.T) {
	s := newTestSelector(nil)

	q, err := s.Next(context.Background(), Request{
		Difficulty:      entity.DifficultyIntermediate,
		UsedQuestionIDs: []string{"hooks-1"},
	})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if q.Difficulty != entity.DifficultySenior {
		t.Errorf("picked %s at %s, want widening to the senior questions", q.ID, q.Difficulty)
	}
	if q.ID == "hooks-1" {
		t.Errorf("picked already used question %s", q.ID)
	}
}

func TestSelectorPoolPrefersWeakAreaCategory(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	s := newTestSelector(gen)

	q, err := s.Next(context.Background(), Request{
		Difficulty:      entity.DifficultySenior,
		UsedQuestionIDs: []string{"perf-1"},
		Responses:       []entity.Response{weakResponse("state-1"), {QuestionID: "perf-1"}, {QuestionID: "hooks-1"}},
	})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if q.ID != "state-1" {
		t.Errorf("picked %s, want state-1 matching the weak State Management area", q.ID)
	}
}

func TestSelectorExhaustedPoolRetriesGenerationThenReusesFirst(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	s := newTestSelector(gen)

	q, err := s.Next(context.Background(), Request{
		Difficulty:      entity.DifficultySenior,
		UsedQuestionIDs: []string{"hooks-1", "state-1", "perf-1"},
		Responses:       []entity.Response{strongResponse("hooks-1")},
	})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want the initial attempt plus one retry", gen.calls)
	}
	if q.ID != "hooks-1" {
		t.Errorf("picked %s, want the first pool question as last resort", q.ID)
	}
}

func TestSelectorCacheSkipsUsedGeneratedQuestion(t *testing.T) {
	gen := &stubGenerator{
		resp: &entity.GenerateQuestionResponse{
			ID:         "gen-fixed",
			Text:       "Walk me through profiling a slow list render.",
			Category:   "Performance Optimization",
			Difficulty: entity.DifficultySenior,
		},
	}
	s := newTestSelector(gen)

	req := Request{
		Difficulty: entity.DifficultySenior,
		Responses:  []entity.Response{strongResponse("hooks-1")},
	}
	first, err := s.Next(context.Background(), req)
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}

	// Same history plus the served question: the cached entry must not be
	// replayed once its id has been used.
	req.UsedQuestionIDs = []string{first.ID}
	gen.resp = &entity.GenerateQuestionResponse{
		ID:         "gen-other",
		Text:       "How would you roll out a breaking design-system change?",
		Category:   "Component Architecture",
		Difficulty: entity.DifficultySenior,
	}
	second, err := s.Next(context.Background(), req)
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}

	if second.ID == first.ID {
		t.Errorf("served cached question %s twice", second.ID)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want a fresh call once the cached id is used", gen.calls)
	}
}

func TestNextStyleTagAvoidsUsedTags(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	used := append([]string(nil), StyleTags[:len(StyleTags)-1]...)
	for i := 0; i < 10; i++ {
		if got := NextStyleTag(used, r); got != StyleTags[len(StyleTags)-1] {
			t.Fatalf("NextStyleTag = %q, want the single unused tag", got)
		}
	}

	if got := NextStyleTag(StyleTags, r); !IsKnownStyleTag(got) {
		t.Errorf("NextStyleTag with all used = %q, want a known tag", got)
	}
}
