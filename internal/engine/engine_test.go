package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/provek/interview-sim/internal/entity"
	"github.com/provek/interview-sim/internal/evaluation"
	"github.com/provek/interview-sim/internal/question"
	"github.com/provek/interview-sim/internal/storage"
	"go.uber.org/zap"
)

type scriptedEvaluator struct {
	mu       sync.Mutex
	verdicts []entity.Evaluation
	inputs   []evaluation.Input
}

func (s *scriptedEvaluator) Evaluate(ctx context.Context, in evaluation.Input) entity.Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, in)
	if len(s.verdicts) == 0 {
		return strongVerdict()
	}
	v := s.verdicts[0]
	s.verdicts = s.verdicts[1:]
	return v
}

func (s *scriptedEvaluator) lastInput(t *testing.T) evaluation.Input {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inputs) == 0 {
		t.Fatal("no evaluation inputs recorded")
	}
	return s.inputs[len(s.inputs)-1]
}

type scriptedSelector struct {
	mu        sync.Mutex
	questions []*entity.Question
	err       error
}

func (s *scriptedSelector) Next(ctx context.Context, req question.Request) (*entity.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.questions) == 0 {
		return nil, entity.ErrPoolExhausted
	}
	q := s.questions[0]
	s.questions = s.questions[1:]
	return q, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	snapshots []*entity.Session
}

func (r *recordingNotifier) Notify(session *entity.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, session.Clone())
}

type stubFollowUp struct {
	resp *entity.GenerateFollowUpResponse
	err  error
}

func (s *stubFollowUp) GenerateFollowUp(ctx context.Context, req *entity.GenerateFollowUpRequest) (*entity.GenerateFollowUpResponse, error) {
	return s.resp, s.err
}

func newTestManager(t *testing.T, eval *scriptedEvaluator, sel *scriptedSelector, fu FollowUpConnector) (*Manager, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	m := NewManager(ManagerDeps{
		Store:     store,
		Notifier:  &recordingNotifier{},
		Evaluator: eval,
		Selector:  sel,
		FollowUp:  fu,
		Logger:    zap.NewNop(),
	})
	t.Cleanup(m.Shutdown)
	return m, store
}

func TestManagerHappyPathToSummary(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{questions: []*entity.Question{
		testQuestion("q1"), testQuestion("q2"), testQuestion("q3"),
		testQuestion("q4"), testQuestion("q5"),
	}}
	m, _ := newTestManager(t, eval, sel, nil)
	ctx := context.Background()

	created, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	session, err := m.StartInterview(ctx, created.ID, "Dana", "", 0)
	if err != nil {
		t.Fatalf("StartInterview: %v", err)
	}
	if session.CurrentState != entity.StateActive {
		t.Fatalf("state = %s, want active", session.CurrentState)
	}

	for i := 0; i < entity.MaxResponses; i++ {
		session, err = m.SubmitAnswer(ctx, created.ID, session.CurrentQuestion.ID, "a detailed answer")
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", i, err)
		}
		if session.CurrentState != entity.StateAIAssist {
			t.Fatalf("state after answer %d = %s, want ai-assist", i, session.CurrentState)
		}

		session, err = m.ContinueInterview(ctx, created.ID)
		if err != nil {
			t.Fatalf("ContinueInterview %d: %v", i, err)
		}
	}

	if session.CurrentState != entity.StateSummary {
		t.Errorf("final state = %s, want summary after %d responses", session.CurrentState, entity.MaxResponses)
	}
	if len(session.Responses) != entity.MaxResponses {
		t.Errorf("responses = %d, want %d", len(session.Responses), entity.MaxResponses)
	}
}

func TestManagerWeakAnswerGetsServiceFollowUp(t *testing.T) {
	eval := &scriptedEvaluator{verdicts: []entity.Evaluation{genuinelyWeakVerdict()}}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	fu := &stubFollowUp{resp: &entity.GenerateFollowUpResponse{
		FollowUpQuestion: "Name the exact component and the bug you hit.",
		FocusArea:        "specifics",
	}}
	m, _ := newTestManager(t, eval, sel, fu)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}

	session, err := m.SubmitAnswer(ctx, created.ID, "q1", "vague")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if session.CurrentState != entity.StatePressure {
		t.Fatalf("state = %s, want pressure", session.CurrentState)
	}
	if session.CurrentQuestion.FollowUpText != "Name the exact component and the bug you hit." {
		t.Errorf("FollowUpText = %q, want the generated follow-up", session.CurrentQuestion.FollowUpText)
	}
}

func TestManagerPressureAnswerEvaluatedAgainstFollowUpText(t *testing.T) {
	eval := &scriptedEvaluator{verdicts: []entity.Evaluation{genuinelyWeakVerdict()}}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	fu := &stubFollowUp{resp: &entity.GenerateFollowUpResponse{
		FollowUpQuestion: "Name the exact component and the bug you hit.",
	}}
	m, _ := newTestManager(t, eval, sel, fu)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}

	session, err := m.SubmitAnswer(ctx, created.ID, "q1", "vague")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if session.CurrentState != entity.StatePressure {
		t.Fatalf("state = %s, want pressure", session.CurrentState)
	}
	if got := eval.lastInput(t).Question.Text; got != "Explain reconciliation." {
		t.Errorf("first evaluation against %q, want the original question", got)
	}

	if _, err := m.SubmitAnswer(ctx, created.ID, "q1", "we hit it in the checkout form"); err != nil {
		t.Fatalf("SubmitAnswer follow-up: %v", err)
	}
	if got := eval.lastInput(t).Question.Text; got != "Name the exact component and the bug you hit." {
		t.Errorf("follow-up evaluated against %q, want the presented follow-up text", got)
	}
}

func TestManagerWeakAnswerKeepsCannedFollowUpOnServiceFailure(t *testing.T) {
	eval := &scriptedEvaluator{verdicts: []entity.Evaluation{genuinelyWeakVerdict()}}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	fu := &stubFollowUp{err: errors.New("service down")}
	m, _ := newTestManager(t, eval, sel, fu)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}

	session, err := m.SubmitAnswer(ctx, created.ID, "q1", "vague")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if session.CurrentState != entity.StatePressure {
		t.Fatalf("state = %s, want pressure", session.CurrentState)
	}
	if session.CurrentQuestion.FollowUpText != testQuestion("q1").FollowUpText {
		t.Errorf("FollowUpText = %q, want the canned follow-up kept", session.CurrentQuestion.FollowUpText)
	}
}

func TestManagerRejectsMismatchedQuestion(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	m, _ := newTestManager(t, eval, sel, nil)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}

	if _, err := m.SubmitAnswer(ctx, created.ID, "wrong-id", "answer"); !errors.Is(err, entity.ErrQuestionMismatch) {
		t.Errorf("err = %v, want ErrQuestionMismatch", err)
	}
}

func TestManagerContinueRequiresReviewScreen(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	m, _ := newTestManager(t, eval, sel, nil)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.ContinueInterview(ctx, created.ID); !errors.Is(err, entity.ErrWrongState) {
		t.Errorf("err = %v, want ErrWrongState on landing", err)
	}
}

func TestManagerSelectionFailureEndsInterview(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	m, _ := newTestManager(t, eval, sel, nil)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}
	if _, err := m.SubmitAnswer(ctx, created.ID, "q1", "fine answer"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	// Selector is now exhausted, so continue must degrade to the summary.
	session, err := m.ContinueInterview(ctx, created.ID)
	if err != nil {
		t.Fatalf("ContinueInterview: %v", err)
	}
	if session.CurrentState != entity.StateSummary {
		t.Errorf("state = %s, want summary when no question can be selected", session.CurrentState)
	}
}

func TestManagerRestartClearsStorage(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	m, store := newTestManager(t, eval, sel, nil)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}
	if err := store.Save(ctx, entity.NewSession(created.ID)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	session, err := m.RestartInterview(ctx, created.ID)
	if err != nil {
		t.Fatalf("RestartInterview: %v", err)
	}

	if session.CurrentState != entity.StateLanding {
		t.Errorf("state = %s, want landing", session.CurrentState)
	}
	if has, _ := store.Has(ctx, created.ID); has {
		t.Error("persisted snapshot survived restart")
	}

	// A second restart from landing keeps the same result.
	again, err := m.RestartInterview(ctx, created.ID)
	if err != nil {
		t.Fatalf("second RestartInterview: %v", err)
	}
	if again.CurrentState != entity.StateLanding || again.ID != session.ID {
		t.Errorf("restart not idempotent: %+v", again)
	}
}

func TestManagerRevivesSessionFromStorage(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{}
	store := storage.NewMemoryStore()
	ctx := context.Background()

	persisted := entity.NewSession("sess-revive")
	persisted.CandidateName = "Dana"
	persisted.CurrentState = entity.StateAIAssist
	persisted.Responses = []entity.Response{{QuestionID: "q1", Evaluation: strongVerdict()}}
	if err := store.Save(ctx, persisted); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := NewManager(ManagerDeps{
		Store:     store,
		Notifier:  &recordingNotifier{},
		Evaluator: eval,
		Selector:  sel,
		Logger:    zap.NewNop(),
	})
	t.Cleanup(m.Shutdown)

	got, err := m.GetSession(ctx, "sess-revive")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.CandidateName != "Dana" || got.CurrentState != entity.StateAIAssist {
		t.Errorf("revived session = %+v, want persisted values", got)
	}

	if _, err := m.GetSession(ctx, "missing"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerRevivedPressureSessionRearmsFollowUpBudget(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	started := time.Now().Add(-2 * time.Minute)
	persisted := entity.NewSession("sess-pressure")
	persisted.CandidateName = "Dana"
	persisted.CurrentState = entity.StatePressure
	persisted.CurrentQuestion = testQuestion("q1")
	persisted.UsedQuestionIDs = []string{"q1"}
	persisted.StartedAt = &started
	if err := store.Save(ctx, persisted); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := NewManager(ManagerDeps{
		Store:     store,
		Notifier:  &recordingNotifier{},
		Evaluator: &scriptedEvaluator{},
		Selector:  &scriptedSelector{},
		Logger:    zap.NewNop(),
	})
	t.Cleanup(m.Shutdown)

	got, err := m.GetSession(ctx, "sess-pressure")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.CurrentState != entity.StatePressure {
		t.Fatalf("state = %s, want pressure", got.CurrentState)
	}

	m.mu.Lock()
	h := m.sessions["sess-pressure"]
	m.mu.Unlock()

	h.mu.Lock()
	armed := h.pressureTimer != nil
	h.mu.Unlock()
	if !armed {
		t.Error("pressure timer not armed after revival, follow-up budget would never expire")
	}
}

func TestManagerGetRefreshesCountdown(t *testing.T) {
	eval := &scriptedEvaluator{}
	sel := &scriptedSelector{questions: []*entity.Question{testQuestion("q1")}}
	store := storage.NewMemoryStore()

	clock := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	now := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}

	m := NewManager(ManagerDeps{
		Store:     store,
		Notifier:  &recordingNotifier{},
		Evaluator: eval,
		Selector:  sel,
		Logger:    zap.NewNop(),
		Now:       now,
	})
	t.Cleanup(m.Shutdown)
	ctx := context.Background()

	created, _ := m.CreateSession(ctx)
	if _, err := m.StartInterview(ctx, created.ID, "Dana", "", 0); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}

	clockMu.Lock()
	clock = clock.Add(90 * time.Second)
	clockMu.Unlock()

	session, err := m.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	want := entity.DefaultDurationMinutes*60 - 90
	if session.TimeRemainingSeconds != want {
		t.Errorf("TimeRemainingSeconds = %d, want %d", session.TimeRemainingSeconds, want)
	}
}
