package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/provek/interview-sim/internal/entity"
	"github.com/provek/interview-sim/internal/evaluation"
	"github.com/provek/interview-sim/internal/question"
	"github.com/provek/interview-sim/internal/storage"
	"go.uber.org/zap"
)

// AnswerEvaluator produces a verdict for a submitted answer.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, in evaluation.Input) entity.Evaluation
}

// QuestionSelector resolves the next question for a session history.
type QuestionSelector interface {
	Next(ctx context.Context, req question.Request) (*entity.Question, error)
}

// FollowUpConnector asks the generation service for a sharper follow-up to
// a weak answer. Optional: the canned follow-up text is the fallback.
type FollowUpConnector interface {
	GenerateFollowUp(ctx context.Context, req *entity.GenerateFollowUpRequest) (*entity.GenerateFollowUpResponse, error)
}

// SnapshotNotifier receives session snapshots worth persisting.
type SnapshotNotifier interface {
	Notify(session *entity.Session)
}

// Manager owns the live sessions and drives the state machine. All service
// calls (evaluation, selection, follow-up generation) happen outside the
// per-session lock; results are applied only after checking the session has
// not moved on in the meantime.
type Manager struct {
	store     storage.Store
	notifier  SnapshotNotifier
	evaluator AnswerEvaluator
	selector  QuestionSelector
	followUp  FollowUpConnector
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*handle
}

type handle struct {
	mu            sync.Mutex
	session       *entity.Session
	pressureTimer *time.Timer
	tickerStop    chan struct{}
}

type ManagerDeps struct {
	Store     storage.Store
	Notifier  SnapshotNotifier
	Evaluator AnswerEvaluator
	Selector  QuestionSelector
	FollowUp  FollowUpConnector
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewManager(deps ManagerDeps) *Manager {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:     deps.Store,
		notifier:  deps.Notifier,
		evaluator: deps.Evaluator,
		selector:  deps.Selector,
		followUp:  deps.FollowUp,
		logger:    deps.Logger,
		now:       now,
		sessions:  make(map[string]*handle),
	}
}

// CreateSession registers a fresh session on the landing screen.
func (m *Manager) CreateSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString())

	m.mu.Lock()
	m.sessions[session.ID] = &handle{session: session}
	m.mu.Unlock()

	ctxzap.Info(ctx, "session created", zap.String("session_id", session.ID))
	return session.Clone(), nil
}

// GetSession returns the current session value, reviving it from storage if
// this process has not seen it yet.
func (m *Manager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	h, err := m.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	next, err := Apply(h.session, Tick{Now: m.now()})
	if err != nil {
		return nil, err
	}
	h.session = next
	return next.Clone(), nil
}

// StartInterview validates the candidate name, picks the opening question
// and moves the session into the first active screen.
func (m *Manager) StartInterview(ctx context.Context, id, candidateName, role string, durationMinutes int) (*entity.Session, error) {
	if err := entity.ValidateCandidateName(candidateName); err != nil {
		return nil, err
	}

	h, err := m.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}

	first, err := m.selector.Next(ctx, question.Request{Difficulty: entity.DifficultyIntermediate})
	if err != nil {
		return nil, fmt.Errorf("select opening question: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := Apply(h.session, Start{
		CandidateName:   candidateName,
		Role:            role,
		DurationMinutes: durationMinutes,
		Question:        first,
		Now:             m.now(),
	})
	if err != nil {
		return nil, err
	}

	h.session = next
	m.startCountdownLocked(h)
	m.notifier.Notify(next)

	ctxzap.Info(ctx, "interview started",
		zap.String("session_id", id),
		zap.String("question_id", first.ID),
	)
	return next.Clone(), nil
}

// SubmitAnswer evaluates an answer and advances the state machine. The
// verdict is computed outside the lock; if the session moved on while the
// evaluation ran (restart, timer expiry) the stale result is discarded.
func (m *Manager) SubmitAnswer(ctx context.Context, id, questionID, answer string) (*entity.Session, error) {
	h, err := m.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	state := h.session.CurrentState
	if state != entity.StateActive && state != entity.StatePressure {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot answer in %s", entity.ErrWrongState, state)
	}
	if h.session.CurrentQuestion == nil || h.session.CurrentQuestion.ID != questionID {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: answer for %s", entity.ErrQuestionMismatch, questionID)
	}
	currentQuestion := *h.session.CurrentQuestion
	recent := append([]entity.Response(nil), h.session.LastResponses(3)...)
	h.mu.Unlock()

	// On the pressure screen the candidate was shown the follow-up text,
	// so that is the question the answer is judged against.
	evalQuestion := currentQuestion
	if state == entity.StatePressure && currentQuestion.FollowUpText != "" {
		evalQuestion.Text = currentQuestion.FollowUpText
	}

	verdict := m.evaluator.Evaluate(ctx, evaluation.Input{
		Answer:          answer,
		Question:        evalQuestion,
		RecentResponses: recent,
	})

	// Prefetch the sharper follow-up before re-acquiring the lock, so the
	// pressure screen can show it immediately.
	var followUpText string
	if state == entity.StateActive && verdict.GenuinelyWeak() && currentQuestion.HasFollowUp() {
		followUpText = m.fetchFollowUp(ctx, &currentQuestion, answer, verdict)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session.CurrentState != state || h.session.CurrentQuestion == nil || h.session.CurrentQuestion.ID != questionID {
		ctxzap.Warn(ctx, "discarding stale evaluation result",
			zap.String("session_id", id),
			zap.String("question_id", questionID),
		)
		return nil, fmt.Errorf("%w: session moved on during evaluation", entity.ErrQuestionMismatch)
	}

	next, err := Apply(h.session, AnswerEvaluated{
		QuestionID: questionID,
		AnswerText: answer,
		Evaluation: verdict,
		IsFollowUp: state == entity.StatePressure,
		Now:        m.now(),
	})
	if err != nil {
		return nil, err
	}

	if next.CurrentState == entity.StatePressure {
		if followUpText != "" {
			next.CurrentQuestion.FollowUpText = followUpText
		}
		m.startPressureTimerLocked(h, questionID)
	}

	h.session = next
	m.notifier.Notify(next)

	ctxzap.Info(ctx, "answer recorded",
		zap.String("session_id", id),
		zap.String("question_id", questionID),
		zap.Bool("is_weak", verdict.IsWeak),
		zap.String("state", string(next.CurrentState)),
	)
	return next.Clone(), nil
}

// ContinueInterview leaves the review screen: into the summary once a limit
// is reached, otherwise into the next question. Selection failures degrade
// to the summary rather than erroring the interview.
func (m *Manager) ContinueInterview(ctx context.Context, id string) (*entity.Session, error) {
	h, err := m.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.session.CurrentState != entity.StateAIAssist {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: continue requires ai-assist, session is %s", entity.ErrWrongState, h.session.CurrentState)
	}

	limitHit := len(h.session.Responses) >= entity.MaxResponses ||
		len(h.session.UsedQuestionIDs) >= entity.MaxQuestions
	selReq := question.Request{
		Difficulty:        m.nextDifficulty(h.session),
		UsedQuestionIDs:   append([]string(nil), h.session.UsedQuestionIDs...),
		UsedQuestionTypes: append([]string(nil), h.session.UsedQuestionTypes...),
		Responses:         append([]entity.Response(nil), h.session.Responses...),
	}
	h.mu.Unlock()

	var nextQuestion *entity.Question
	if !limitHit {
		nextQuestion, err = m.selector.Next(ctx, selReq)
		if err != nil {
			ctxzap.Warn(ctx, "question selection failed, ending interview",
				zap.String("session_id", id),
				zap.Error(err),
			)
			nextQuestion = nil
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session.CurrentState != entity.StateAIAssist {
		return nil, fmt.Errorf("%w: session moved on during selection", entity.ErrWrongState)
	}

	next, err := Apply(h.session, Continue{Question: nextQuestion, Now: m.now()})
	if err != nil {
		return nil, err
	}

	h.session = next
	m.notifier.Notify(next)

	ctxzap.Info(ctx, "interview continued",
		zap.String("session_id", id),
		zap.String("state", string(next.CurrentState)),
	)
	return next.Clone(), nil
}

// RestartInterview wipes the session back to the landing screen and clears
// its persisted snapshots.
func (m *Manager) RestartInterview(ctx context.Context, id string) (*entity.Session, error) {
	h, err := m.handleFor(ctx, id)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	m.stopTimersLocked(h)
	next, err := Apply(h.session, Restart{})
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}
	h.session = next
	h.mu.Unlock()

	if err := m.store.Clear(ctx, id); err != nil {
		ctxzap.Warn(ctx, "failed to clear persisted session", zap.String("session_id", id), zap.Error(err))
	}

	ctxzap.Info(ctx, "interview restarted", zap.String("session_id", id))
	return next.Clone(), nil
}

// Shutdown stops all background timers.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.sessions {
		h.mu.Lock()
		m.stopTimersLocked(h)
		h.mu.Unlock()
	}
}

// nextDifficulty escalates once the interview is deep enough.
func (m *Manager) nextDifficulty(session *entity.Session) entity.Difficulty {
	if len(session.Responses) >= 3 {
		return entity.DifficultySenior
	}
	return entity.DifficultyIntermediate
}

func (m *Manager) fetchFollowUp(ctx context.Context, q *entity.Question, answer string, verdict entity.Evaluation) string {
	if m.followUp == nil {
		return ""
	}

	resp, err := m.followUp.GenerateFollowUp(ctx, &entity.GenerateFollowUpRequest{
		OriginalQuestion: q.Text,
		OriginalAnswer:   answer,
		Evaluation:       verdict,
		Difficulty:       q.Difficulty,
	})
	if err != nil {
		ctxzap.Warn(ctx, "follow-up generation failed, using canned follow-up", zap.Error(err))
		return ""
	}
	return resp.FollowUpQuestion
}

// handleFor finds the live handle for a session, reviving it from storage
// when this process has not seen the id yet.
func (m *Manager) handleFor(ctx context.Context, id string) (*handle, error) {
	m.mu.Lock()
	h, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return h, nil
	}

	session, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}

	h = &handle{session: session}
	m.sessions[id] = h

	h.mu.Lock()
	switch session.CurrentState {
	case entity.StateActive:
		m.startCountdownLocked(h)
	case entity.StatePressure:
		// The follow-up budget does not survive the process, so a revived
		// pressure session gets a fresh one rather than waiting forever.
		if session.CurrentQuestion != nil {
			m.startPressureTimerLocked(h, session.CurrentQuestion.ID)
		}
	}
	h.mu.Unlock()

	ctxzap.Info(ctx, "session revived from storage",
		zap.String("session_id", id),
		zap.String("state", string(session.CurrentState)),
	)
	return h, nil
}

// startCountdownLocked runs the one-second countdown for a started session.
// The goroutine stops itself once the session leaves the timed states or
// the budget reaches zero. Caller holds h.mu.
func (m *Manager) startCountdownLocked(h *handle) {
	if h.tickerStop != nil {
		return
	}
	stop := make(chan struct{})
	h.tickerStop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if done := m.tick(h, stop); done {
					return
				}
			}
		}
	}()
}

func (m *Manager) tick(h *handle, stop chan struct{}) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.session.CurrentState {
	case entity.StateLanding, entity.StateSummary:
		if h.tickerStop == stop {
			h.tickerStop = nil
		}
		return true
	}

	now := m.now()
	next, err := Apply(h.session, Tick{Now: now})
	if err != nil {
		return false
	}
	h.session = next

	if next.CurrentState == entity.StateActive && next.RemainingSeconds(now) == 0 {
		expired, err := Apply(next, TimerExpired{Scope: TimerInterview, Now: now})
		if err == nil {
			h.session = expired
			m.notifier.Notify(expired)
			m.logger.Info("interview timer expired", zap.String("session_id", expired.ID))
		}
		if h.tickerStop == stop {
			h.tickerStop = nil
		}
		return true
	}

	m.notifier.Notify(next)
	return false
}

// startPressureTimerLocked arms the fixed follow-up budget. Caller holds h.mu.
func (m *Manager) startPressureTimerLocked(h *handle, questionID string) {
	if h.pressureTimer != nil {
		h.pressureTimer.Stop()
	}

	h.pressureTimer = time.AfterFunc(entity.FollowUpBudgetSeconds*time.Second, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.session.CurrentState != entity.StatePressure ||
			h.session.CurrentQuestion == nil ||
			h.session.CurrentQuestion.ID != questionID {
			return
		}

		next, err := Apply(h.session, TimerExpired{Scope: TimerFollowUp, Now: m.now()})
		if err != nil {
			return
		}
		h.session = next
		m.notifier.Notify(next)
		m.logger.Info("follow-up budget expired", zap.String("session_id", next.ID))
	})
}

// stopTimersLocked stops the countdown and pressure timers. Caller holds h.mu.
func (m *Manager) stopTimersLocked(h *handle) {
	if h.tickerStop != nil {
		close(h.tickerStop)
		h.tickerStop = nil
	}
	if h.pressureTimer != nil {
		h.pressureTimer.Stop()
		h.pressureTimer = nil
	}
}
