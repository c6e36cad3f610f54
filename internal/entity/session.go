package entity

import (
	"strings"
	"time"
)

type InterviewState string

// Interview state represents the screen the candidate is currently on
const (
	StateLanding  InterviewState = "landing"   // Waiting for candidate name and start
	StateActive   InterviewState = "active"    // Question presented, answer pending
	StatePressure InterviewState = "pressure"  // Follow-up after a genuinely weak answer
	StateAIAssist InterviewState = "ai-assist" // Reviewing the evaluation of the last answer
	StateSummary  InterviewState = "summary"   // Interview over, report available
)

type InterviewPhase string

// Interview phase is a coarse pacing label, distinct from the state.
// It only advances, never regresses.
const (
	PhaseWarmup    InterviewPhase = "warmup"
	PhaseTechnical InterviewPhase = "technical"
	PhaseDeepDive  InterviewPhase = "deep-dive"
	PhaseWrapUp    InterviewPhase = "wrap-up"
)

const (
	DefaultRole            = "Frontend React Developer (Mid-Senior)"
	DefaultDurationMinutes = 20

	// MaxResponses and MaxQuestions bound the interview length: CONTINUE
	// moves to summary once either limit is reached.
	MaxResponses = 5
	MaxQuestions = 5

	// FollowUpBudgetSeconds is the fixed time budget for the pressure screen.
	FollowUpBudgetSeconds = 180
)

// DefaultTopics is the display list of subject areas covered by the interview.
func DefaultTopics() []string {
	return []string{
		"React Hooks",
		"Component Architecture",
		"State Management",
		"Performance Optimization",
	}
}

// Session is the single source of truth for one interview run.
type Session struct {
	ID            string `json:"id"`
	Role          string `json:"role"`
	CandidateName string `json:"candidate_name"`

	// DurationSeconds is the countdown budget. TimeRemainingSeconds is a
	// cached display value; the authoritative remaining time is recomputed
	// from StartedAt, DurationSeconds and the current clock.
	DurationSeconds      int `json:"duration_seconds"`
	TimeRemainingSeconds int `json:"time_remaining_seconds"`

	CurrentState    InterviewState `json:"current_state"`
	CurrentQuestion *Question      `json:"current_question,omitempty"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`

	UsedQuestionIDs   []string       `json:"used_question_ids"`
	UsedQuestionTypes []string       `json:"used_question_types"`
	Responses         []Response     `json:"responses"`
	WeakAreas         []string       `json:"weak_areas"`
	InterviewPhase    InterviewPhase `json:"interview_phase"`
	Topics            []string       `json:"topics"`
}

// NewSession creates a session in its landing defaults.
func NewSession(id string) *Session {
	return &Session{
		ID:                id,
		Role:              DefaultRole,
		DurationSeconds:   DefaultDurationMinutes * 60,
		CurrentState:      StateLanding,
		UsedQuestionIDs:   []string{},
		UsedQuestionTypes: []string{},
		Responses:         []Response{},
		WeakAreas:         []string{},
		InterviewPhase:    PhaseWarmup,
		Topics:            DefaultTopics(),
	}
}

// HasUsedQuestion reports whether the question id was already presented.
func (s *Session) HasUsedQuestion(id string) bool {
	for _, used := range s.UsedQuestionIDs {
		if used == id {
			return true
		}
	}
	return false
}

// RemainingSeconds computes the authoritative time left at now.
func (s *Session) RemainingSeconds(now time.Time) int {
	if s.StartedAt == nil {
		return s.DurationSeconds
	}
	remaining := s.DurationSeconds - int(now.Sub(*s.StartedAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StrongResponseCount counts responses not flagged weak.
func (s *Session) StrongResponseCount() int {
	count := 0
	for _, r := range s.Responses {
		if !r.Evaluation.IsWeak {
			count++
		}
	}
	return count
}

// LastResponses returns up to n most recent responses, oldest first.
func (s *Session) LastResponses(n int) []Response {
	if len(s.Responses) <= n {
		return s.Responses
	}
	return s.Responses[len(s.Responses)-n:]
}

// Clone returns a deep copy so the pure transition layer never aliases
// slices with the previous session value.
func (s *Session) Clone() *Session {
	clone := *s
	clone.UsedQuestionIDs = append([]string(nil), s.UsedQuestionIDs...)
	clone.UsedQuestionTypes = append([]string(nil), s.UsedQuestionTypes...)
	clone.Responses = append([]Response(nil), s.Responses...)
	clone.WeakAreas = append([]string(nil), s.WeakAreas...)
	clone.Topics = append([]string(nil), s.Topics...)
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		clone.CurrentQuestion = &q
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		clone.StartedAt = &t
	}
	return &clone
}

// ValidateCandidateName rejects blank or whitespace-only names.
func ValidateCandidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankCandidateName
	}
	return nil
}
