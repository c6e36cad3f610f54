package engine

import (
	"time"

	"github.com/provek/interview-sim/internal/entity"
)

// Event is one input to the interview state machine. Events carry every
// value the transition needs (clock readings, selected questions, verdicts)
// so the transition layer itself stays pure.
type Event interface {
	isEvent()
}

// Start moves the session from landing into the first active question.
type Start struct {
	CandidateName   string
	Role            string
	DurationMinutes int
	Question        *entity.Question
	Now             time.Time
}

// AnswerEvaluated records a submitted answer together with its verdict.
// IsFollowUp marks the answer given on the pressure screen.
type AnswerEvaluated struct {
	QuestionID string
	AnswerText string
	Evaluation entity.Evaluation
	IsFollowUp bool
	Now        time.Time
}

// Continue leaves the review screen: either into the next question or, when
// Question is nil or a limit has been hit, into the summary.
type Continue struct {
	Question *entity.Question
	Now      time.Time
}

// Tick refreshes the cached countdown display value.
type Tick struct {
	Now time.Time
}

// TimerScope distinguishes the interview countdown from the fixed
// follow-up budget on the pressure screen.
type TimerScope string

const (
	TimerInterview TimerScope = "interview"
	TimerFollowUp  TimerScope = "follow-up"
)

// TimerExpired ends either the whole interview or just the pressure screen.
type TimerExpired struct {
	Scope TimerScope
	Now   time.Time
}

// Restart resets the session to its landing defaults, keeping only the id.
type Restart struct{}

func (Start) isEvent()           {}
func (AnswerEvaluated) isEvent() {}
func (Continue) isEvent()        {}
func (Tick) isEvent()            {}
func (TimerExpired) isEvent()    {}
func (Restart) isEvent()         {}
