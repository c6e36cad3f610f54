package engine

import (
	"fmt"

	"github.com/provek/interview-sim/internal/entity"
)

// Apply computes the next session value for an event. It is pure: no clock,
// no randomness, no I/O. The input session is never mutated.
func Apply(session *entity.Session, event Event) (*entity.Session, error) {
	next := session.Clone()

	switch e := event.(type) {
	case Start:
		return applyStart(next, e)
	case AnswerEvaluated:
		return applyAnswerEvaluated(next, e)
	case Continue:
		return applyContinue(next, e)
	case Tick:
		return applyTick(next, e)
	case TimerExpired:
		return applyTimerExpired(next, e)
	case Restart:
		return applyRestart(next)
	default:
		return nil, fmt.Errorf("unknown event type %T", event)
	}
}

func applyStart(next *entity.Session, e Start) (*entity.Session, error) {
	if next.CurrentState != entity.StateLanding {
		return nil, fmt.Errorf("%w: start requires landing, session is %s", entity.ErrWrongState, next.CurrentState)
	}
	if err := entity.ValidateCandidateName(e.CandidateName); err != nil {
		return nil, err
	}
	if e.Question == nil {
		return nil, fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	next.CandidateName = e.CandidateName
	if e.Role != "" {
		next.Role = e.Role
	}
	if e.DurationMinutes > 0 {
		next.DurationSeconds = e.DurationMinutes * 60
	}

	started := e.Now
	next.StartedAt = &started
	next.TimeRemainingSeconds = next.DurationSeconds
	next.CurrentState = entity.StateActive
	presentQuestion(next, e.Question)

	return next, nil
}

func applyAnswerEvaluated(next *entity.Session, e AnswerEvaluated) (*entity.Session, error) {
	if next.CurrentQuestion == nil {
		return nil, fmt.Errorf("%w: no question presented", entity.ErrWrongState)
	}

	switch next.CurrentState {
	case entity.StateActive:
		if e.IsFollowUp {
			return nil, fmt.Errorf("%w: follow-up answer outside pressure", entity.ErrWrongState)
		}
		if e.QuestionID != next.CurrentQuestion.ID {
			return nil, fmt.Errorf("%w: answer for %s, current question is %s",
				entity.ErrQuestionMismatch, e.QuestionID, next.CurrentQuestion.ID)
		}

		appendResponse(next, e.QuestionID, e)

		if e.Evaluation.GenuinelyWeak() && next.CurrentQuestion.HasFollowUp() {
			next.CurrentState = entity.StatePressure
		} else {
			next.CurrentState = entity.StateAIAssist
		}
		return next, nil

	case entity.StatePressure:
		if !e.IsFollowUp {
			return nil, fmt.Errorf("%w: pressure screen expects a follow-up answer", entity.ErrWrongState)
		}
		if e.QuestionID != next.CurrentQuestion.ID {
			return nil, fmt.Errorf("%w: answer for %s, current question is %s",
				entity.ErrQuestionMismatch, e.QuestionID, next.CurrentQuestion.ID)
		}

		appendResponse(next, entity.FollowUpID(e.QuestionID), e)
		next.CurrentState = entity.StateAIAssist
		return next, nil

	default:
		return nil, fmt.Errorf("%w: cannot answer in %s", entity.ErrWrongState, next.CurrentState)
	}
}

func applyContinue(next *entity.Session, e Continue) (*entity.Session, error) {
	if next.CurrentState != entity.StateAIAssist {
		return nil, fmt.Errorf("%w: continue requires ai-assist, session is %s", entity.ErrWrongState, next.CurrentState)
	}

	if len(next.Responses) >= entity.MaxResponses ||
		len(next.UsedQuestionIDs) >= entity.MaxQuestions ||
		e.Question == nil {
		finishInterview(next)
		return next, nil
	}

	next.CurrentState = entity.StateActive
	presentQuestion(next, e.Question)
	return next, nil
}

func applyTick(next *entity.Session, e Tick) (*entity.Session, error) {
	next.TimeRemainingSeconds = next.RemainingSeconds(e.Now)
	return next, nil
}

func applyTimerExpired(next *entity.Session, e TimerExpired) (*entity.Session, error) {
	switch e.Scope {
	case TimerInterview:
		if next.CurrentState != entity.StateActive {
			return nil, fmt.Errorf("%w: interview timer fired in %s", entity.ErrWrongState, next.CurrentState)
		}
		next.TimeRemainingSeconds = 0
		finishInterview(next)
		return next, nil

	case TimerFollowUp:
		if next.CurrentState != entity.StatePressure {
			return nil, fmt.Errorf("%w: follow-up timer fired in %s", entity.ErrWrongState, next.CurrentState)
		}
		// The follow-up budget ran out: no response is recorded for it.
		next.CurrentState = entity.StateAIAssist
		return next, nil

	default:
		return nil, fmt.Errorf("unknown timer scope %q", e.Scope)
	}
}

func applyRestart(next *entity.Session) (*entity.Session, error) {
	return entity.NewSession(next.ID), nil
}

// presentQuestion makes the question current and records its id and style
// tag so it is never selected again in this session.
func presentQuestion(next *entity.Session, q *entity.Question) {
	question := *q
	next.CurrentQuestion = &question
	if !next.HasUsedQuestion(question.ID) {
		next.UsedQuestionIDs = append(next.UsedQuestionIDs, question.ID)
	}
	if question.StyleTag != "" {
		next.UsedQuestionTypes = append(next.UsedQuestionTypes, question.StyleTag)
	}
}

func appendResponse(next *entity.Session, responseID string, e AnswerEvaluated) {
	next.Responses = append(next.Responses, entity.Response{
		QuestionID: responseID,
		AnswerText: e.AnswerText,
		Timestamp:  e.Now,
		Evaluation: e.Evaluation,
	})

	if e.Evaluation.IsWeak && next.CurrentQuestion.Category != "" {
		recordWeakArea(next, next.CurrentQuestion.Category)
	}

	advancePhase(next)
}

func recordWeakArea(next *entity.Session, category string) {
	for _, area := range next.WeakAreas {
		if area == category {
			return
		}
	}
	next.WeakAreas = append(next.WeakAreas, category)
}

var phaseOrder = map[entity.InterviewPhase]int{
	entity.PhaseWarmup:    0,
	entity.PhaseTechnical: 1,
	entity.PhaseDeepDive:  2,
	entity.PhaseWrapUp:    3,
}

// advancePhase moves the pacing label forward with the response count. It
// never regresses.
func advancePhase(next *entity.Session) {
	target := entity.PhaseWarmup
	switch n := len(next.Responses); {
	case n >= 3:
		target = entity.PhaseDeepDive
	case n >= 1:
		target = entity.PhaseTechnical
	}

	if phaseOrder[target] > phaseOrder[next.InterviewPhase] {
		next.InterviewPhase = target
	}
}

func finishInterview(next *entity.Session) {
	next.CurrentState = entity.StateSummary
	next.InterviewPhase = entity.PhaseWrapUp
}
