package session

import "github.com/provek/interview-sim/internal/entity"

// toSessionDTO converts a Session to its client-facing view. On the
// pressure screen the follow-up text replaces the question text and the
// fixed follow-up budget is attached.
func toSessionDTO(session *entity.Session) *entity.SessionDTO {
	dto := &entity.SessionDTO{
		ID:                   session.ID,
		Role:                 session.Role,
		CandidateName:        session.CandidateName,
		CurrentState:         session.CurrentState,
		InterviewPhase:       session.InterviewPhase,
		TimeRemainingSeconds: session.TimeRemainingSeconds,
		ResponseCount:        len(session.Responses),
		QuestionCount:        len(session.UsedQuestionIDs),
		WeakAreas:            append([]string{}, session.WeakAreas...),
		Topics:               append([]string{}, session.Topics...),
	}

	if q := session.CurrentQuestion; q != nil {
		questionDTO := &entity.QuestionDTO{
			ID:         q.ID,
			Text:       q.Text,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			StyleTag:   q.StyleTag,
		}
		if session.CurrentState == entity.StatePressure {
			questionDTO.Text = q.FollowUpText
			questionDTO.IsFollowUp = true
			questionDTO.TimeBudgetSeconds = entity.FollowUpBudgetSeconds
		}
		dto.CurrentQuestion = questionDTO
	}

	if session.CurrentState == entity.StateAIAssist && len(session.Responses) > 0 {
		last := session.Responses[len(session.Responses)-1].Evaluation
		dto.LastEvaluation = &last
	}

	return dto
}
