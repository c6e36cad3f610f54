package entity

// StartInterviewRequest is the body of POST /interview-session.
type StartInterviewRequest struct {
	CandidateName   string `json:"candidate_name"`
	Role            string `json:"role,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// SubmitAnswerRequest is the body of POST /interview-session/{id}/answer.
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

// QuestionDTO is the client-facing view of the current question. Expected
// answer elements and weak indicators never leave the server.
type QuestionDTO struct {
	ID                string     `json:"id"`
	Text              string     `json:"text"`
	Category          string     `json:"category"`
	Difficulty        Difficulty `json:"difficulty"`
	StyleTag          string     `json:"style_tag,omitempty"`
	IsFollowUp        bool       `json:"is_follow_up"`
	TimeBudgetSeconds int        `json:"time_budget_seconds,omitempty"`
}

// SessionDTO is the client-facing session snapshot.
type SessionDTO struct {
	ID                   string         `json:"id"`
	Role                 string         `json:"role"`
	CandidateName        string         `json:"candidate_name"`
	CurrentState         InterviewState `json:"current_state"`
	InterviewPhase       InterviewPhase `json:"interview_phase"`
	TimeRemainingSeconds int            `json:"time_remaining_seconds"`
	CurrentQuestion      *QuestionDTO   `json:"current_question,omitempty"`
	LastEvaluation       *Evaluation    `json:"last_evaluation,omitempty"`
	ResponseCount        int            `json:"response_count"`
	QuestionCount        int            `json:"question_count"`
	WeakAreas            []string       `json:"weak_areas"`
	Topics               []string       `json:"topics"`
}
