package entity

import (
	"fmt"
	"time"
)

type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatPDF      ReportFormat = "pdf"
)

func (f ReportFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatPDF:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f)
	}
}

// SummaryReport is the structured interview debrief shown on the summary
// screen and exported as a file.
type SummaryReport struct {
	SessionID       string         `json:"session_id"`
	CandidateName   string         `json:"candidate_name"`
	Role            string         `json:"role"`
	DurationSeconds int            `json:"duration_seconds"`
	TimeUsedSeconds int            `json:"time_used_seconds"`
	TotalResponses  int            `json:"total_responses"`
	StrongResponses int            `json:"strong_responses"`
	WeakAreas       []string       `json:"weak_areas"`
	FinalPhase      InterviewPhase `json:"final_phase"`
	Items           []ReportItem   `json:"items"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ReportItem is one answered question in the debrief.
type ReportItem struct {
	QuestionID string    `json:"question_id"`
	AnswerText string    `json:"answer_text"`
	AnsweredAt time.Time `json:"answered_at"`
	IsFollowUp bool      `json:"is_follow_up"`
	IsWeak     bool      `json:"is_weak"`
	Reasoning  string    `json:"reasoning"`
}
