package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/provek/interview-sim/internal/entity"
)

// BuildReport assembles the structured debrief for a finished interview.
// It only reads the session; nothing is recomputed or re-evaluated.
func BuildReport(session *entity.Session, now time.Time) (*entity.SummaryReport, error) {
	if session.CurrentState != entity.StateSummary {
		return nil, fmt.Errorf("%w: report requires summary, session is %s", entity.ErrWrongState, session.CurrentState)
	}

	items := make([]entity.ReportItem, 0, len(session.Responses))
	for _, r := range session.Responses {
		items = append(items, entity.ReportItem{
			QuestionID: r.QuestionID,
			AnswerText: r.AnswerText,
			AnsweredAt: r.Timestamp,
			IsFollowUp: strings.HasSuffix(r.QuestionID, "-followup"),
			IsWeak:     r.Evaluation.IsWeak,
			Reasoning:  r.Evaluation.Reasoning,
		})
	}

	timeUsed := 0
	if session.StartedAt != nil {
		timeUsed = session.DurationSeconds - session.RemainingSeconds(now)
	}

	return &entity.SummaryReport{
		SessionID:       session.ID,
		CandidateName:   session.CandidateName,
		Role:            session.Role,
		DurationSeconds: session.DurationSeconds,
		TimeUsedSeconds: timeUsed,
		TotalResponses:  len(session.Responses),
		StrongResponses: session.StrongResponseCount(),
		WeakAreas:       append([]string(nil), session.WeakAreas...),
		FinalPhase:      session.InterviewPhase,
		Items:           items,
		GeneratedAt:     now.UTC(),
	}, nil
}

// RenderText renders the debrief as the plain text handed to the file
// formatters. The markdown formatter prepends the document title.
func RenderText(r *entity.SummaryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Candidate: %s\n", r.CandidateName)
	fmt.Fprintf(&b, "Role: %s\n", r.Role)
	fmt.Fprintf(&b, "Time used: %s of %s\n", formatDuration(r.TimeUsedSeconds), formatDuration(r.DurationSeconds))
	fmt.Fprintf(&b, "Answers: %d (%d strong)\n", r.TotalResponses, r.StrongResponses)
	fmt.Fprintf(&b, "Final phase: %s\n", r.FinalPhase)

	if len(r.WeakAreas) > 0 {
		fmt.Fprintf(&b, "Areas to improve: %s\n", strings.Join(r.WeakAreas, ", "))
	}

	for i, item := range r.Items {
		b.WriteString("\n")
		label := fmt.Sprintf("Answer %d", i+1)
		if item.IsFollowUp {
			label += " (follow-up)"
		}
		verdict := "solid"
		if item.IsWeak {
			verdict = "weak"
		}
		fmt.Fprintf(&b, "%s - %s\n", label, verdict)
		fmt.Fprintf(&b, "%s\n", item.AnswerText)
		if item.Reasoning != "" {
			fmt.Fprintf(&b, "Assessment: %s\n", item.Reasoning)
		}
	}

	return b.String()
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
