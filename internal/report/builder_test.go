package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/provek/interview-sim/internal/entity"
)

func finishedSession() *entity.Session {
	started := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	session := entity.NewSession("sess-1")
	session.CandidateName = "Dana"
	session.CurrentState = entity.StateSummary
	session.InterviewPhase = entity.PhaseWrapUp
	session.StartedAt = &started
	session.WeakAreas = []string{"State Management"}
	session.Responses = []entity.Response{
		{
			QuestionID: "q1",
			AnswerText: "We split the store per feature at my last job.",
			Timestamp:  started.Add(time.Minute),
			Evaluation: entity.Evaluation{Reasoning: "Strong answer with technical depth"},
		},
		{
			QuestionID: "q2",
			AnswerText: "Not sure.",
			Timestamp:  started.Add(2 * time.Minute),
			Evaluation: entity.Evaluation{IsWeak: true, Reasoning: "Response too brief to demonstrate knowledge"},
		},
		{
			QuestionID: "q2-followup",
			AnswerText: "OK, one concrete case was the checkout form.",
			Timestamp:  started.Add(3 * time.Minute),
			Evaluation: entity.Evaluation{HasSpecifics: true, Reasoning: "better"},
		},
	}
	return session
}

func TestBuildReport(t *testing.T) {
	session := finishedSession()
	now := session.StartedAt.Add(5 * time.Minute)

	got, err := BuildReport(session, now)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if got.TotalResponses != 3 || got.StrongResponses != 2 {
		t.Errorf("counts = %d total / %d strong, want 3/2", got.TotalResponses, got.StrongResponses)
	}
	if got.TimeUsedSeconds != 300 {
		t.Errorf("TimeUsedSeconds = %d, want 300", got.TimeUsedSeconds)
	}
	if len(got.Items) != 3 {
		t.Fatalf("Items = %d, want 3", len(got.Items))
	}
	if !got.Items[2].IsFollowUp {
		t.Errorf("Items[2].IsFollowUp = false, want follow-up detected from id")
	}
	if got.Items[1].IsFollowUp {
		t.Errorf("Items[1].IsFollowUp = true, want false")
	}
}

func TestBuildReportRequiresSummaryState(t *testing.T) {
	session := finishedSession()
	session.CurrentState = entity.StateActive

	_, err := BuildReport(session, time.Now())
	if !errors.Is(err, entity.ErrWrongState) {
		t.Errorf("err = %v, want ErrWrongState", err)
	}
}

func TestRenderText(t *testing.T) {
	session := finishedSession()
	r, err := BuildReport(session, session.StartedAt.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	text := RenderText(r)

	for _, want := range []string{
		"Candidate: Dana",
		"Time used: 05:00 of 20:00",
		"Answers: 3 (2 strong)",
		"Areas to improve: State Management",
		"Answer 2 - weak",
		"Answer 3 (follow-up)",
		"Assessment: Response too brief to demonstrate knowledge",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q\n%s", want, text)
		}
	}
}
