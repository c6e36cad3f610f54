package entity

import (
	"fmt"
	"time"
)

type Difficulty string

const (
	DifficultyEntry        Difficulty = "entry"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultySenior       Difficulty = "senior"
)

func (d Difficulty) Validate() error {
	switch d {
	case DifficultyEntry, DifficultyIntermediate, DifficultySenior:
		return nil
	default:
		return fmt.Errorf("unknown difficulty: %s", d)
	}
}

// Question is a single interview question, either from the canned pool or
// produced by the generation service.
type Question struct {
	ID                     string     `json:"id"`
	Text                   string     `json:"text"`
	FollowUpText           string     `json:"follow_up_text,omitempty"`
	Category               string     `json:"category"`
	Difficulty             Difficulty `json:"difficulty"`
	ExpectedAnswerElements []string   `json:"expected_answer_elements,omitempty"`
	WeakAnswerIndicators   []string   `json:"weak_answer_indicators,omitempty"`

	// IsGenerated marks questions from the generation service so pacing
	// logic can tell manufactured variety questions from the fixed pool.
	IsGenerated bool   `json:"is_generated,omitempty"`
	StyleTag    string `json:"style_tag,omitempty"`
}

// HasFollowUp reports whether the question carries a canned follow-up.
func (q *Question) HasFollowUp() bool {
	return q != nil && q.FollowUpText != ""
}

// FollowUpID is the conventional response id for a follow-up answer.
func FollowUpID(questionID string) string {
	return questionID + "-followup"
}

// Evaluation is the structured verdict for one answer. Produced once at
// submission time, never recomputed.
type Evaluation struct {
	IsWeak           bool   `json:"is_weak"`
	HasSpecifics     bool   `json:"has_specifics"`
	HasRealExample   bool   `json:"has_real_example"`
	CoversCorePoints bool   `json:"covers_core_points"`
	Reasoning        string `json:"reasoning"`
}

// GenuinelyWeak is the escalation predicate: weak with no partial credit on
// any positive sub-signal. Stricter than IsWeak alone so borderline answers
// do not trigger the pressure screen.
func (e Evaluation) GenuinelyWeak() bool {
	return e.IsWeak && !e.HasSpecifics && !e.HasRealExample && !e.CoversCorePoints
}

// Response records one submitted answer. Immutable once appended.
type Response struct {
	QuestionID string     `json:"question_id"`
	AnswerText string     `json:"answer_text"`
	Timestamp  time.Time  `json:"timestamp"`
	Evaluation Evaluation `json:"evaluation"`
}
