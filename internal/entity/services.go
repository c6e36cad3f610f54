package entity

// ResponseSignal is the per-response performance context sent to the
// evaluation service so it can calibrate leniency.
type ResponseSignal struct {
	IsWeak           bool `json:"is_weak"`
	HasSpecifics     bool `json:"has_specifics"`
	CoversCorePoints bool `json:"covers_core_points"`
}

type EvaluateAnswerRequest struct {
	Answer                 string           `json:"answer"`
	QuestionDifficulty     Difficulty       `json:"question_difficulty"`
	QuestionText           string           `json:"question_text"`
	ExpectedAnswerElements []string         `json:"expected_answer_elements,omitempty"`
	WeakAnswerIndicators   []string         `json:"weak_answer_indicators,omitempty"`
	PreviousResponses      []ResponseSignal `json:"previous_responses"`
}

// EvaluateAnswerResponse must carry exactly the four boolean fields plus
// reasoning; anything else is treated as a malformed reply.
type EvaluateAnswerResponse struct {
	IsWeak           *bool  `json:"is_weak"`
	HasSpecifics     *bool  `json:"has_specifics"`
	HasRealExample   *bool  `json:"has_real_example"`
	CoversCorePoints *bool  `json:"covers_core_points"`
	Reasoning        string `json:"reasoning"`
}

type GenerateQuestionRequest struct {
	Difficulty        Difficulty `json:"difficulty"`
	PreviousQuestions []string   `json:"previous_questions"`
	WeakAreas         []string   `json:"weak_areas"`
	PerformanceLevel  string     `json:"performance_level"`
	UsedQuestionTypes []string   `json:"used_question_types"`
	StyleTag          string     `json:"style_tag"`
}

type GenerateQuestionResponse struct {
	ID                     string     `json:"id"`
	Text                   string     `json:"text"`
	FollowUp               string     `json:"follow_up"`
	Category               string     `json:"category"`
	Difficulty             Difficulty `json:"difficulty"`
	StyleTag               string     `json:"style_tag,omitempty"`
	ExpectedAnswerElements []string   `json:"expected_answer_elements,omitempty"`
	WeakAnswerIndicators   []string   `json:"weak_answer_indicators,omitempty"`
}

type GenerateFollowUpRequest struct {
	OriginalQuestion string     `json:"original_question"`
	OriginalAnswer   string     `json:"original_answer"`
	Evaluation       Evaluation `json:"evaluation"`
	Difficulty       Difficulty `json:"difficulty"`
}

type GenerateFollowUpResponse struct {
	FollowUpQuestion    string `json:"follow_up_question"`
	FocusArea           string `json:"focus_area"`
	ExpectedImprovement string `json:"expected_improvement"`
}
