package evaluation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/provek/interview-sim/internal/entity"
)

const (
	minAnswerLength    = 25
	substanceLength    = 80
	minTechnicalTerms  = 2
	minExperienceTerms = 1
	maxFreeBuzzwords   = 3
)

// Heuristic is the offline evaluation tier: a deterministic scorer over the
// answer text. It serves both as the fallback when the evaluation service
// fails and as a standalone evaluator when no service is configured.
type Heuristic struct {
	technical  *regexp.Regexp
	experience *regexp.Regexp
	metrics    *regexp.Regexp
	buzzwords  *regexp.Regexp
	inability  *regexp.Regexp
	hedge      *regexp.Regexp
	hedged     *regexp.Regexp
}

// NewHeuristic compiles the lexicon into a scorer. Identical input always
// yields an identical verdict; there is no randomness in this tier.
func NewHeuristic(lex Lexicon) (*Heuristic, error) {
	technical, err := regexp.Compile(termsPattern(lex.TechnicalTerms))
	if err != nil {
		return nil, fmt.Errorf("compile technical terms: %w", err)
	}
	experience, err := regexp.Compile(fragmentsPattern(lex.ExperiencePhrases))
	if err != nil {
		return nil, fmt.Errorf("compile experience phrases: %w", err)
	}
	metrics, err := regexp.Compile(fragmentsPattern(lex.MetricPatterns))
	if err != nil {
		return nil, fmt.Errorf("compile metric patterns: %w", err)
	}
	buzzwords, err := regexp.Compile(termsPattern(lex.Buzzwords))
	if err != nil {
		return nil, fmt.Errorf("compile buzzwords: %w", err)
	}
	inability, err := regexp.Compile(fragmentsPattern(lex.InabilityPhrases))
	if err != nil {
		return nil, fmt.Errorf("compile inability phrases: %w", err)
	}
	hedge, err := regexp.Compile(`(?i)^(` + strings.Join(lex.HedgeWords, "|") + `)\.?$`)
	if err != nil {
		return nil, fmt.Errorf("compile hedge words: %w", err)
	}
	hedged := regexp.MustCompile(`(?i)\b(would|could|might|should)\b.*\b(probably|maybe|possibly|theoretically)\b`)

	return &Heuristic{
		technical:  technical,
		experience: experience,
		metrics:    metrics,
		buzzwords:  buzzwords,
		inability:  inability,
		hedge:      hedge,
		hedged:     hedged,
	}, nil
}

// MustNewHeuristic panics on a bad lexicon; for use with the defaults.
func MustNewHeuristic(lex Lexicon) *Heuristic {
	h, err := NewHeuristic(lex)
	if err != nil {
		panic(err)
	}
	return h
}

// Evaluate scores the answer. CoversCorePoints cannot be judged without the
// external evaluator, so the fallback derives it from the two signals it can
// compute (hasSpecifics AND hasRealExample); deriving instead of pinning
// false keeps the selector's difficulty escalation reachable offline.
func (h *Heuristic) Evaluate(answer string, difficulty entity.Difficulty) entity.Evaluation {
	trimmed := strings.TrimSpace(answer)

	if verdict, rejected := h.trivialReject(answer, trimmed); rejected {
		return verdict
	}

	technicalCount := len(h.technical.FindAllString(answer, -1))
	experienceCount := len(h.experience.FindAllString(answer, -1))
	metricsCount := len(h.metrics.FindAllString(answer, -1))
	buzzwordCount := len(h.buzzwords.FindAllString(answer, -1))

	hasSpecifics := technicalCount >= minTechnicalTerms
	hasRealExample := experienceCount >= minExperienceTerms
	hasMetrics := metricsCount >= 1
	hasSubstance := len(trimmed) >= substanceLength

	isWeak := false
	reasoning := ""

	if difficulty == entity.DifficultySenior {
		// Senior answers need technical depth, real experience and substance,
		// all at once.
		if !hasSpecifics || !hasRealExample || !hasSubstance {
			isWeak = true
			var missing []string
			if !hasSpecifics {
				missing = append(missing, fmt.Sprintf("technical specifics (found %d, need %d+)", technicalCount, minTechnicalTerms))
			}
			if !hasRealExample {
				missing = append(missing, fmt.Sprintf("real work experience (found %d, need %d+)", experienceCount, minExperienceTerms))
			}
			if !hasSubstance {
				missing = append(missing, fmt.Sprintf("sufficient detail (need %d+ chars)", substanceLength))
			}
			reasoning = "Senior-level answer missing: " + strings.Join(missing, ", ")
		}
	} else {
		switch {
		case !hasSubstance:
			isWeak = true
			reasoning = fmt.Sprintf("Answer too brief (%d chars) - needs detailed explanation", len(trimmed))
		case !hasSpecifics && !hasRealExample:
			isWeak = true
			reasoning = fmt.Sprintf("Lacks both technical depth (%d terms) and work experience (%d references)", technicalCount, experienceCount)
		case buzzwordCount > maxFreeBuzzwords && technicalCount == 0 && experienceCount == 0:
			isWeak = true
			reasoning = "Generic buzzwords without concrete technical details or experience"
		}
	}

	if !isWeak {
		var strengths []string
		if hasSpecifics {
			strengths = append(strengths, fmt.Sprintf("technical depth (%d terms)", technicalCount))
		}
		if hasRealExample {
			strengths = append(strengths, fmt.Sprintf("work experience (%d references)", experienceCount))
		}
		if hasMetrics {
			strengths = append(strengths, fmt.Sprintf("measurable outcomes (%d metrics)", metricsCount))
		}
		if len(strengths) > 0 {
			reasoning = "Strong answer with " + strings.Join(strengths, " and ")
		} else {
			reasoning = "Answer demonstrates good understanding with sufficient detail"
		}
	}

	return entity.Evaluation{
		IsWeak:           isWeak,
		HasSpecifics:     hasSpecifics,
		HasRealExample:   hasRealExample,
		CoversCorePoints: hasSpecifics && hasRealExample,
		Reasoning:        reasoning,
	}
}

// trivialReject catches answers that need no scoring: explicit admissions of
// not knowing, answers too short to judge, and hedge-only responses.
func (h *Heuristic) trivialReject(answer, trimmed string) (entity.Evaluation, bool) {
	reject := func(reasoning string) (entity.Evaluation, bool) {
		return entity.Evaluation{
			IsWeak:    true,
			Reasoning: reasoning,
		}, true
	}

	if h.inability.MatchString(answer) {
		return reject("Explicit statement of inability to answer")
	}
	if len(trimmed) < minAnswerLength {
		return reject("Response too brief to demonstrate knowledge")
	}
	if h.hedge.MatchString(trimmed) {
		return reject("Avoidance or purely hypothetical response")
	}
	if h.hedged.MatchString(answer) && len(trimmed) < substanceLength {
		return reject("Avoidance or purely hypothetical response")
	}
	return entity.Evaluation{}, false
}
