package question

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

const (
	performanceWindow = 3
	maxWeakAreas      = 2

	// generateFirstQuestionOdds is the probability of asking the generation
	// service even on the very first question.
	generateFirstQuestionOdds = 0.7

	cacheTTL   = 5 * time.Minute
	cacheSweep = 10 * time.Minute
)

// Performance labels sent to the generation service.
const (
	PerformanceStrong     = "strong"
	PerformanceStruggling = "struggling"
	PerformanceNeutral    = "neutral"
)

// GeneratorConnector asks the external service for a fresh question.
type GeneratorConnector interface {
	GenerateQuestion(ctx context.Context, req *entity.GenerateQuestionRequest) (*entity.GenerateQuestionResponse, error)
}

// Request carries the interview history the selector works from.
type Request struct {
	Difficulty        entity.Difficulty
	UsedQuestionIDs   []string
	UsedQuestionTypes []string
	Responses         []entity.Response
}

// Selector picks the next question: generated for variety when possible,
// canned pool otherwise. It always resolves to some question while any pool
// question remains; full exhaustion degrades to reusing the first pool
// question rather than failing the interview.
type Selector struct {
	pool      []entity.Question
	generator GeneratorConnector
	cache     *gocache.Cache
	logger    *zap.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

func NewSelector(pool []entity.Question, generator GeneratorConnector, logger *zap.Logger) *Selector {
	return NewSelectorWithRand(pool, generator, logger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSelectorWithRand injects the randomness source, for deterministic tests.
func NewSelectorWithRand(pool []entity.Question, generator GeneratorConnector, logger *zap.Logger, r *rand.Rand) *Selector {
	return &Selector{
		pool:      pool,
		generator: generator,
		cache:     gocache.New(cacheTTL, cacheSweep),
		logger:    logger,
		rand:      r,
	}
}

// Next resolves the next question for the given history.
func (s *Selector) Next(ctx context.Context, req Request) (*entity.Question, error) {
	target, performance := s.performanceWindow(req)
	weakAreas := s.weakAreas(req.Responses)

	if s.shouldGenerate(req, weakAreas) {
		if q := s.generate(ctx, target, performance, weakAreas, req); q != nil {
			return q, nil
		}
	}

	if q := s.fromPool(req.UsedQuestionIDs, target, weakAreas); q != nil {
		return q, nil
	}

	// Pool exhausted: one more attempt at generation, then degrade to
	// reusing the first pool question.
	if q := s.generate(ctx, target, performance, weakAreas, req); q != nil {
		return q, nil
	}
	if len(s.pool) == 0 {
		return nil, entity.ErrPoolExhausted
	}

	ctxzap.Warn(ctx, "question pool exhausted and generation failed, reusing first pool question",
		zap.String("question_id", s.pool[0].ID),
	)
	first := s.pool[0]
	return &first, nil
}

// performanceWindow inspects the last 3 responses and adjusts the target
// difficulty: two strong answers with no weak ones escalate to senior, two
// weak answers de-escalate to intermediate.
func (s *Selector) performanceWindow(req Request) (entity.Difficulty, string) {
	recent := req.Responses
	if len(recent) > performanceWindow {
		recent = recent[len(recent)-performanceWindow:]
	}

	weak, strong := 0, 0
	for _, r := range recent {
		if r.Evaluation.IsWeak {
			weak++
		} else if r.Evaluation.HasSpecifics && r.Evaluation.CoversCorePoints {
			strong++
		}
	}

	switch {
	case strong >= 2 && weak == 0:
		return entity.DifficultySenior, PerformanceStrong
	case weak >= 2:
		return entity.DifficultyIntermediate, PerformanceStruggling
	default:
		return req.Difficulty, PerformanceNeutral
	}
}

// weakAreas collects categories of the most recent weak responses,
// deduplicated and capped at 2. Follow-up response ids map back to their
// original question.
func (s *Selector) weakAreas(responses []entity.Response) []string {
	var areas []string
	for _, r := range responses {
		if !r.Evaluation.IsWeak {
			continue
		}
		id := strings.TrimSuffix(r.QuestionID, "-followup")
		if q := s.poolByID(id); q != nil && q.Category != "" {
			areas = append(areas, q.Category)
		}
	}

	seen := make(map[string]bool, len(areas))
	unique := areas[:0]
	for _, area := range areas {
		if !seen[area] {
			seen[area] = true
			unique = append(unique, area)
		}
	}
	if len(unique) > maxWeakAreas {
		unique = unique[len(unique)-maxWeakAreas:]
	}
	return unique
}

// shouldGenerate prefers dynamic generation for variety: always after the
// first response, whenever weak areas exist, and usually even on the very
// first question.
func (s *Selector) shouldGenerate(req Request, weakAreas []string) bool {
	if s.generator == nil {
		return false
	}
	if len(req.Responses) >= 1 || len(weakAreas) > 0 {
		return true
	}
	s.mu.Lock()
	roll := s.rand.Float64()
	s.mu.Unlock()
	return roll < generateFirstQuestionOdds
}

func (s *Selector) generate(ctx context.Context, difficulty entity.Difficulty, performance string, weakAreas []string, req Request) *entity.Question {
	if s.generator == nil {
		return nil
	}

	cacheKey := s.cacheKey(difficulty, req.UsedQuestionTypes, weakAreas)
	if cached, found := s.cache.Get(cacheKey); found {
		q := cached.(entity.Question)
		if !containsID(req.UsedQuestionIDs, q.ID) {
			ctxzap.Debug(ctx, "serving generated question from cache", zap.String("question_id", q.ID))
			return &q
		}
	}

	s.mu.Lock()
	styleTag := NextStyleTag(req.UsedQuestionTypes, s.rand)
	s.mu.Unlock()

	genReq := &entity.GenerateQuestionRequest{
		Difficulty:        difficulty,
		PreviousQuestions: s.previousQuestionTexts(req.UsedQuestionIDs),
		WeakAreas:         weakAreas,
		PerformanceLevel:  performance,
		UsedQuestionTypes: req.UsedQuestionTypes,
		StyleTag:          styleTag,
	}

	resp, err := s.generator.GenerateQuestion(ctx, genReq)
	if err != nil {
		ctxzap.Warn(ctx, "question generation failed, falling back to pool", zap.Error(err))
		return nil
	}
	if resp.Text == "" {
		ctxzap.Warn(ctx, "question generation returned empty text, falling back to pool")
		return nil
	}

	q := entity.Question{
		ID:                     resp.ID,
		Text:                   resp.Text,
		FollowUpText:           resp.FollowUp,
		Category:               resp.Category,
		Difficulty:             resp.Difficulty,
		StyleTag:               resp.StyleTag,
		ExpectedAnswerElements: resp.ExpectedAnswerElements,
		WeakAnswerIndicators:   resp.WeakAnswerIndicators,
		IsGenerated:            true,
	}
	if q.ID == "" {
		q.ID = "gen-" + uuid.New().String()
	}
	if q.Difficulty.Validate() != nil {
		q.Difficulty = difficulty
	}
	if !IsKnownStyleTag(q.StyleTag) {
		q.StyleTag = styleTag
	}

	s.cache.Set(cacheKey, q, gocache.DefaultExpiration)
	return &q
}

// fromPool picks an unused canned question, preferring the target
// difficulty, widening to any difficulty, and biasing toward weak areas.
func (s *Selector) fromPool(usedIDs []string, difficulty entity.Difficulty, weakAreas []string) *entity.Question {
	var candidates []entity.Question
	for _, q := range s.pool {
		if q.Difficulty == difficulty && !containsID(usedIDs, q.ID) {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		for _, q := range s.pool {
			if !containsID(usedIDs, q.ID) {
				candidates = append(candidates, q)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	for _, area := range weakAreas {
		for _, q := range candidates {
			if strings.Contains(strings.ToLower(q.Category), strings.ToLower(area)) {
				match := q
				return &match
			}
		}
	}

	s.mu.Lock()
	pick := candidates[s.rand.Intn(len(candidates))]
	s.mu.Unlock()
	return &pick
}

func (s *Selector) previousQuestionTexts(usedIDs []string) []string {
	texts := make([]string, 0, len(usedIDs))
	for _, id := range usedIDs {
		if q := s.poolByID(id); q != nil {
			texts = append(texts, q.Text)
		} else {
			texts = append(texts, id)
		}
	}
	return texts
}

func (s *Selector) poolByID(id string) *entity.Question {
	for i := range s.pool {
		if s.pool[i].ID == id {
			return &s.pool[i]
		}
	}
	return nil
}

func (s *Selector) cacheKey(difficulty entity.Difficulty, usedTypes, weakAreas []string) string {
	types := append([]string(nil), usedTypes...)
	areas := append([]string(nil), weakAreas...)
	sort.Strings(types)
	sort.Strings(areas)
	return string(difficulty) + "_" + strings.Join(types, ",") + "_" + strings.Join(areas, ",")
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
