package evaluation

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the pattern vocabulary the heuristic scores against. The
// lists are policy, not truth: they can be replaced wholesale from a YAML
// file without touching the scoring rules.
//
// TechnicalTerms and Buzzwords are literal terms (matched on word
// boundaries, case-insensitive). ExperiencePhrases, MetricPatterns and
// InabilityPhrases are regular-expression fragments joined by alternation.
type Lexicon struct {
	TechnicalTerms    []string `yaml:"technical_terms"`
	Buzzwords         []string `yaml:"buzzwords"`
	ExperiencePhrases []string `yaml:"experience_phrases"`
	MetricPatterns    []string `yaml:"metric_patterns"`
	InabilityPhrases  []string `yaml:"inability_phrases"`
	HedgeWords        []string `yaml:"hedge_words"`
}

// DefaultLexicon returns the built-in frontend-interview vocabulary.
func DefaultLexicon() Lexicon {
	return Lexicon{
		TechnicalTerms: []string{
			"usememo", "usecallback", "useeffect", "usestate", "usecontext",
			"usereducer", "react.memo", "memo", "lazy", "suspense", "portal",
			"fragment", "strictmode", "jsx", "tsx", "component", "props",
			"state", "hook", "lifecycle", "render", "reconciliation",
			"virtual dom", "fiber", "ssr", "csr", "hydration", "code splitting",
			"tree shaking", "webpack", "vite", "rollup", "babel", "typescript",
			"jest", "cypress", "testing library", "enzyme", "storybook",
			"redux", "zustand", "mobx", "context api", "custom hook",
			"higher order component", "hoc", "compound component",
			"render prop", "children", "ref", "useref", "useimperativehandle",
			"forwardref", "api", "rest", "graphql", "fetch", "axios", "async",
			"await", "promise", "callback", "event handler", "onclick",
			"onchange", "onsubmit", "performance", "optimization", "bundle",
			"lazy loading", "memoization", "debounce", "throttle",
			"lighthouse", "devtools", "eslint", "prettier", "git", "github",
			"deployment", "ci cd", "docker", "kubernetes",
		},
		Buzzwords: []string{
			"leverage", "utilize", "implement", "optimize", "enhance",
			"streamline", "robust", "scalable", "efficient", "effective",
			"powerful", "flexible", "innovative", "cutting edge",
			"state of the art", "best practices", "industry standards",
			"enterprise grade", "mission critical", "game changing",
			"revolutionary", "disruptive", "synergistic", "holistic",
			"comprehensive", "strategic", "tactical", "dynamic", "agile",
			"lean", "seamless", "intuitive",
		},
		ExperiencePhrases: []string{
			`at (my )?(previous|last|current|former) (job|company|role|position|workplace)`,
			`at [a-z]+ (company|corp|inc|llc|startup|agency)`,
			`we (built|developed|implemented|deployed|shipped|created|designed)`,
			`our (team|client|project|application|system|product|website|platform)`,
			`production (environment|deployment|issue|bug|system|application)`,
			`i (built|developed|implemented|fixed|debugged|optimized|refactored|designed|architected|created|shipped)`,
			`real (project|application|system|world|client)`,
			`work(ed|ing) (on|with|for|at)`,
			`client (project|requirement|feedback|request)`,
			`user (feedback|complaints|issues|testing|research)`,
			`launched`, `released`, `delivered`, `maintained`,
		},
		MetricPatterns: []string{
			`\d+(\.\d+)?%`,
			`\d+x (faster|slower|better|worse)`,
			`\d+ (ms|milliseconds?|seconds?|minutes?|hours?|days?|weeks?|months?|users?|customers?|requests?|calls?|mb|kb|gb|tb)`,
			`(improved|reduced|increased|decreased|boosted|enhanced|optimized) by \d+`,
			`from \d+ to \d+`,
			`(before|after): ?\d+`,
			`up to \d+`,
			`over \d+`,
			`under \d+`,
			`\d+ (times|fold)`,
		},
		InabilityPhrases: []string{
			`\b(can't|cannot|can not)\b.*\b(answer|elaborate|explain|help|say|tell)\b`,
			`\b(don't know|dont know|dunno|no idea|no clue|not sure|unsure)\b`,
			`\b(haven't|havent|never)\b.*\b(done|worked|used|tried|experienced)\b`,
			`\b(no experience|not familiar)\b`,
		},
		HedgeWords: []string{
			"yes", "no", "maybe", "i think", "probably", "i guess",
			"well", "um", "uh", "hmm", "pass", "skip",
		},
	}
}

// LoadLexicon reads a YAML lexicon file. A missing file is not an error:
// the built-in vocabulary is returned so deployments without an override
// still work. Empty lists in a loaded file also fall back to the built-in
// defaults, so a file can override just one category.
func LoadLexicon(path string) (Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultLexicon(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon file: %w", err)
	}

	var loaded Lexicon
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon YAML: %w", err)
	}

	base := DefaultLexicon()
	if len(loaded.TechnicalTerms) > 0 {
		base.TechnicalTerms = loaded.TechnicalTerms
	}
	if len(loaded.Buzzwords) > 0 {
		base.Buzzwords = loaded.Buzzwords
	}
	if len(loaded.ExperiencePhrases) > 0 {
		base.ExperiencePhrases = loaded.ExperiencePhrases
	}
	if len(loaded.MetricPatterns) > 0 {
		base.MetricPatterns = loaded.MetricPatterns
	}
	if len(loaded.InabilityPhrases) > 0 {
		base.InabilityPhrases = loaded.InabilityPhrases
	}
	if len(loaded.HedgeWords) > 0 {
		base.HedgeWords = loaded.HedgeWords
	}
	return base, nil
}

func termsPattern(terms []string) string {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped = append(escaped, regexp.QuoteMeta(t))
	}
	return `(?i)\b(` + strings.Join(escaped, "|") + `)\b`
}

func fragmentsPattern(fragments []string) string {
	grouped := make([]string, 0, len(fragments))
	for _, f := range fragments {
		grouped = append(grouped, "(?:"+f+")")
	}
	return `(?i)` + strings.Join(grouped, "|")
}
