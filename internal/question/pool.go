package question

import (
	"fmt"
	"os"

	"github.com/provek/interview-sim/internal/entity"
	"gopkg.in/yaml.v3"
)

// DefaultPool is the built-in canned question set used when no pool file is
// configured. It is the fallback when the generation service is skipped or
// failing, so it must always be available.
func DefaultPool() []entity.Question {
	return []entity.Question{
		{
			ID:           "react-hooks-1",
			Text:         "Explain the difference between useState and useEffect. When would you use each?",
			FollowUpText: "I need a specific example. Walk me through a real component where you had performance issues due to improper useEffect usage. What was the bug and how did you fix it?",
			Category:     "React Hooks",
			Difficulty:   entity.DifficultyIntermediate,
		},
		{
			ID:           "state-management-1",
			Text:         "How do you decide between local component state versus global state management?",
			FollowUpText: "Give me a concrete example from a project. What was the specific point where local state became insufficient? What metrics or pain points drove that decision?",
			Category:     "State Management",
			Difficulty:   entity.DifficultySenior,
		},
		{
			ID:           "performance-1",
			Text:         "What are some techniques you use to optimize React component performance?",
			FollowUpText: "Tell me about the worst performance problem you ever debugged in React. What tools did you use? How did you isolate the issue? What was the root cause?",
			Category:     "Performance Optimization",
			Difficulty:   entity.DifficultySenior,
		},
		{
			ID:           "architecture-1",
			Text:         "How do you structure a large React application?",
			FollowUpText: "Describe the folder structure and component hierarchy for the most complex React app you built. How many developers worked on it? How did you prevent conflicts?",
			Category:     "Component Architecture",
			Difficulty:   entity.DifficultySenior,
		},
		{
			ID:           "testing-1",
			Text:         "What is your approach to testing React components?",
			FollowUpText: "Walk me through testing a component with async operations, user interactions, and external API calls. Show me the actual test code structure.",
			Category:     "Testing",
			Difficulty:   entity.DifficultyIntermediate,
		},
		{
			ID:           "hooks-advanced-1",
			Text:         "When would you create a custom hook versus just using built-in hooks?",
			FollowUpText: "Show me a custom hook you wrote. What problem did it solve? How did you handle edge cases and testing?",
			Category:     "React Hooks",
			Difficulty:   entity.DifficultySenior,
		},
		{
			ID:           "error-boundaries-1",
			Text:         "How do you handle errors in React applications?",
			FollowUpText: "Describe a production error you had to debug. How did you track it down? What monitoring did you put in place to prevent it happening again?",
			Category:     "Error Handling",
			Difficulty:   entity.DifficultySenior,
		},
		{
			ID:           "bundle-optimization-1",
			Text:         "How do you optimize bundle size in a React application?",
			FollowUpText: "Tell me about a time you had to reduce bundle size on a production app. What was the size before and after? Which techniques had the biggest impact?",
			Category:     "Performance Optimization",
			Difficulty:   entity.DifficultySenior,
		},
	}
}

type poolFile struct {
	Questions []entity.Question `yaml:"questions"`
}

// LoadPool reads a YAML question pool. A missing file is not an error: the
// built-in pool is returned so deployments without a pool file still work.
func LoadPool(path string) ([]entity.Question, error) {
	if path == "" {
		return DefaultPool(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultPool(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question pool file: %w", err)
	}

	var file poolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse question pool YAML: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("question pool file contains no questions: %s", path)
	}

	seen := make(map[string]bool, len(file.Questions))
	for i, q := range file.Questions {
		if q.ID == "" || q.Text == "" {
			return nil, fmt.Errorf("question %d: %w: id and text", i, entity.ErrMissingField)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id: %s", q.ID)
		}
		seen[q.ID] = true
		if err := q.Difficulty.Validate(); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
	}

	return file.Questions, nil
}
