package question

import "math/rand"

// StyleTags is the closed set of question styles used to push the
// generation service toward variety. Tag names travel on the wire, so the
// set is append-only.
var StyleTags = []string{
	"scenario-based",
	"debugging",
	"architecture",
	"optimization",
	"best-practices",
	"code-review",
	"comparison",
	"troubleshooting",
	"scaling",
	"trade-offs",
}

// NextStyleTag picks an unused tag at random. When every tag has been used
// it picks any tag again rather than failing.
func NextStyleTag(usedTags []string, r *rand.Rand) string {
	used := make(map[string]bool, len(usedTags))
	for _, tag := range usedTags {
		used[tag] = true
	}

	available := make([]string, 0, len(StyleTags))
	for _, tag := range StyleTags {
		if !used[tag] {
			available = append(available, tag)
		}
	}
	if len(available) == 0 {
		return StyleTags[r.Intn(len(StyleTags))]
	}
	return available[r.Intn(len(available))]
}

// IsKnownStyleTag reports whether the tag belongs to the closed set.
func IsKnownStyleTag(tag string) bool {
	for _, known := range StyleTags {
		if known == tag {
			return true
		}
	}
	return false
}
