package ideas

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	domideas "github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
)

const (
	minLineLength = 20
	minIdeaLength = 10
)

var (
	leadingNumber = regexp.MustCompile(`^\d+\.\s*`)
	leadingBullet = regexp.MustCompile(`^[-*•]\s*`)
	integers      = regexp.MustCompile(`\d+`)
)

// SplitIdeas cuts an ideation response into candidate ideas: lines longer
// than 20 characters, numbering and bullets stripped, at least 11
// characters left, at most limit kept.
func SplitIdeas(response string, limit int) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(response, "\n") {
		if utf8.RuneCountInString(strings.TrimSpace(line)) <= minLineLength {
			continue
		}
		cleaned := leadingNumber.ReplaceAllString(line, "")
		cleaned = leadingBullet.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		if utf8.RuneCountInString(cleaned) <= minIdeaLength {
			continue
		}
		out = append(out, cleaned)
	}
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ParseScores reads the first three integers of a rating reply, each clamped
// to [1,10]. ok is false when fewer than three integers are present.
func ParseScores(reply string) (domideas.Scores, bool) {
	found := integers.FindAllString(reply, 3)
	if len(found) < 3 {
		return domideas.Scores{}, false
	}
	v := make([]float64, 3)
	for i, s := range found {
		n, err := strconv.Atoi(s)
		if err != nil {
			// only overflow gets here
			n = 10
		}
		v[i] = float64(min(10, max(1, n)))
	}
	return domideas.NewScores(v[0], v[1], v[2]), true
}
