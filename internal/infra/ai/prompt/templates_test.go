package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
)

func TestForCategoryKnown(t *testing.T) {
	for _, c := range Categories() {
		list := ForCategory(c)
		require.Len(t, list, 5, "category %s", c)
		assert.True(t, Known(c))
	}
}

func TestForCategoryFallsBackToDefault(t *testing.T) {
	got := ForCategory("marketing")
	assert.Equal(t, ForCategory(documents.DefaultCategory), got)
	assert.False(t, Known("marketing"))
}

func TestForCategoryReturnsCopy(t *testing.T) {
	list := ForCategory(documents.CategoryViability)
	list[0] = "mutated"
	assert.NotEqual(t, "mutated", ForCategory(documents.CategoryViability)[0])
}

func TestCategoriesSorted(t *testing.T) {
	assert.Equal(t, []documents.Category{
		documents.CategoryDesirability,
		documents.CategoryFeasibility,
		documents.CategoryViability,
	}, Categories())
}

func TestIdeationPromptTruncatesInsight(t *testing.T) {
	insight := strings.Repeat("a", 800)
	p := IdeationPrompt(insight, 3)
	assert.Contains(t, p, strings.Repeat("a", 500)+`"`)
	assert.NotContains(t, p, strings.Repeat("a", 501))
	assert.Contains(t, p, "generate 3 innovative")
}

func TestDemoResponseUsesPromptPrefix(t *testing.T) {
	p := "Analyze the user needs and pain points in this document. What problems are being addressed?"
	got := DemoResponse(p)
	assert.True(t, strings.HasPrefix(got, "Demo analysis for: Analyze the user needs and pain points in this doc..."))
}

func TestGetUserPrompt(t *testing.T) {
	assert.Equal(t, "Q\n\nDocument content:\nbody", GetUserPrompt("Q", "body"))
}
