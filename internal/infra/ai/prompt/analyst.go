package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// insightExcerpt bounds how much of a prior analysis goes into an ideation prompt.
const insightExcerpt = 500

// GetSystemPrompt is the fixed system instruction sent with every completion.
func GetSystemPrompt() string {
	return "You are an expert business analyst and innovation consultant. Provide detailed, actionable insights."
}

// GetUserPrompt places the document text under the analysis prompt.
func GetUserPrompt(prompt, content string) string {
	return fmt.Sprintf("%s\n\nDocument content:\n%s", prompt, content)
}

// IdeationPrompt asks for n ideas grounded on one prior analysis response.
func IdeationPrompt(insight string, n int) string {
	return fmt.Sprintf(
		"Based on this business insight: \"%s\", generate %d innovative, specific, and actionable solution ideas. Focus on practical implementations.",
		truncate(insight, insightExcerpt), n,
	)
}

// EvaluationPrompt asks for three comma-separated 1-10 ratings.
func EvaluationPrompt(idea string) string {
	return fmt.Sprintf(
		"Rate this business idea on Desirability (1-10), Viability (1-10), and Feasibility (1-10). Respond with just three numbers separated by commas. Idea: \"%s\"",
		idea,
	)
}

// DemoResponse is returned instead of a completion when no provider is configured.
func DemoResponse(prompt string) string {
	var b strings.Builder
	b.WriteString("Demo analysis for: ")
	b.WriteString(truncate(prompt, 50))
	b.WriteString("...\n\n")
	b.WriteString("This document analysis reveals several key insights. The content demonstrates moderate to strong alignment with the evaluation criteria. ")
	b.WriteString("Key considerations include user-centered design principles, market validation opportunities, and technical implementation pathways. ")
	b.WriteString("Recommended next steps include further validation and stakeholder alignment.")
	return b.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
