package prompt

import (
	"sort"

	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
)

var templates = map[documents.Category][]string{
	documents.CategoryDesirability: {
		"Analyze the user needs and pain points in this document. What problems are being addressed?",
		"Evaluate the target market and customer segments. How well-defined is the audience?",
		"Assess the value proposition. How compelling is the solution for users?",
		"Review any user research or validation mentioned. How strong is the evidence of demand?",
		"Analyze competitive positioning and differentiation factors discussed.",
	},
	documents.CategoryViability: {
		"Analyze the business model and revenue streams described in this document.",
		"Evaluate the cost structure and financial projections mentioned.",
		"Assess the market opportunity and scalability potential discussed.",
		"Review the go-to-market strategy and distribution channels outlined.",
		"Analyze the competitive landscape and market positioning strategy.",
	},
	documents.CategoryFeasibility: {
		"Analyze the technical requirements and implementation approach described.",
		"Evaluate the resource requirements (team, budget, timeline) mentioned.",
		"Assess the technical risks and challenges identified in the document.",
		"Review the operational capabilities and infrastructure needs discussed.",
		"Analyze the development roadmap and milestone planning if present.",
	},
}

// ForCategory returns the ordered prompts for c, falling back to the
// default category's prompts when c is unknown. The slice is a copy.
func ForCategory(c documents.Category) []string {
	list, ok := templates[c]
	if !ok {
		list = templates[documents.DefaultCategory]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Known reports whether c has its own template list.
func Known(c documents.Category) bool {
	_, ok := templates[c]
	return ok
}

// Categories lists the template keys in alphabetical order.
func Categories() []documents.Category {
	out := make([]documents.Category, 0, len(templates))
	for c := range templates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
