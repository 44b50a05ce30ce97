package rejections

import "strings"

// Rejection categories, in match-priority order.
const (
	CategoryDocumentation    = "documentation"
	CategoryEligibility      = "eligibility"
	CategoryMedicalNecessity = "medical_necessity"
	CategoryCoding           = "coding"
	CategoryAdministrative   = "administrative"
	CategoryUncategorized    = "uncategorized"
)

// categoryRule pairs a category with the keywords that assign a
// rejection reason to it.
type categoryRule struct {
	category string
	keywords []string
}

// categoryRules is the fixed, ordered category table. A reason is
// assigned to the first category with a matching keyword, so a reason
// containing both documentation and coding keywords always lands in
// documentation. Iteration order is part of the contract; never replace
// this slice with a map.
var categoryRules = []categoryRule{
	{CategoryDocumentation, []string{
		"document", "documentation", "paperwork", "signature",
		"incomplete", "attachment", "missing form", "records not",
	}},
	{CategoryEligibility, []string{
		"eligib", "coverage", "not covered", "policy expired",
		"enrollment", "member not", "terminated",
	}},
	{CategoryMedicalNecessity, []string{
		"medical necessity", "not medically necessary", "medically unnecessary",
		"experimental", "investigational",
	}},
	{CategoryCoding, []string{
		"code", "coding", "diagnosis", "procedure", "modifier",
		"icd", "cpt", "unbundl", "bundl",
	}},
	{CategoryAdministrative, []string{
		"timely", "filing", "duplicate", "authorization", "auth ",
		"pre-auth", "referral", "late submission",
	}},
}

// Categories returns the category names in match-priority order,
// excluding uncategorized.
func Categories() []string {
	out := make([]string, len(categoryRules))
	for i, rule := range categoryRules {
		out[i] = rule.category
	}
	return out
}

// Categorize assigns a rejection reason to a category by
// case-insensitive keyword match, first matching category wins.
// ok is false when no category matched.
func Categorize(reason string) (category string, ok bool) {
	lowered := strings.ToLower(reason)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category, true
			}
		}
	}
	return CategoryUncategorized, false
}
