package domain

import "strings"

// Industry is the closed set of company classifications.
// IndustryUnset means nothing has been inferred yet and is distinct from IndustryTech.
type Industry int

const (
	IndustryUnset Industry = iota
	IndustryTech
	IndustryFinance
	IndustryConsulting
	IndustryHealthcare
)

// Industries lists the assignable categories in classification order.
var Industries = []Industry{IndustryTech, IndustryFinance, IndustryConsulting, IndustryHealthcare}

func (i Industry) String() string {
	switch i {
	case IndustryTech:
		return "Tech"
	case IndustryFinance:
		return "Finance"
	case IndustryConsulting:
		return "Consulting"
	case IndustryHealthcare:
		return "Healthcare"
	default:
		return ""
	}
}

// Valid reports whether i is Unset or one of the four categories.
func (i Industry) Valid() bool { return i >= IndustryUnset && i <= IndustryHealthcare }

// ParseIndustry maps a label (case-insensitive) to an Industry.
// Legacy labels from older data are folded into the four categories.
func ParseIndustry(s string) (Industry, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return IndustryUnset, true
	case "tech", "technology", "retail", "media", "manufacturing", "energy", "transportation", "unknown":
		return IndustryTech, true
	case "finance", "financial", "real estate":
		return IndustryFinance, true
	case "consulting", "education":
		return IndustryConsulting, true
	case "healthcare", "health":
		return IndustryHealthcare, true
	}
	return IndustryUnset, false
}
