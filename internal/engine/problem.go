// Package engine implements the game rules for BugHunt: a timed
// code-review game where the player taps lines of a code snippet to
// find planted issues before the clock runs out.
//
// The package is pure Go with no I/O. Session state advances only
// through Apply, which makes play-throughs replayable from an event
// log.
package engine

// Category classifies what kind of defect an issue is.
type Category string

const (
	CategoryBug         Category = "bug"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryDesign      Category = "design"
)

// Severity grades how serious an issue is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityNormal   Severity = "normal"
	SeverityCritical Severity = "critical"
)

// Issue is a single planted defect in a problem. Lines are 1-based
// indices into the problem's code; an issue may span several lines.
// Descriptions is keyed by UI language tag ("en", "ja", ...).
type Issue struct {
	ID           string            `json:"id"`
	Lines        []int             `json:"lines"`
	Category     Category          `json:"category"`
	Severity     Severity          `json:"severity"`
	BaseScore    int               `json:"baseScore"`
	Descriptions map[string]string `json:"descriptions"`
}

// Covers reports whether the issue spans the given 1-based line.
func (i Issue) Covers(line int) bool {
	for _, l := range i.Lines {
		if l == line {
			return true
		}
	}
	return false
}

// Description returns the issue text for lang, falling back to English
// and then to any available translation.
func (i Issue) Description(lang string) string {
	if d, ok := i.Descriptions[lang]; ok {
		return d
	}
	if d, ok := i.Descriptions["en"]; ok {
		return d
	}
	for _, d := range i.Descriptions {
		return d
	}
	return ""
}

// Problem is one reviewable code snippet. Immutable once loaded; issue
// IDs are unique within the problem but not across problems.
type Problem struct {
	ID       string   `json:"id"`
	Language string   `json:"language"`
	Level    int      `json:"level"`
	Code     []string `json:"code"`
	Issues   []Issue  `json:"issues"`
}

// issueAt returns the first issue covering line that is not already in
// solved. A line outside the code range can never match, so callers
// need no bounds check.
func (p Problem) issueAt(line int, solved map[string]bool) (Issue, bool) {
	for _, iss := range p.Issues {
		if solved[iss.ID] {
			continue
		}
		if iss.Covers(line) {
			return iss, true
		}
	}
	return Issue{}, false
}
