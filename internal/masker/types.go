package masker

import "regexp"

// Rule is a single serial-number pattern applied during masking.
type Rule struct {
	Name    string
	Expr    string
	Pattern *regexp.Regexp
}

// Finding summarizes the matches produced by one rule.
type Finding struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// Result contains the masked text and a summary of what was replaced.
type Result struct {
	Output   string    `json:"output"`
	Findings []Finding `json:"findings,omitempty"`
}

// Matches returns the total number of replaced matches across all rules.
func (r Result) Matches() int {
	total := 0
	for _, f := range r.Findings {
		total += f.Count
	}
	return total
}
