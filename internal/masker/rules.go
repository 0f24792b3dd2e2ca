package masker

import (
	"fmt"
	"regexp"
)

// DefaultRules returns the built-in serial-number patterns, applied in order.
// Earlier rules claim their spans first, so the more specific shapes come
// before the catch-all alphanumeric run.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "uuid_like",
			Expr:    `[A-Z0-9]{8}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{12}`,
			Pattern: regexp.MustCompile(`[A-Z0-9]{8}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{12}`),
		},
		{
			Name:    "sn_prefixed",
			Expr:    `SN:[A-Z0-9]{10}`,
			Pattern: regexp.MustCompile(`SN:[A-Z0-9]{10}`),
		},
		{
			Name:    "segmented_serial",
			Expr:    `\b[A-Z0-9]{4,8}(?:-[A-Z0-9]{3,8})+\b`,
			Pattern: regexp.MustCompile(`\b[A-Z0-9]{4,8}(?:-[A-Z0-9]{3,8})+\b`),
		},
		{
			Name:    "long_alnum",
			Expr:    `\b[A-Z0-9]{15,20}\b`,
			Pattern: regexp.MustCompile(`\b[A-Z0-9]{15,20}\b`),
		},
	}
}

// Compile builds rules from user-supplied expressions. An empty slice falls
// back to DefaultRules. A malformed expression aborts compilation and
// returns a *PatternError naming the offending pattern.
func Compile(exprs []string) ([]Rule, error) {
	if len(exprs) == 0 {
		return DefaultRules(), nil
	}

	rules := make([]Rule, 0, len(exprs))
	for i, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &PatternError{Pattern: expr, Err: err}
		}
		rules = append(rules, Rule{
			Name:    fmt.Sprintf("pattern_%d", i+1),
			Expr:    expr,
			Pattern: re,
		})
	}

	return rules, nil
}
