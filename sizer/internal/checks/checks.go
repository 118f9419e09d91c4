// Package checks evaluates user design rules against a calculation result.
//
// A rule is a "field operator value" condition from the config file, for
// example "main_velocity > 2.5" or "complexity == complex". Rules are
// parsed once by New; every firing rule becomes a result warning.
package checks

import (
	"fmt"

	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/config"
)

// Checker holds parsed rules. It is immutable after New.
type Checker struct {
	rules []rule
}

type rule struct {
	name     string
	severity string
	raw      string
	cond     condition
}

// New parses rules. It fails on the first condition that does not parse.
func New(rules []config.CheckRule) (*Checker, error) {
	c := &Checker{rules: make([]rule, 0, len(rules))}
	for _, r := range rules {
		cond, err := parseCondition(r.Condition)
		if err != nil {
			return nil, fmt.Errorf("checks: rule %q: %w", r.Name, err)
		}
		c.rules = append(c.rules, rule{name: r.Name, severity: r.Severity, raw: r.Condition, cond: cond})
	}
	return c, nil
}

// Len returns the number of rules.
func (c *Checker) Len() int { return len(c.rules) }

// Evaluate returns one warning per rule that fires on res, in rule order.
func (c *Checker) Evaluate(res *types.CalculationResult) []types.Warning {
	var out []types.Warning
	for _, r := range c.rules {
		fires, value := r.cond.eval(res)
		if !fires {
			continue
		}
		out = append(out, types.Warning{
			Key:     "check_" + r.name,
			Level:   r.severity,
			Title:   r.name,
			Detail:  fmt.Sprintf("Design rule %q fired: %s (value %s).", r.name, r.raw, value),
			Subject: r.cond.field,
		})
	}
	return out
}
