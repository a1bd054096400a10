package models

import (
	"fmt"
	"sort"

	"phishing_url_analyzer/internal/pkg/errors"
)

type RiskTier string

const (
	TierGood    RiskTier = "good"
	TierWarning RiskTier = "warning"
	TierBad     RiskTier = "bad"
	TierNeutral RiskTier = "neutral"
)

// Polarity tells whether a true boolean metric means safety or risk.
type Polarity string

const (
	PositiveIsSafe Polarity = "positive-is-safe"
	PositiveIsRisk Polarity = "positive-is-risk"
)

func (p Polarity) Valid() bool {
	return p == PositiveIsSafe || p == PositiveIsRisk
}

type RuleKind string

const (
	RuleBoolean RuleKind = "boolean"
	RuleNumeric RuleKind = "numeric"
)

// MetricRule is the risk policy of one metric: a polarity for boolean
// metrics or an inclusive upper threshold for numeric ones.
type MetricRule struct {
	Kind      RuleKind `yaml:"kind" json:"kind"`
	Polarity  Polarity `yaml:"polarity,omitempty" json:"polarity,omitempty"`
	Threshold *float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

func BooleanRule(p Polarity) MetricRule {
	return MetricRule{Kind: RuleBoolean, Polarity: p}
}

func NumericRule(threshold float64) MetricRule {
	return MetricRule{Kind: RuleNumeric, Threshold: &threshold}
}

func (r MetricRule) validate() error {
	switch r.Kind {
	case RuleBoolean:
		if !r.Polarity.Valid() {
			return fmt.Errorf("invalid polarity %q", r.Polarity)
		}
	case RuleNumeric:
		if r.Threshold == nil {
			return fmt.Errorf("threshold is required")
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return nil
}

type MetricLabel struct {
	Label   string `yaml:"label" json:"label"`
	Tooltip string `yaml:"tooltip" json:"tooltip"`
}

// MetricCatalog holds the static display and policy tables: labels and
// tooltips per group, and a risk rule per metric name.
type MetricCatalog struct {
	Labels map[GroupName]map[string]MetricLabel `yaml:"labels"`
	Rules  map[string]MetricRule                `yaml:"rules"`
}

// Validate checks every rule and makes sure each labeled metric has a rule.
func (c *MetricCatalog) Validate() error {
	var errs error

	for _, name := range sortedKeys(c.Rules) {
		if err := c.Rules[name].validate(); err != nil {
			errs = errors.Append(errs, fmt.Errorf("rule %q: %w", name, err))
		}
	}

	groups := make([]string, 0, len(c.Labels))
	for group := range c.Labels {
		groups = append(groups, string(group))
	}
	sort.Strings(groups)

	for _, group := range groups {
		gn := GroupName(group)
		if !gn.Valid() {
			errs = errors.Append(errs, fmt.Errorf("labels: unknown group %q", group))
			continue
		}
		for _, name := range sortedKeys(c.Labels[gn]) {
			if _, ok := c.Rules[name]; !ok {
				errs = errors.Append(errs, fmt.Errorf("labels %s: metric %q has no rule", group, name))
			}
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
