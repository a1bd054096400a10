package service

import (
	"phishing_url_analyzer/internal/domain/models"
)

// ThresholdPolicy maps a metric and its raw value to a risk tier.
type ThresholdPolicy struct {
	rules map[string]models.MetricRule
}

func NewThresholdPolicy(rules map[string]models.MetricRule) *ThresholdPolicy {
	copied := make(map[string]models.MetricRule, len(rules))
	for name, rule := range rules {
		if rule.Threshold != nil {
			threshold := *rule.Threshold
			rule.Threshold = &threshold
		}
		copied[name] = rule
	}
	return &ThresholdPolicy{rules: copied}
}

func (p *ThresholdPolicy) Rule(name string) (models.MetricRule, bool) {
	rule, ok := p.rules[name]
	return rule, ok
}

// Classify returns the tier of value under the rule declared for name.
// Metrics without a rule, or whose value kind contradicts the rule, come
// back neutral together with a *ConfigError.
func (p *ThresholdPolicy) Classify(name string, value models.MetricValue) (models.RiskTier, error) {
	rule, ok := p.rules[name]
	if !ok {
		return models.TierNeutral, &ConfigError{Kind: ConfigErrorNoPolicy, Metric: name}
	}

	switch value.Kind {
	case models.KindBool:
		if rule.Kind != models.RuleBoolean {
			return models.TierNeutral, &ConfigError{Kind: ConfigErrorRuleMismatch, Metric: name}
		}
		return classifyBool(rule.Polarity, value.Bool), nil
	case models.KindNumber:
		if rule.Kind != models.RuleNumeric || rule.Threshold == nil {
			return models.TierNeutral, &ConfigError{Kind: ConfigErrorRuleMismatch, Metric: name}
		}
		if value.Number <= *rule.Threshold {
			return models.TierGood, nil
		}
		return models.TierWarning, nil
	default:
		return models.TierNeutral, nil
	}
}

func classifyBool(polarity models.Polarity, v bool) models.RiskTier {
	safe := v
	if polarity == models.PositiveIsRisk {
		safe = !v
	}
	if safe {
		return models.TierGood
	}
	return models.TierBad
}
