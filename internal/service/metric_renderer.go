package service

import (
	"phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

// MetricRenderer turns one metric group into display rows.
type MetricRenderer struct {
	log    *log.Logger
	group  models.GroupName
	labels map[string]models.MetricLabel
	policy *ThresholdPolicy
}

func NewMetricRenderer(log *log.Logger, group models.GroupName, labels map[string]models.MetricLabel, policy *ThresholdPolicy) *MetricRenderer {
	return &MetricRenderer{
		log:    log,
		group:  group,
		labels: labels,
		policy: policy,
	}
}

func (r *MetricRenderer) Group() models.GroupName {
	return r.group
}

// Rows builds one row per metric in group order. Metrics missing from the
// label or policy tables are still rendered; the returned error aggregates
// one *ConfigError per defect.
func (r *MetricRenderer) Rows(group models.MetricGroup) ([]adaptors.Row, error) {
	rows := make([]adaptors.Row, 0, len(group))
	var errs error

	for _, m := range group {
		row := adaptors.Row{
			Metric: m.Name,
			Label:  m.Name,
			Value:  m.Value,
		}

		if label, ok := r.labels[m.Name]; ok {
			if label.Label != "" {
				row.Label = label.Label
			}
			row.Tooltip = label.Tooltip
		} else {
			errs = errors.Append(errs, &ConfigError{Kind: ConfigErrorNoLabel, Group: r.group, Metric: m.Name})
		}

		tier, err := r.policy.Classify(m.Name, m.Value)
		if err != nil {
			var cfgErr *ConfigError
			if errors.As(err, &cfgErr) {
				cfgErr.Group = r.group
			}
			errs = errors.Append(errs, err)
		}
		row.Tier = tier

		formatRow(&row)
		rows = append(rows, row)
	}

	return rows, errs
}

// Render replaces the rows of region with the rows of group.
func (r *MetricRenderer) Render(region adaptors.MetricRegion, group models.MetricGroup) error {
	rows, err := r.Rows(group)
	region.ReplaceRows(rows)

	for _, row := range rows {
		metrics.MetricTiersTotal.WithLabelValues(string(r.group), string(row.Tier)).Inc()
	}

	for _, e := range errors.Errors(err) {
		kind := `unknown`
		metric := ``
		var cfgErr *ConfigError
		if errors.As(e, &cfgErr) {
			kind = string(cfgErr.Kind)
			metric = cfgErr.Metric
		}
		metrics.MetricConfigErrorsTotal.WithLabelValues(string(r.group), kind).Inc()
		r.log.WithFields(log.Fields{
			`group`:  r.group,
			`metric`: metric,
			`kind`:   kind,
		}).Error(`metric is not covered by the catalog`)
	}

	return err
}

func formatRow(row *adaptors.Row) {
	switch row.Value.Kind {
	case models.KindBool:
		row.Display = `No`
		if row.Value.Bool {
			row.Display = `Yes`
		}
		row.Class = tierClass(row.Tier)
		switch row.Tier {
		case models.TierGood:
			row.Icon = `check-circle`
		case models.TierBad:
			row.Icon = `times-circle`
		}
	case models.KindNumber:
		row.Display = row.Value.String()
		row.Class = tierClass(row.Tier)
	default:
		row.Display = row.Value.String()
		row.Class = `text-info`
	}
}

func tierClass(tier models.RiskTier) string {
	switch tier {
	case models.TierGood:
		return `text-success`
	case models.TierWarning:
		return `text-warning`
	case models.TierBad:
		return `text-danger`
	default:
		return `text-info`
	}
}
