package config

import (
	"bytes"
	"os"

	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"

	"gopkg.in/yaml.v3"
)

// LoadMetricCatalog overlays the YAML catalog at path on base. Entries in the
// file replace the base entry of the same group and metric; everything else
// is kept. An empty path returns a copy of base.
func LoadMetricCatalog(path string, base *models.MetricCatalog) (*models.MetricCatalog, error) {
	catalog := copyCatalog(base)
	if path == "" {
		return catalog, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read metric catalog`)
	}

	var file models.MetricCatalog
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, `failed to decode metric catalog `+path)
	}

	for group, labels := range file.Labels {
		if catalog.Labels[group] == nil {
			catalog.Labels[group] = map[string]models.MetricLabel{}
		}
		for name, label := range labels {
			catalog.Labels[group][name] = label
		}
	}
	for name, rule := range file.Rules {
		catalog.Rules[name] = rule
	}

	if err := catalog.Validate(); err != nil {
		return nil, errors.Wrap(err, `invalid metric catalog `+path)
	}
	return catalog, nil
}

func copyCatalog(base *models.MetricCatalog) *models.MetricCatalog {
	c := &models.MetricCatalog{
		Labels: map[models.GroupName]map[string]models.MetricLabel{},
		Rules:  map[string]models.MetricRule{},
	}
	if base == nil {
		return c
	}
	for group, labels := range base.Labels {
		c.Labels[group] = make(map[string]models.MetricLabel, len(labels))
		for name, label := range labels {
			c.Labels[group][name] = label
		}
	}
	for name, rule := range base.Rules {
		c.Rules[name] = rule
	}
	return c
}
