package service

import "phishing_url_analyzer/internal/domain/models"

// DefaultMetricCatalog returns the built in label, tooltip and risk tables
// for the metrics the analysis service reports.
func DefaultMetricCatalog() *models.MetricCatalog {
	return &models.MetricCatalog{
		Labels: map[models.GroupName]map[string]models.MetricLabel{
			models.GroupSecurityMetrics: {
				"HTTPS":               {Label: "HTTPS", Tooltip: "Uses secure HTTPS protocol"},
				"Special Characters":  {Label: "Special Characters", Tooltip: "Number of special characters in URL"},
				"Suspicious Keywords": {Label: "Suspicious Keywords", Tooltip: "Contains known phishing-related words"},
				"Suspicious TLD":      {Label: "Suspicious TLD", Tooltip: "Uses potentially suspicious top-level domain"},
			},
			models.GroupURLStructure: {
				"URL Length":       {Label: "URL Length", Tooltip: "Total length of the URL"},
				"Domain Length":    {Label: "Domain Length", Tooltip: "Length of the domain name"},
				"Path Length":      {Label: "Path Length", Tooltip: "Length of the URL path"},
				"Directory Depth":  {Label: "Directory Depth", Tooltip: "Number of directory levels"},
				"Query Parameters": {Label: "Query Parameters", Tooltip: "Number of query parameters"},
			},
			models.GroupSuspiciousPatterns: {
				"IP Address":          {Label: "IP Address", Tooltip: "URL contains an IP address instead of domain name"},
				"Misspelled Domain":   {Label: "Misspelled Domain", Tooltip: "Domain name appears to be misspelled"},
				"Shortened URL":       {Label: "Shortened URL", Tooltip: "Uses a URL shortening service"},
				"At Symbol":           {Label: "At Symbol", Tooltip: "Contains @ symbol in URL"},
				"Multiple Subdomains": {Label: "Multiple Subdomains", Tooltip: "Has unusually many subdomains"},
			},
		},
		Rules: map[string]models.MetricRule{
			"HTTPS":               models.BooleanRule(models.PositiveIsSafe),
			"Special Characters":  models.NumericRule(5),
			"Suspicious Keywords": models.NumericRule(0),
			"Suspicious TLD":      models.BooleanRule(models.PositiveIsRisk),

			"URL Length":       models.NumericRule(75),
			"Domain Length":    models.NumericRule(30),
			"Path Length":      models.NumericRule(50),
			"Directory Depth":  models.NumericRule(4),
			"Query Parameters": models.NumericRule(3),

			"IP Address":          models.BooleanRule(models.PositiveIsRisk),
			"Misspelled Domain":   models.BooleanRule(models.PositiveIsRisk),
			"Shortened URL":       models.BooleanRule(models.PositiveIsRisk),
			"At Symbol":           models.BooleanRule(models.PositiveIsRisk),
			"Multiple Subdomains": models.BooleanRule(models.PositiveIsRisk),
		},
	}
}
