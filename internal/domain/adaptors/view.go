package adaptors

import "phishing_url_analyzer/internal/domain/models"

// Verdict is the top level label, icon and tone shown for a prediction.
type Verdict struct {
	Label      string
	Icon       string
	Tone       string
	Confidence float64
}

// Row is one rendered metric line of a metric panel.
type Row struct {
	Metric  string
	Label   string
	Tooltip string
	Value   models.MetricValue
	Tier    models.RiskTier
	Display string
	Icon    string
	Class   string
}

// MetricRegion is a display area owning the rows of one metric group.
// ReplaceRows drops every prior row and tooltip of the region.
type MetricRegion interface {
	ReplaceRows(rows []Row)
}

type ChartSpec struct {
	Title          string
	Labels         []string
	Values         []float64
	Colors         []string
	LegendPosition string
}

// Chart is a live visualization instance.
type Chart interface {
	Destroy()
}

type ChartCanvas interface {
	NewChart(spec ChartSpec) (Chart, error)
}

// View is the presentation surface driven by the analysis controller.
type View interface {
	ShowLoading()
	HideLoading()
	ShowResults()
	HideResults()
	SetVerdict(v Verdict)
	ShowError(message string)
	HideError()
	MetricRegion(group models.GroupName) MetricRegion
	Canvas() ChartCanvas
}
