package service

import (
	"math"
	"sync"

	"phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	ConfidenceChartTitle = `Confidence Score`
	SafeColor            = `#198754`
	PhishingColor        = `#dc3545`

	probabilitySumTolerance = 0.01
)

// ConfidenceVisualizer owns the single confidence chart of a view. Every
// Replace tears the previous chart down before a new one is built.
type ConfidenceVisualizer struct {
	log     *log.Logger
	canvas  adaptors.ChartCanvas
	mu      sync.Mutex
	current adaptors.Chart
}

func NewConfidenceVisualizer(log *log.Logger, canvas adaptors.ChartCanvas) *ConfidenceVisualizer {
	return &ConfidenceVisualizer{
		log:    log,
		canvas: canvas,
	}
}

func ConfidenceChartSpec(safe, phishing float64) adaptors.ChartSpec {
	return adaptors.ChartSpec{
		Title:          ConfidenceChartTitle,
		Labels:         []string{`Safe`, `Phishing`},
		Values:         []float64{safe, phishing},
		Colors:         []string{SafeColor, PhishingColor},
		LegendPosition: `bottom`,
	}
}

// Replace draws the safe/phishing split as given; values are not
// renormalized.
func (v *ConfidenceVisualizer) Replace(safe, phishing float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sum := safe + phishing; math.Abs(sum-1) > probabilitySumTolerance {
		v.log.WithFields(log.Fields{
			`probability_safe`:     safe,
			`probability_phishing`: phishing,
		}).Warn(`confidence probabilities do not sum to 1`)
	}

	if v.current != nil {
		v.current.Destroy()
		v.current = nil
	}

	chart, err := v.canvas.NewChart(ConfidenceChartSpec(safe, phishing))
	if err != nil {
		return errors.Wrap(err, `failed to create confidence chart`)
	}
	v.current = chart
	metrics.ChartReplacementsTotal.Inc()
	return nil
}

func (v *ConfidenceVisualizer) Current() adaptors.Chart {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}
