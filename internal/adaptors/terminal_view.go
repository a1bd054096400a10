package adaptors

import (
	"fmt"
	"io"
	"strings"
	"sync"

	ports "phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"

	"github.com/fatih/color"
)

var groupTitles = map[models.GroupName]string{
	models.GroupSecurityMetrics:    `Security Metrics`,
	models.GroupURLStructure:       `URL Structure`,
	models.GroupSuspiciousPatterns: `Suspicious Patterns`,
}

var (
	goodColor    = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	badColor     = color.New(color.FgRed)
	neutralColor = color.New(color.FgCyan)
	headerColor  = color.New(color.Bold)
)

// TerminalView retains the presentation state of one analysis and prints it
// as a colored report. It implements the View port.
type TerminalView struct {
	mu          sync.Mutex
	target      string
	loading     bool
	showResults bool
	errMessage  string
	verdict     ports.Verdict
	rows        map[models.GroupName][]ports.Row
	chart       *terminalChart
	liveCharts  int
}

func NewTerminalView(target string) *TerminalView {
	return &TerminalView{
		target: target,
		rows:   map[models.GroupName][]ports.Row{},
	}
}

func (v *TerminalView) ShowLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = true
}

func (v *TerminalView) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
}

func (v *TerminalView) ShowResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showResults = true
}

func (v *TerminalView) HideResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showResults = false
}

func (v *TerminalView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMessage = message
}

func (v *TerminalView) HideError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMessage = ""
}

func (v *TerminalView) SetVerdict(verdict ports.Verdict) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.verdict = verdict
}

func (v *TerminalView) MetricRegion(group models.GroupName) ports.MetricRegion {
	return &terminalRegion{view: v, group: group}
}

func (v *TerminalView) Canvas() ports.ChartCanvas {
	return terminalCanvas{view: v}
}

// Loading reports whether the loading indicator is up.
func (v *TerminalView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *TerminalView) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMessage
}

func (v *TerminalView) LiveCharts() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.liveCharts
}

func (v *TerminalView) Rows(group models.GroupName) []ports.Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]ports.Row(nil), v.rows[group]...)
}

// Render prints the report. Only the visible sections are written.
func (v *TerminalView) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", headerColor.Sprint(`URL:`), v.target)

	if v.errMessage != "" {
		fmt.Fprintf(&b, "  %s %s\n", badColor.Sprint(`error:`), v.errMessage)
	}

	if v.showResults {
		tone := neutralColor
		switch v.verdict.Tone {
		case `success`:
			tone = goodColor
		case `danger`:
			tone = badColor
		}
		fmt.Fprintf(&b, "  %s %s (%.2f%% confidence)\n",
			headerColor.Sprint(`Verdict:`), tone.Sprint(v.verdict.Label), v.verdict.Confidence*100)

		if v.chart != nil {
			fmt.Fprintf(&b, "  %s\n", headerColor.Sprint(v.chart.spec.Title+`:`))
			for i, label := range v.chart.spec.Labels {
				fmt.Fprintf(&b, "    %-10s %s\n", label, percentBar(v.chart.spec.Values[i]))
			}
		}

		for _, group := range models.Groups {
			rows := v.rows[group]
			if len(rows) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s\n", headerColor.Sprint(groupTitles[group]+`:`))
			for _, row := range rows {
				fmt.Fprintf(&b, "    %-22s %s\n", row.Label, tierColor(row.Tier).Sprint(row.Display))
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, `failed to write report`)
	}
	return nil
}

func tierColor(tier models.RiskTier) *color.Color {
	switch tier {
	case models.TierGood:
		return goodColor
	case models.TierWarning:
		return warningColor
	case models.TierBad:
		return badColor
	default:
		return neutralColor
	}
}

func percentBar(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*20 + 0.5)
	return fmt.Sprintf(`%s%s %6.2f%%`, strings.Repeat(`#`, filled), strings.Repeat(`.`, 20-filled), fraction*100)
}

type terminalRegion struct {
	view  *TerminalView
	group models.GroupName
}

func (r *terminalRegion) ReplaceRows(rows []ports.Row) {
	r.view.mu.Lock()
	defer r.view.mu.Unlock()
	r.view.rows[r.group] = append([]ports.Row(nil), rows...)
}

type terminalCanvas struct {
	view *TerminalView
}

func (c terminalCanvas) NewChart(spec ports.ChartSpec) (ports.Chart, error) {
	if len(spec.Values) != len(spec.Labels) {
		return nil, errors.New(`chart labels and values differ in length`)
	}
	c.view.mu.Lock()
	defer c.view.mu.Unlock()

	chart := &terminalChart{view: c.view, spec: spec}
	c.view.chart = chart
	c.view.liveCharts++
	return chart, nil
}

type terminalChart struct {
	view      *TerminalView
	spec      ports.ChartSpec
	destroyed bool
}

func (c *terminalChart) Destroy() {
	c.view.mu.Lock()
	defer c.view.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.view.liveCharts--
	if c.view.chart == c {
		c.view.chart = nil
	}
}
