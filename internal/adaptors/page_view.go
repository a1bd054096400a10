package adaptors

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	ports "phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"

	"golang.org/x/net/html"
)

//go:embed templates/index.html
var pageTemplate string

const (
	idLoading          = `loadingSpinner`
	idResults          = `resultsSection`
	idError            = `errorAlert`
	idResultIndicator  = `resultIndicator`
	idResultText       = `resultText`
	idResultConfidence = `resultConfidence`
	idChart            = `confidenceChart`
	idURLInput         = `urlInput`

	hiddenClass = `d-none`
)

var regionIDs = map[models.GroupName]string{
	models.GroupSecurityMetrics:    `securityMetrics`,
	models.GroupURLStructure:       `urlStructure`,
	models.GroupSuspiciousPatterns: `suspiciousPatterns`,
}

// Tooltip is an initialized tooltip affordance attached to a metric row.
type Tooltip struct {
	Metric    string `json:"metric"`
	Title     string `json:"title"`
	Placement string `json:"placement"`
}

// Page is the server side DOM of one browser session. It implements the
// View port and serializes back to HTML.
type Page struct {
	mu          sync.Mutex
	doc         *html.Node
	byID        map[string]*html.Node
	tooltips    map[string][]Tooltip
	charts      map[int]*pageChart
	nextChartID int
}

func NewPage() (*Page, error) {
	doc, err := html.Parse(strings.NewReader(pageTemplate))
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse page template`)
	}

	byID := indexIDs(doc)
	required := []string{idLoading, idResults, idError, idResultIndicator, idResultText, idResultConfidence, idChart, idURLInput}
	for _, id := range regionIDs {
		required = append(required, id)
	}
	for _, id := range required {
		if _, ok := byID[id]; !ok {
			return nil, errors.Errorf(`page template has no element #%s`, id)
		}
	}

	return &Page{
		doc:      doc,
		byID:     byID,
		tooltips: map[string][]Tooltip{},
		charts:   map[int]*pageChart{},
	}, nil
}

func (p *Page) show(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	removeClass(p.byID[id], hiddenClass)
}

func (p *Page) hide(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	addClass(p.byID[id], hiddenClass)
}

func (p *Page) ShowLoading() { p.show(idLoading) }
func (p *Page) HideLoading() { p.hide(idLoading) }
func (p *Page) ShowResults() { p.show(idResults) }
func (p *Page) HideResults() { p.hide(idResults) }
func (p *Page) HideError() { p.hide(idError) }

func (p *Page) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	alert := p.byID[idError]
	setText(alert, message)
	removeClass(alert, hiddenClass)
}

func (p *Page) SetVerdict(v ports.Verdict) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if icon := firstElement(p.byID[idResultIndicator], `i`); icon != nil {
		setAttr(icon, `class`, fmt.Sprintf(`fas fa-%s text-%s fa-4x`, v.Icon, v.Tone))
	}
	resultText := p.byID[idResultText]
	setAttr(resultText, `class`, `mt-2 text-`+v.Tone)
	setText(resultText, v.Label)
	setText(p.byID[idResultConfidence], fmt.Sprintf(`%.2f%% confidence`, v.Confidence*100))
}

// SetInput echoes the submitted URL back into the form.
func (p *Page) SetInput(rawURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	setAttr(p.byID[idURLInput], `value`, rawURL)
}

func (p *Page) MetricRegion(group models.GroupName) ports.MetricRegion {
	return &pageRegion{page: p, id: regionIDs[group]}
}

func (p *Page) Canvas() ports.ChartCanvas {
	return &pageCanvas{page: p}
}

// Tooltips returns the tooltips currently initialized in a group's region.
func (p *Page) Tooltips(group models.GroupName) []Tooltip {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Tooltip(nil), p.tooltips[regionIDs[group]]...)
}

// LiveCharts reports how many chart instances are attached to the page.
func (p *Page) LiveCharts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.charts)
}

func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := html.Render(w, p.doc); err != nil {
		return errors.Wrap(err, `failed to render page`)
	}
	return nil
}

// initTooltips rebuilds the tooltip set of one region from its rows,
// dropping whatever that region held before. Other regions are untouched.
func (p *Page) initTooltips(regionID string) {
	triggers := findAll(p.byID[regionID], func(n *html.Node) bool {
		return getAttr(n, `data-bs-toggle`) == `tooltip`
	})

	tooltips := make([]Tooltip, 0, len(triggers))
	for _, n := range triggers {
		tooltips = append(tooltips, Tooltip{
			Metric:    getAttr(n.Parent, `data-metric`),
			Title:     getAttr(n, `title`),
			Placement: getAttr(n, `data-bs-placement`),
		})
	}
	p.tooltips[regionID] = tooltips
}

type pageRegion struct {
	page *Page
	id   string
}

func (r *pageRegion) ReplaceRows(rows []ports.Row) {
	r.page.mu.Lock()
	defer r.page.mu.Unlock()

	region := r.page.byID[r.id]
	removeChildren(region)
	for _, row := range rows {
		region.AppendChild(rowNode(row))
	}
	r.page.initTooltips(r.id)
}

func rowNode(row ports.Row) *html.Node {
	wrapper := element(`div`, `class`, `mb-2`, `data-metric`, row.Metric, `data-tier`, string(row.Tier))
	line := element(`div`,
		`class`, `d-flex justify-content-between align-items-center`,
		`data-bs-toggle`, `tooltip`,
		`data-bs-placement`, `top`,
		`title`, row.Tooltip)

	label := element(`span`)
	label.AppendChild(textNode(row.Label))

	value := element(`span`, `class`, row.Class, `data-value`, row.Value.String())
	if row.Icon != "" {
		value.AppendChild(element(`i`,
			`class`, fmt.Sprintf(`fas fa-%s %s`, row.Icon, row.Class),
			`aria-label`, row.Display))
	} else {
		value.AppendChild(textNode(row.Display))
	}

	line.AppendChild(label)
	line.AppendChild(value)
	wrapper.AppendChild(line)
	return wrapper
}

type pageCanvas struct {
	page *Page
}

// circumference of a circle with r = 100/(2*pi), so dash lengths read as
// percentages.
const (
	chartRadius = `15.91549430918954`
	chartCenter = `21`
)

func (c *pageCanvas) NewChart(spec ports.ChartSpec) (ports.Chart, error) {
	if len(spec.Values) != len(spec.Labels) || len(spec.Colors) != len(spec.Labels) {
		return nil, errors.New(`chart labels, values and colors differ in length`)
	}

	p := c.page
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextChartID++
	id := p.nextChartID

	figure := element(`figure`, `class`, `confidence-chart`, `data-chart-id`, strconv.Itoa(id))
	caption := element(`figcaption`, `class`, `text-center fw-bold`)
	caption.AppendChild(textNode(spec.Title))
	figure.AppendChild(caption)

	svg := svgElement(`svg`, `viewBox`, `0 0 42 42`, `role`, `img`, `aria-label`, spec.Title)
	svg.AppendChild(svgElement(`circle`,
		`cx`, chartCenter, `cy`, chartCenter, `r`, chartRadius,
		`fill`, `transparent`, `stroke`, `#e9ecef`, `stroke-width`, `5`))

	total := 0.0
	for _, v := range spec.Values {
		if v > 0 {
			total += v
		}
	}

	// Slices start at twelve o'clock and run clockwise.
	offset := 25.0
	for i, v := range spec.Values {
		share := 0.0
		if total > 0 && v > 0 {
			share = v / total * 100
		}
		slice := svgElement(`circle`,
			`cx`, chartCenter, `cy`, chartCenter, `r`, chartRadius,
			`fill`, `transparent`, `stroke`, spec.Colors[i], `stroke-width`, `5`,
			`stroke-dasharray`, fmt.Sprintf(`%s %s`, formatShare(share), formatShare(100-share)),
			`stroke-dashoffset`, formatShare(offset),
			`data-label`, spec.Labels[i],
			`data-value`, formatFloat(v))
		sliceTitle := svgElement(`title`)
		sliceTitle.AppendChild(textNode(fmt.Sprintf(`%s: %s%%`, spec.Labels[i], strconv.FormatFloat(share, 'f', 2, 64))))
		slice.AppendChild(sliceTitle)
		svg.AppendChild(slice)
		offset -= share
	}
	figure.AppendChild(svg)

	legend := element(`ul`, `class`, `list-inline text-center chart-legend legend-`+spec.LegendPosition)
	for i, label := range spec.Labels {
		item := element(`li`, `class`, `list-inline-item`)
		item.AppendChild(element(`span`, `class`, `legend-swatch`, `style`, `display:inline-block;width:12px;height:12px;background:`+spec.Colors[i]))
		item.AppendChild(textNode(` ` + label))
		legend.AppendChild(item)
	}
	figure.AppendChild(legend)

	p.byID[idChart].AppendChild(figure)
	chart := &pageChart{page: p, id: id, node: figure}
	p.charts[id] = chart
	return chart, nil
}

type pageChart struct {
	page *Page
	id   int
	node *html.Node
}

func (c *pageChart) Destroy() {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	delete(c.page.charts, c.id)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatShare(v float64) string {
	return formatFloat(math.Round(v*1e4) / 1e4)
}
