package adaptors

import (
	"strconv"

	"phishing_url_analyzer/internal/domain/models"

	"golang.org/x/net/html"
)

// PageState is the visible state of a Page, read back from its DOM.
type PageState struct {
	Loading        bool                            `json:"loading"`
	ResultsVisible bool                            `json:"results_visible"`
	ErrorVisible   bool                            `json:"error_visible"`
	ErrorMessage   string                          `json:"error_message,omitempty"`
	Verdict        string                          `json:"verdict,omitempty"`
	VerdictTone    string                          `json:"verdict_tone,omitempty"`
	Confidence     string                          `json:"confidence,omitempty"`
	Charts         []ChartState                    `json:"charts"`
	Groups         map[models.GroupName][]RowState `json:"groups"`
	Tooltips       map[models.GroupName][]Tooltip  `json:"tooltips"`
}

type ChartState struct {
	ID     int          `json:"id"`
	Title  string       `json:"title"`
	Slices []SliceState `json:"slices"`
}

type SliceState struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type RowState struct {
	Metric  string `json:"metric"`
	Label   string `json:"label"`
	Tooltip string `json:"tooltip"`
	Value   string `json:"value"`
	Display string `json:"display"`
	Tier    string `json:"tier"`
}

func (p *Page) Snapshot() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := PageState{
		Loading:        !hasClass(p.byID[idLoading], hiddenClass),
		ResultsVisible: !hasClass(p.byID[idResults], hiddenClass),
		ErrorVisible:   !hasClass(p.byID[idError], hiddenClass),
		Charts:         []ChartState{},
		Groups:         map[models.GroupName][]RowState{},
		Tooltips:       map[models.GroupName][]Tooltip{},
	}

	if state.ErrorVisible {
		state.ErrorMessage = textContent(p.byID[idError])
	}

	resultText := p.byID[idResultText]
	state.Verdict = textContent(resultText)
	for _, tone := range []string{`success`, `danger`} {
		if hasClass(resultText, `text-`+tone) {
			state.VerdictTone = tone
		}
	}
	state.Confidence = textContent(p.byID[idResultConfidence])

	figures := findAll(p.byID[idChart], func(n *html.Node) bool { return hasClass(n, `confidence-chart`) })
	for _, f := range figures {
		state.Charts = append(state.Charts, chartState(f))
	}

	for _, group := range models.Groups {
		id := regionIDs[group]
		rows := []RowState{}
		for c := p.byID[id].FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && getAttr(c, `data-metric`) != "" {
				rows = append(rows, rowState(c))
			}
		}
		state.Groups[group] = rows
		state.Tooltips[group] = append([]Tooltip{}, p.tooltips[id]...)
	}

	return state
}

func chartState(figure *html.Node) ChartState {
	id, _ := strconv.Atoi(getAttr(figure, `data-chart-id`))
	chart := ChartState{ID: id, Slices: []SliceState{}}
	if caption := firstElement(figure, `figcaption`); caption != nil {
		chart.Title = textContent(caption)
	}

	slices := findAll(figure, func(n *html.Node) bool { return getAttr(n, `data-label`) != "" })
	for _, s := range slices {
		value, _ := strconv.ParseFloat(getAttr(s, `data-value`), 64)
		chart.Slices = append(chart.Slices, SliceState{
			Label: getAttr(s, `data-label`),
			Value: value,
			Color: getAttr(s, `stroke`),
		})
	}
	return chart
}

func rowState(wrapper *html.Node) RowState {
	row := RowState{
		Metric: getAttr(wrapper, `data-metric`),
		Tier:   getAttr(wrapper, `data-tier`),
	}

	triggers := findAll(wrapper, func(n *html.Node) bool { return getAttr(n, `data-bs-toggle`) == `tooltip` })
	if len(triggers) == 0 {
		return row
	}
	line := triggers[0]
	row.Tooltip = getAttr(line, `title`)

	if label := firstElement(line, `span`); label != nil {
		row.Label = textContent(label)
	}
	values := findAll(line, func(n *html.Node) bool { return n.Data == `span` && hasAttr(n, `data-value`) })
	if len(values) > 0 {
		row.Value = getAttr(values[0], `data-value`)
		row.Display = textContent(values[0])
		if icon := firstElement(values[0], `i`); icon != nil {
			row.Display = getAttr(icon, `aria-label`)
		}
	}
	return row
}
