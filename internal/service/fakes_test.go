package service

import (
	"context"
	"sync"

	"phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"

	"github.com/stretchr/testify/mock"
)

// MockAnalysisClient is a mock implementation of the AnalysisClient interface
type MockAnalysisClient struct {
	mock.Mock
}

func (m *MockAnalysisClient) Analyze(ctx context.Context, rawURL string) ([]byte, int, error) {
	args := m.Called(ctx, rawURL)
	body, _ := args.Get(0).([]byte)
	return body, args.Int(1), args.Error(2)
}

type fakeRegion struct {
	rows    []adaptors.Row
	renders int
}

func (r *fakeRegion) ReplaceRows(rows []adaptors.Row) {
	r.rows = append([]adaptors.Row(nil), rows...)
	r.renders++
}

type fakeChart struct {
	canvas    *fakeCanvas
	spec      adaptors.ChartSpec
	destroyed bool
}

func (c *fakeChart) Destroy() {
	c.canvas.mu.Lock()
	defer c.canvas.mu.Unlock()
	if !c.destroyed {
		c.destroyed = true
		c.canvas.live--
	}
}

type fakeCanvas struct {
	mu      sync.Mutex
	live    int
	created []*fakeChart
	err     error
}

func (c *fakeCanvas) NewChart(spec adaptors.ChartSpec) (adaptors.Chart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	chart := &fakeChart{canvas: c, spec: spec}
	c.live++
	c.created = append(c.created, chart)
	return chart, nil
}

func (c *fakeCanvas) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// fakeView records visibility flags and fails the test run through
// overlaps if results and error are ever visible together.
type fakeView struct {
	loading        bool
	resultsVisible bool
	errorVisible   bool
	errorMessage   string
	verdict        adaptors.Verdict
	overlaps       int
	regions        map[models.GroupName]*fakeRegion
	canvas         *fakeCanvas
}

func newFakeView() *fakeView {
	return &fakeView{
		regions: map[models.GroupName]*fakeRegion{},
		canvas:  &fakeCanvas{},
	}
}

func (v *fakeView) check() {
	if v.resultsVisible && v.errorVisible {
		v.overlaps++
	}
}

func (v *fakeView) ShowLoading() { v.loading = true }
func (v *fakeView) HideLoading() { v.loading = false }
func (v *fakeView) ShowResults() {
	v.resultsVisible = true
	v.check()
}
func (v *fakeView) HideResults() { v.resultsVisible = false }
func (v *fakeView) SetVerdict(vd adaptors.Verdict) { v.verdict = vd }
func (v *fakeView) ShowError(message string) {
	v.errorVisible = true
	v.errorMessage = message
	v.check()
}
func (v *fakeView) HideError() { v.errorVisible = false }

func (v *fakeView) MetricRegion(group models.GroupName) adaptors.MetricRegion {
	r, ok := v.regions[group]
	if !ok {
		r = &fakeRegion{}
		v.regions[group] = r
	}
	return r
}

func (v *fakeView) Canvas() adaptors.ChartCanvas {
	return v.canvas
}
