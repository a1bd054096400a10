package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const phishingPayload = `{
	"prediction": "phishing",
	"confidence": 0.88,
	"probability_safe": 0.12,
	"probability_phishing": 0.88,
	"security_metrics": {"HTTPS": false, "Special Characters": 7, "Suspicious Keywords": 1, "Suspicious TLD": false},
	"url_structure": {"URL Length": 24, "Domain Length": 11, "Path Length": 6, "Directory Depth": 1, "Query Parameters": 0},
	"suspicious_patterns": {"IP Address": true, "Misspelled Domain": false, "Shortened URL": false, "At Symbol": false, "Multiple Subdomains": false}
}`

const safePayload = `{
	"prediction": "safe",
	"probability_safe": 0.97,
	"probability_phishing": 0.03,
	"security_metrics": {"HTTPS": true},
	"url_structure": {},
	"suspicious_patterns": {}
}`

func newTestController(client *MockAnalysisClient) (*AnalysisController, *fakeView) {
	view := newFakeView()
	return NewAnalysisController(log.New(), client, view, DefaultMetricCatalog()), view
}

func TestAnalysisController_PhishingVerdict(t *testing.T) {
	client := new(MockAnalysisClient)
	client.On("Analyze", mock.Anything, "http://192.168.1.1/login").Return([]byte(phishingPayload), http.StatusOK, nil)
	controller, view := newTestController(client)

	outcome, err := controller.Submit(context.Background(), "  http://192.168.1.1/login ")
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.NoError(t, outcome.ConfigErr)

	assert.False(t, view.loading)
	assert.True(t, view.resultsVisible)
	assert.False(t, view.errorVisible)
	assert.Equal(t, "Phishing", view.verdict.Label)
	assert.Equal(t, "danger", view.verdict.Tone)
	assert.Equal(t, "triangle-exclamation", view.verdict.Icon)

	require.Len(t, view.canvas.created, 1)
	assert.Equal(t, []float64{0.12, 0.88}, view.canvas.created[0].spec.Values)

	patterns := view.regions[models.GroupSuspiciousPatterns].rows
	require.Len(t, patterns, 5)
	assert.Equal(t, "IP Address", patterns[0].Metric)
	assert.Equal(t, models.TierBad, patterns[0].Tier)
	assert.Equal(t, "text-danger", patterns[0].Class)

	assert.Len(t, view.regions[models.GroupSecurityMetrics].rows, 4)
	assert.Len(t, view.regions[models.GroupURLStructure].rows, 5)
	assert.Equal(t, StateIdle, controller.State())
	client.AssertExpectations(t)
}

func TestAnalysisController_DeclaredErrorWithFailureStatus(t *testing.T) {
	client := new(MockAnalysisClient)
	client.On("Analyze", mock.Anything, "https://example.com").Return([]byte(`{"error": "invalid url"}`), http.StatusBadRequest, nil)
	controller, view := newTestController(client)

	outcome, err := controller.Submit(context.Background(), "https://example.com")
	require.Error(t, err)

	var failure *AnalysisFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, FailureApplication, failure.Kind)
	assert.Equal(t, "invalid url", failure.Message)
	assert.Same(t, failure, outcome.Failure)

	assert.True(t, view.errorVisible)
	assert.Equal(t, "invalid url", view.errorMessage)
	assert.False(t, view.resultsVisible)
	assert.False(t, view.loading)
	assert.Empty(t, view.canvas.created)
}

func TestAnalysisController_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		status   int
		err      error
		wantKind FailureKind
		wantMsg  string
	}{
		{name: "transport error", err: errors.Sentinel("dial tcp: connection refused"), wantKind: FailureTransport, wantMsg: MsgAnalysisFailed},
		{name: "failure status without error field", body: []byte(`Bad Gateway`), status: http.StatusBadGateway, wantKind: FailureTransport, wantMsg: MsgAnalysisFailed},
		{name: "error field with success status", body: []byte(`{"error": "Model not initialized. Please try again later."}`), status: http.StatusOK, wantKind: FailureApplication, wantMsg: "Model not initialized. Please try again later."},
		{name: "empty error field with success status", body: []byte(`{"error": "", "prediction": "safe", "probability_safe": 1}`), status: http.StatusOK, wantKind: FailureApplication, wantMsg: MsgAnalysisFailed},
		{name: "malformed success body", body: []byte(`{"probability_safe": 1}`), status: http.StatusOK, wantKind: FailureMalformed, wantMsg: MsgAnalysisFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockAnalysisClient)
			client.On("Analyze", mock.Anything, "https://example.com").Return(tt.body, tt.status, tt.err)
			controller, view := newTestController(client)

			_, err := controller.Submit(context.Background(), "https://example.com")

			var failure *AnalysisFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.wantKind, failure.Kind)
			assert.Equal(t, tt.wantMsg, view.errorMessage)
			assert.False(t, view.resultsVisible)
			assert.False(t, view.loading)
			assert.Equal(t, StateIdle, controller.State())
		})
	}
}

func TestAnalysisController_ValidationNeverCallsService(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{input: "   ", wantMsg: MsgEmptyURL},
		{input: "not a url", wantMsg: MsgInvalidURL},
		{input: "ftp://example.com", wantMsg: MsgInvalidURL},
		{input: "http://", wantMsg: MsgInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			client := new(MockAnalysisClient)
			controller, view := newTestController(client)

			_, err := controller.Submit(context.Background(), tt.input)

			var failure *AnalysisFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, FailureValidation, failure.Kind)
			assert.Equal(t, tt.wantMsg, view.errorMessage)
			client.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalysisController_ResultAndErrorAreExclusive(t *testing.T) {
	client := new(MockAnalysisClient)
	client.On("Analyze", mock.Anything, "https://example.com").Return([]byte(safePayload), http.StatusOK, nil)
	client.On("Analyze", mock.Anything, "https://broken.example").Return([]byte(`{"error": "invalid url"}`), http.StatusBadRequest, nil)
	controller, view := newTestController(client)

	for i := 0; i < 3; i++ {
		_, err := controller.Submit(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.True(t, view.resultsVisible)
		assert.False(t, view.errorVisible)

		_, err = controller.Submit(context.Background(), "https://broken.example")
		require.Error(t, err)
		assert.False(t, view.resultsVisible)
		assert.True(t, view.errorVisible)
	}

	assert.Zero(t, view.overlaps)
	assert.Equal(t, 1, view.canvas.Live())
	assert.Len(t, view.canvas.created, 3)
	assert.Equal(t, "Safe", view.verdict.Label)
}

func TestAnalysisController_RepeatedSuccessKeepsOneChart(t *testing.T) {
	client := new(MockAnalysisClient)
	client.On("Analyze", mock.Anything, "https://example.com").Return([]byte(safePayload), http.StatusOK, nil)
	controller, view := newTestController(client)

	for i := 0; i < 4; i++ {
		_, err := controller.Submit(context.Background(), "https://example.com")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, view.canvas.Live())
	assert.Len(t, view.regions[models.GroupSecurityMetrics].rows, 1)
}

func TestAnalysisController_ConfigErrorsDoNotFailSubmission(t *testing.T) {
	client := new(MockAnalysisClient)
	client.On("Analyze", mock.Anything, "https://example.com").Return(
		[]byte(`{"prediction":"safe","probability_safe":0.9,"probability_phishing":0.1,"security_metrics":{"HTTPS":true,"HSTS":true}}`),
		http.StatusOK, nil)
	controller, view := newTestController(client)

	outcome, err := controller.Submit(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Error(t, outcome.ConfigErr)
	assert.True(t, errors.Is(outcome.ConfigErr, ErrNoPolicy))
	assert.True(t, errors.Is(outcome.ConfigErr, ErrNoLabel))

	rows := view.regions[models.GroupSecurityMetrics].rows
	require.Len(t, rows, 2)
	assert.Equal(t, models.TierGood, rows[0].Tier)
	assert.Equal(t, models.TierNeutral, rows[1].Tier)
	assert.True(t, view.resultsVisible)
}

// blockingClient holds each request until its release channel is closed.
type blockingClient struct {
	mu       sync.Mutex
	started  chan string
	releases map[string]chan struct{}
	bodies   map[string]string
}

func (c *blockingClient) Analyze(ctx context.Context, rawURL string) ([]byte, int, error) {
	c.mu.Lock()
	release := c.releases[rawURL]
	body := c.bodies[rawURL]
	c.mu.Unlock()

	c.started <- rawURL
	<-release
	return []byte(body), http.StatusOK, nil
}

func TestAnalysisController_StaleResponseIsDiscarded(t *testing.T) {
	client := &blockingClient{
		started: make(chan string, 2),
		releases: map[string]chan struct{}{
			"https://first.example":  make(chan struct{}),
			"https://second.example": make(chan struct{}),
		},
		bodies: map[string]string{
			"https://first.example":  phishingPayload,
			"https://second.example": safePayload,
		},
	}
	view := newFakeView()
	controller := NewAnalysisController(log.New(), client, view, DefaultMetricCatalog())

	type result struct {
		outcome *Outcome
		err     error
	}
	firstDone := make(chan result, 1)
	go func() {
		o, err := controller.Submit(context.Background(), "https://first.example")
		firstDone <- result{o, err}
	}()
	require.Equal(t, "https://first.example", <-client.started)

	secondDone := make(chan result, 1)
	go func() {
		o, err := controller.Submit(context.Background(), "https://second.example")
		secondDone <- result{o, err}
	}()
	require.Equal(t, "https://second.example", <-client.started)

	close(client.releases["https://second.example"])
	second := <-secondDone
	require.NoError(t, second.err)
	assert.Equal(t, "Safe", view.verdict.Label)

	close(client.releases["https://first.example"])
	first := <-firstDone
	assert.True(t, errors.Is(first.err, ErrStaleResponse))
	assert.True(t, first.outcome.Stale)

	assert.Equal(t, "Safe", view.verdict.Label)
	assert.True(t, view.resultsVisible)
	assert.False(t, view.loading)
	assert.Equal(t, 1, view.canvas.Live())
	assert.Equal(t, StateIdle, controller.State())
}
