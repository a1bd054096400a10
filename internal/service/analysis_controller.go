package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	MsgEmptyURL       = `Please enter a URL`
	MsgInvalidURL     = `Invalid URL format`
	MsgAnalysisFailed = `Analysis failed`
)

type ControllerState string

const (
	StateIdle       ControllerState = "idle"
	StateSubmitting ControllerState = "submitting"
)

// Outcome describes what one submission did to the view.
type Outcome struct {
	Seq     uint64
	Result  *models.AnalysisResult
	Failure *AnalysisFailure
	// ConfigErr aggregates catalog defects found while rendering metrics.
	ConfigErr error
	Stale     bool
}

// AnalysisController runs one request/response cycle per submission and
// drives the presenters. View mutations are serialized by mu; the call to
// the analysis service runs without holding it.
type AnalysisController struct {
	log       *log.Logger
	client    adaptors.AnalysisClient
	view      adaptors.View
	results   *ResultPresenter
	errors    *ErrorPresenter
	chart     *ConfidenceVisualizer
	renderers []*MetricRenderer

	seq   atomic.Uint64
	mu    sync.Mutex
	state ControllerState
}

func NewAnalysisController(log *log.Logger, client adaptors.AnalysisClient, view adaptors.View, catalog *models.MetricCatalog) *AnalysisController {
	policy := NewThresholdPolicy(catalog.Rules)

	renderers := make([]*MetricRenderer, 0, len(models.Groups))
	for _, group := range models.Groups {
		renderers = append(renderers, NewMetricRenderer(log, group, catalog.Labels[group], policy))
	}

	return &AnalysisController{
		log:       log,
		client:    client,
		view:      view,
		results:   NewResultPresenter(view),
		errors:    NewErrorPresenter(view),
		chart:     NewConfidenceVisualizer(log, view.Canvas()),
		renderers: renderers,
		state:     StateIdle,
	}
}

func (c *AnalysisController) State() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit analyzes rawURL and presents the outcome. The returned error is an
// *AnalysisFailure when the failure was shown to the user, or
// ErrStaleResponse when a newer submission superseded this one and the view
// was left untouched.
func (c *AnalysisController) Submit(ctx context.Context, rawURL string) (*Outcome, error) {
	seq := c.begin()
	defer c.finish(seq)

	outcome := &Outcome{Seq: seq}

	target, failure := validateURL(rawURL)
	var result *models.AnalysisResult
	if failure == nil {
		result, failure = c.fetch(ctx, target)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq.Load() {
		outcome.Stale = true
		metrics.AnalysisSubmissionsTotal.WithLabelValues(`stale`).Inc()
		c.log.WithField(`seq`, seq).Debug(`discarding superseded analysis response`)
		return outcome, ErrStaleResponse
	}

	if failure != nil {
		outcome.Failure = failure
		metrics.AnalysisSubmissionsTotal.WithLabelValues(string(failure.Kind)).Inc()
		c.errors.Present(failure.Message)
		return outcome, failure
	}

	outcome.Result = result
	outcome.ConfigErr = c.present(result)
	metrics.AnalysisSubmissionsTotal.WithLabelValues(`success`).Inc()
	return outcome, nil
}

func (c *AnalysisController) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.seq.Add(1)
	c.state = StateSubmitting
	c.view.ShowLoading()
	c.view.HideResults()
	c.view.HideError()
	return seq
}

// finish clears the loading affordance unless a newer submission owns it.
func (c *AnalysisController) finish(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq.Load() {
		return
	}
	c.view.HideLoading()
	c.state = StateIdle
}

func (c *AnalysisController) fetch(ctx context.Context, target string) (*models.AnalysisResult, *AnalysisFailure) {
	body, status, err := c.client.Analyze(ctx, target)
	if err != nil {
		c.log.WithError(err).WithField(`url`, target).Error(`analysis request failed`)
		return nil, &AnalysisFailure{Kind: FailureTransport, Message: MsgAnalysisFailed, Err: err}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		statusErr := fmt.Errorf(`analysis service returned status %d`, status)
		if msg := models.ErrorMessage(body); msg != "" {
			c.log.WithError(statusErr).WithField(`url`, target).Warn(msg)
			return nil, &AnalysisFailure{Kind: FailureApplication, Message: msg, Err: statusErr}
		}
		c.log.WithError(statusErr).WithField(`url`, target).Error(`analysis request failed`)
		return nil, &AnalysisFailure{Kind: FailureTransport, Message: MsgAnalysisFailed, Err: statusErr}
	}

	result, err := models.DecodeAnalysisPayload(body)
	if err != nil {
		var payErr *models.PayloadError
		if errors.As(err, &payErr) {
			msg := payErr.Message
			if msg == "" {
				msg = MsgAnalysisFailed
			}
			c.log.WithField(`url`, target).Warn(msg)
			return nil, &AnalysisFailure{Kind: FailureApplication, Message: msg, Err: err}
		}
		c.log.WithError(err).WithField(`url`, target).Error(`failed to decode analysis response`)
		return nil, &AnalysisFailure{Kind: FailureMalformed, Message: MsgAnalysisFailed, Err: err}
	}

	c.log.WithFields(log.Fields{
		`url`:        target,
		`prediction`: result.Prediction,
	}).Info(`analysis completed`)
	return result, nil
}

func (c *AnalysisController) present(result *models.AnalysisResult) error {
	c.results.Present(result)
	metrics.AnalysisVerdictsTotal.WithLabelValues(strings.ToLower(VerdictFor(result).Label)).Inc()

	if err := c.chart.Replace(result.ProbabilitySafe, result.ProbabilityPhishing); err != nil {
		c.log.WithError(err).Error(`failed to draw confidence chart`)
	}

	var cfgErr error
	for _, r := range c.renderers {
		if err := r.Render(c.view.MetricRegion(r.Group()), result.Group(r.Group())); err != nil {
			cfgErr = errors.Append(cfgErr, err)
		}
	}
	return cfgErr
}

func validateURL(rawURL string) (string, *AnalysisFailure) {
	target := strings.TrimSpace(rawURL)
	if target == "" {
		return "", &AnalysisFailure{Kind: FailureValidation, Message: MsgEmptyURL, Err: errors.New(`url is empty`)}
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", &AnalysisFailure{Kind: FailureValidation, Message: MsgInvalidURL, Err: errors.Wrap(err, `failed to parse url`)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &AnalysisFailure{Kind: FailureValidation, Message: MsgInvalidURL, Err: errors.New(`url is invalid`)}
	}
	return target, nil
}
