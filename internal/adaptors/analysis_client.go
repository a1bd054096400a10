package adaptors

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// MaxResponseBytes caps the body read from the analysis service.
const MaxResponseBytes = 1 << 20

var ErrResponseTooLarge = errors.Sentinel(`analysis response exceeds size limit`)

// AnalysisClient posts URLs to the external classification service.
type AnalysisClient struct {
	endpoint string
	client   *http.Client
	log      *log.Logger
}

func NewAnalysisClient(endpoint string, timeout time.Duration, log *log.Logger) *AnalysisClient {
	rTripper := promhttp.InstrumentRoundTripperDuration(
		metrics.HTTPClientRequestDuration,
		promhttp.InstrumentRoundTripperCounter(metrics.HTTPClientRequestsTotal, http.DefaultTransport))

	return &AnalysisClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   timeout,
			Transport: rTripper,
		},
		log: log,
	}
}

// Analyze sends a form encoded POST carrying the single "url" field. Any
// status code is returned to the caller together with the body.
func (a *AnalysisClient) Analyze(ctx context.Context, rawURL string) ([]byte, int, error) {
	form := url.Values{}
	form.Set(`url`, rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		a.log.WithError(err).Error(`failed to create analysis request`)
		return nil, 0, errors.Wrap(err, `failed to create analysis request`)
	}
	req.Header.Set(`Content-Type`, `application/x-www-form-urlencoded`)
	req.Header.Set(`Accept`, `application/json`)

	resp, err := a.client.Do(req)
	if err != nil {
		metrics.HTTPClientErrorsTotal.WithLabelValues(http.MethodPost, ``).Inc()
		a.log.WithError(err).Error(`analysis service is unreachable`)
		return nil, 0, errors.Wrap(err, `analysis service is unreachable`)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.HTTPClientErrorsTotal.WithLabelValues(http.MethodPost, strconv.Itoa(resp.StatusCode)).Inc()
	}

	bodyByte, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		a.log.Errorf(`failed to read analysis response body. error: %v`, err)
		return nil, 0, errors.Wrap(err, `failed to read analysis response body`)
	}
	if len(bodyByte) > MaxResponseBytes {
		a.log.WithField(`status`, resp.StatusCode).Error(ErrResponseTooLarge.Error())
		return nil, 0, ErrResponseTooLarge
	}

	return bodyByte, resp.StatusCode, nil
}
