package adaptors

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RoundTripFunc lets us mock http.RoundTripper easily.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(endpoint string, rt RoundTripFunc) *AnalysisClient {
	return &AnalysisClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 1 * time.Second, Transport: rt},
		log:      log.New(),
	}
}

func TestAnalysisClient_SendsFormEncodedURL(t *testing.T) {
	var gotReq *http.Request
	var gotBody string
	client := stubClient("http://classifier.local/analyze", func(req *http.Request) (*http.Response, error) {
		gotReq = req
		b, _ := io.ReadAll(req.Body)
		gotBody = string(b)
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(`{"prediction":"safe"}`)),
			Header:     make(http.Header),
		}, nil
	})

	body, code, err := client.Analyze(context.Background(), "https://example.com/a b?x=1&y=ü")
	require.NoError(t, err)

	assert.Equal(t, `{"prediction":"safe"}`, string(body))
	assert.Equal(t, 200, code)
	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", gotReq.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Accept"))
	assert.Equal(t, "url=https%3A%2F%2Fexample.com%2Fa+b%3Fx%3D1%26y%3D%C3%BC", gotBody)
}

func TestAnalysisClient_Analyze(t *testing.T) {
	cases := []struct {
		name     string
		setup    func() *AnalysisClient
		wantBody string
		wantCode int
		wantErr  bool
	}{
		{
			name: "error status is returned with body",
			setup: func() *AnalysisClient {
				return stubClient("http://classifier.local/analyze", func(req *http.Request) (*http.Response, error) {
					return &http.Response{
						StatusCode: 400,
						Body:       io.NopCloser(strings.NewReader(`{"error":"invalid url"}`)),
						Header:     make(http.Header),
					}, nil
				})
			},
			wantBody: `{"error":"invalid url"}`,
			wantCode: 400,
		},
		{
			name: "network error",
			setup: func() *AnalysisClient {
				return stubClient("http://classifier.local/analyze", func(req *http.Request) (*http.Response, error) {
					return nil, errors.New("network failure")
				})
			},
			wantErr: true,
		},
		{
			name: "invalid endpoint",
			setup: func() *AnalysisClient {
				return NewAnalysisClient("http://bad host/analyze", 1*time.Second, log.New())
			},
			wantErr: true,
		},
		{
			name: "read body error",
			setup: func() *AnalysisClient {
				return stubClient("http://classifier.local/analyze", func(req *http.Request) (*http.Response, error) {
					return &http.Response{
						StatusCode: 200,
						Body:       errReadCloser{},
						Header:     make(http.Header),
					}, nil
				})
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, code, err := tc.setup().Analyze(context.Background(), "https://example.com")

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantBody, string(body))
			assert.Equal(t, tc.wantCode, code)
		})
	}
}

func TestAnalysisClient_ResponseSizeLimit(t *testing.T) {
	respond := func(size int) *AnalysisClient {
		return stubClient("http://classifier.local/analyze", func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(strings.Repeat("a", size))),
				Header:     make(http.Header),
			}, nil
		})
	}

	body, code, err := respond(MaxResponseBytes).Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Len(t, body, MaxResponseBytes)
	assert.Equal(t, 200, code)

	body, code, err = respond(MaxResponseBytes+1).Analyze(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResponseTooLarge))
	assert.Nil(t, body)
	assert.Equal(t, 0, code)
}

// errReadCloser is an io.ReadCloser that always errors on Read.
type errReadCloser struct{}

func (e errReadCloser) Read(p []byte) (int, error) {
	return 0, errors.New("read failed")
}
func (e errReadCloser) Close() error {
	return nil
}
