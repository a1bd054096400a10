package adaptors

import "context"

// AnalysisClient submits a URL to the external classification service and
// returns the raw response body and status code.
type AnalysisClient interface {
	Analyze(ctx context.Context, rawURL string) ([]byte, int, error)
}
