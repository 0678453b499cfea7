package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"bmidash/domain/core"
	apperrors "bmidash/internal/errors"
)

// FetcherConfig describes the remote dataset location
type FetcherConfig struct {
	URL      string
	Timeout  time.Duration
	MaxBytes int64
}

// HTTPFetcher downloads the dataset with a single GET request. There are no retries.
type HTTPFetcher struct {
	config     FetcherConfig
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher whose client gives up after config.Timeout
func NewHTTPFetcher(config FetcherConfig) *HTTPFetcher {
	return &HTTPFetcher{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Fetch returns the response body. Every failure is an acquisition error;
// timeouts carry ACQUISITION_TIMEOUT.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.URL, nil)
	if err != nil {
		return nil, apperrors.AcquisitionFailed(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, classify(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.AcquisitionFailed(core.NewStatusError(resp.StatusCode))
	}

	limit := f.config.MaxBytes
	if limit <= 0 {
		limit = 10 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, classify(fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, apperrors.AcquisitionFailed(fmt.Errorf("%w: limit %d bytes", core.ErrBodyTooLarge, limit))
	}

	return body, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.AcquisitionTimeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.AcquisitionTimeout(err)
	}
	return apperrors.AcquisitionFailed(err)
}
