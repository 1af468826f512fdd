package tiendanube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/logging"
)

const (
	rateLimitDelayCap   = 60 * time.Second
	serverErrorDelayCap = 30 * time.Second
)

// Response is the terminal answer of a send: either a success or the
// last response received after the retry budget ran out. Callers decide
// what a non-2xx status means.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// APIError carries a rejected status so call sites can classify it
// (422 gets one structural fallback, everything else is a plain failure).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tiendanube request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tiendanube request failed: status %d: %s", e.StatusCode, e.Body)
}

func newAPIError(resp *Response) error {
	body := strings.TrimSpace(string(resp.Body))
	if len(body) > 300 {
		body = body[:300]
	}
	return &APIError{StatusCode: resp.StatusCode, Body: body}
}

type transport struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
	logger     logging.LoggerService
	sleep      func(ctx context.Context, delay time.Duration) error
}

func newTransport(httpClient *http.Client, userAgent string, maxRetries int, logger logging.LoggerService) *transport {
	if maxRetries <= 0 {
		maxRetries = 8
	}
	return &transport{
		httpClient: httpClient,
		userAgent:  userAgent,
		maxRetries: maxRetries,
		logger:     logger,
		sleep:      sleepWithContext,
	}
}

// send issues one logical request, absorbing 429 and transient 5xx
// answers with backoff. After the retry budget is exhausted the last
// response is returned as-is; a nil error never implies a 2xx status.
func (t *transport) send(ctx context.Context, method, rawURL, token string, query url.Values, body any) (*Response, error) {
	var resp *Response
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		var err error
		resp, err = t.do(ctx, method, rawURL, token, query, body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			delay, ok := retryAfterDelay(resp.Header)
			if !ok {
				delay = retryDelay(attempt, rateLimitDelayCap)
			}
			t.logger.LogWarning(fmt.Sprintf("[429] waiting %s (attempt %d/%d) %s", delay, attempt, t.maxRetries, rawURL))
			if err := t.sleep(ctx, delay); err != nil {
				return nil, err
			}
		case isTransientStatus(resp.StatusCode):
			delay := retryDelay(attempt, serverErrorDelayCap)
			t.logger.LogWarning(fmt.Sprintf("[%d] waiting %s (attempt %d/%d) %s", resp.StatusCode, delay, attempt, t.maxRetries, rawURL))
			if err := t.sleep(ctx, delay); err != nil {
				return nil, err
			}
		default:
			return resp, nil
		}
	}
	return resp, nil
}

func (t *transport) do(ctx context.Context, method, rawURL, token string, query url.Values, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Authentication", "bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	client := t.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryDelay is min(2^attempt, cap) seconds. No jitter: the job is a
// sequential low-QPS batch, so synchronized retries are not a concern
// within one run.
func retryDelay(attempt int, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt > 10 {
		return maxDelay
	}
	delay := time.Duration(1<<uint(attempt)) * time.Second
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func retryAfterDelay(header http.Header) (time.Duration, bool) {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
