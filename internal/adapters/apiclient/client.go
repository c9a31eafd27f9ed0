// Package apiclient implements the API Client (§4.A): a stateless-by-call
// HTTP adapter enforcing a global minimum inter-request spacing, a circuit
// breaker over retries, and 2xx/non-2xx JSON envelope parsing. Grounded on
// the teacher's internal/adapters/api/client.go and circuit_breaker.go,
// generalized from the teacher's fixed token-bucket rate limiter to the
// monotonic next-send-instant claim the spec calls for.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/voidfleet/controller/internal/domain/shared"
)

const (
	minInterRequestSpacing = 501 * time.Millisecond
	slowWaitWarnThreshold  = 10 * time.Second
	requestTimeout         = 10 * time.Second
	pageSize               = 20
	defaultMaxRetries      = 5
	defaultBackoffBase     = time.Second
	circuitFailureThreshold = 5
	circuitOpenTimeout      = 60 * time.Second
)

// errNoRedirect is returned by the client's http.Client.CheckRedirect to
// disable following redirects, per §4.A ("redirects disabled").
var errNoRedirect = errors.New("apiclient: redirects are disabled")

// APIError carries a non-2xx response body back to the caller rather than
// retrying or masking it (§4.A: "non-2xx returns raw body to the caller").
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, string(e.Body))
}

// Client is the sole HTTP boundary to the game API. It holds no game
// state — every call takes the auth token it should use, since
// registration authenticates with the account token while every other
// call authenticates with the agent token (§4.A "alternate auth header").
type Client struct {
	httpClient *http.Client
	baseURL    string
	clock      shared.Clock

	pacer   *pacer
	breaker *circuitBreaker

	maxRetries  int
	backoffBase time.Duration
}

// New constructs a Client against baseURL (HTTPS only; the caller is
// responsible for passing an https:// URL — the client does not rewrite
// http:// to https://, it simply never follows a redirect that might).
func New(baseURL string, clock shared.Clock) *Client {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return errNoRedirect
			},
		},
		baseURL:     baseURL,
		clock:       clock,
		pacer:       newPacer(minInterRequestSpacing, clock),
		breaker:     newCircuitBreaker(circuitFailureThreshold, circuitOpenTimeout, clock),
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
	}
}

// pacer hands out a monotonically advancing next-send instant; concurrent
// callers atomically claim the next free slot (§4.A).
type pacer struct {
	mu       sync.Mutex
	nextSend time.Time
	spacing  time.Duration
	clock    shared.Clock
}

func newPacer(spacing time.Duration, clock shared.Clock) *pacer {
	return &pacer{spacing: spacing, clock: clock}
}

// claim reserves the next send slot and blocks the caller until it
// arrives, logging a warning if the wait exceeded 10s.
func (p *pacer) claim(ctx context.Context) error {
	p.mu.Lock()
	now := p.clock.Now()
	if p.nextSend.Before(now) {
		p.nextSend = now
	}
	wait := p.nextSend.Sub(now)
	p.nextSend = p.nextSend.Add(p.spacing)
	p.mu.Unlock()

	if wait > slowWaitWarnThreshold {
		log.Printf("apiclient: rate limiter wait of %s exceeds 10s", wait)
	}
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// envelope is the game API's common response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"meta"`
	Error *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

// do executes one request with pacing and circuit-breaker protection and
// retries on network errors, 429, 503, and other 5xx responses.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	url := c.baseURL + path

	var lastErr error
	var clientErr error
	err := c.breaker.call(func() error {
		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			if err := c.pacer.claim(ctx); err != nil {
				return err
			}

			var reqBody io.Reader
			if body != nil {
				encoded, err := json.Marshal(body)
				if err != nil {
					return fmt.Errorf("apiclient: marshal request body: %w", err)
				}
				reqBody = bytes.NewReader(encoded)
			}

			req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
			if err != nil {
				return fmt.Errorf("apiclient: build request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, doErr := c.httpClient.Do(req)
			if doErr != nil {
				if errors.Is(doErr, errNoRedirect) {
					return fmt.Errorf("apiclient: unexpected redirect: %w", doErr)
				}
				lastErr = doErr
				if attempt >= c.maxRetries || ctx.Err() != nil {
					break
				}
				c.clock.Sleep(c.backoffBase * time.Duration(1<<attempt))
				continue
			}

			respBody, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return fmt.Errorf("apiclient: read response: %w", readErr)
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode >= 500 {
				lastErr = &APIError{StatusCode: resp.StatusCode, Body: respBody}
				if attempt >= c.maxRetries || ctx.Err() != nil {
					break
				}
				c.clock.Sleep(c.backoffBase * time.Duration(1<<attempt))
				continue
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				// 4xx (other than 429) is not retryable; the caller
				// decides what to do with the raw body. The server did
				// answer, so this is not counted as a breaker failure.
				clientErr = &APIError{StatusCode: resp.StatusCode, Body: respBody}
				return nil
			}

			if out != nil {
				var env envelope
				if err := json.Unmarshal(respBody, &env); err != nil {
					return fmt.Errorf("apiclient: unmarshal envelope: %w", err)
				}
				if len(env.Data) > 0 {
					if err := json.Unmarshal(env.Data, out); err != nil {
						return fmt.Errorf("apiclient: unmarshal data: %w", err)
					}
				} else if err := json.Unmarshal(respBody, out); err != nil {
					// Documents without a data envelope (the root status
					// document) are decoded whole.
					return fmt.Errorf("apiclient: unmarshal body: %w", err)
				}
			}
			return nil
		}
		if lastErr != nil {
			return fmt.Errorf("apiclient: retries exhausted: %w", lastErr)
		}
		return fmt.Errorf("apiclient: retries exhausted")
	})

	if errors.Is(err, errCircuitOpen) {
		return fmt.Errorf("apiclient: circuit breaker open: %w", err)
	}
	if err == nil && clientErr != nil {
		return clientErr
	}
	return err
}

// fetchPaged repeatedly calls fetch for increasing page numbers (page size
// 20) until a page returns fewer rows than requested.
func fetchPaged[T any](ctx context.Context, fetch func(ctx context.Context, page, limit int) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		rows, err := fetch(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < pageSize {
			return all, nil
		}
	}
}
