// Package workingday answers whether a date is a business working day for an
// operation. The calendar arithmetic itself lives in an external service; this
// package is the client plus a Redis-backed cache, since per-operation
// calendars change rarely but get queried on every circulation validation.
package workingday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sgprep/pkg/platform/circuit"
	"sgprep/pkg/platform/sentinel"
)

const dateLayout = "2006-01-02"

// Client queries the working-day service over HTTP. A circuit breaker tracks
// consecutive failures; once it opens, every lookup still probes the service,
// with failures surfacing as a stable sentinel.ErrUnavailable until enough
// probes succeed and the breaker closes again.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
}

// New builds a working-day client. A nil httpClient falls back to a client
// with a short timeout; calendar lookups must never stall a request.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		breaker: circuit.New("working-day", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

type workingDayResponse struct {
	IsWorkingDay bool `json:"isWorkingDay"`
}

// IsWorkingDay asks the service whether date is a working day for opNumber.
// While the breaker is open every call still probes the service, but failures
// collapse into a stable sentinel.ErrUnavailable until enough probes succeed.
func (c *Client) IsWorkingDay(ctx context.Context, opNumber string, date time.Time) (bool, error) {
	wasOpen := c.breaker.IsOpen()

	working, err := c.lookup(ctx, opNumber, date)
	if err != nil {
		c.breaker.RecordFailure()
		if wasOpen {
			return false, fmt.Errorf("working-day service: %w: circuit open", sentinel.ErrUnavailable)
		}
		return false, err
	}
	c.breaker.RecordSuccess()
	return working, nil
}

func (c *Client) lookup(ctx context.Context, opNumber string, date time.Time) (bool, error) {
	endpoint := fmt.Sprintf("%s/operations/%s/working-days/%s",
		c.baseURL, url.PathEscape(opNumber), date.Format(dateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build working-day request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("working-day service: %w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("working-day service returned status %d", resp.StatusCode)
	}

	var body workingDayResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode working-day response: %w", err)
	}
	return body.IsWorkingDay, nil
}
