// Package operationinfo is the client for the operation information service:
// project-profile template previews, loan modality codes, and per-operation
// user roles. Read-only reference data; nothing here mutates state.
package operationinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sgprep/pkg/platform/sentinel"
)

// Client queries the operation info service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// ProjectProfileTemplate fetches the template preview for an operation in the
// given language. The language tag is lowercased before the call.
func (c *Client) ProjectProfileTemplate(ctx context.Context, opNumber, lang string) (string, error) {
	endpoint := fmt.Sprintf("%s/operations/%s/project-profile-template?lang=%s",
		c.baseURL, url.PathEscape(opNumber), url.QueryEscape(strings.ToLower(lang)))

	var body struct {
		Template string `json:"template"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return "", err
	}
	return body.Template, nil
}

// LoanModalityCode fetches the loan modality code for an operation.
func (c *Client) LoanModalityCode(ctx context.Context, opNumber string) (string, error) {
	endpoint := fmt.Sprintf("%s/operations/%s/loan-modality-code", c.baseURL, url.PathEscape(opNumber))

	var body struct {
		Code string `json:"code"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return "", err
	}
	return body.Code, nil
}

// UserRoles fetches the roles a user holds on an operation.
func (c *Client) UserRoles(ctx context.Context, userName, opNumber string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/operations/%s/users/%s/roles",
		c.baseURL, url.PathEscape(opNumber), url.PathEscape(userName))

	var body struct {
		Roles []string `json:"roles"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	return body.Roles, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build operation-info request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("operation-info service: %w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("operation-info: %w", sentinel.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("operation-info service returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode operation-info response: %w", err)
	}
	return nil
}
