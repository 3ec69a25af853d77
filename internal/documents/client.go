// Package documents is the client for the external document storage service.
// Disclosure is the only call this system makes; the service owns the actual
// publication of the file.
package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sgprep/internal/operation"
	"sgprep/pkg/platform/sentinel"
)

// Client invokes the document service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type discloseRequest struct {
	OperationNumber string `json:"operationNumber"`
	DocumentType    string `json:"documentType"`
	FileName        string `json:"fileName,omitempty"`
}

// Disclose asks the document service to make the document publicly available.
// Any non-2xx answer is a failure; the caller decides what happens next and
// must not have dispatched the milestone command yet.
func (c *Client) Disclose(ctx context.Context, opNumber string, doc operation.Document) error {
	body, err := json.Marshal(discloseRequest{
		OperationNumber: opNumber,
		DocumentType:    string(doc.DocumentType),
		FileName:        doc.FileName,
	})
	if err != nil {
		return fmt.Errorf("encode disclose request: %w", err)
	}

	endpoint := c.baseURL + "/documents/disclose"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build disclose request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("document service: %w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("document service returned status %d disclosing %s for %s",
			resp.StatusCode, doc.DocumentType, opNumber)
	}
	return nil
}
