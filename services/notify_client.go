package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SubmissionDocument is one document entry in a submission notification.
type SubmissionDocument struct {
	DocumentType string `json:"document_type"`
	FilePath     string `json:"file_path"`
}

// SubmissionEvent is the payload forwarded to the notification relay when an
// application has been submitted.
type SubmissionEvent struct {
	UserID        uint                 `json:"userId"`
	FullName      string               `json:"fullName"`
	Email         string               `json:"email"`
	Course        string               `json:"course"`
	University    string               `json:"university"`
	ApplicationID uint                 `json:"applicationId"`
	Documents     []SubmissionDocument `json:"documents,omitempty"`
}

// Notifier forwards submission events to the notification relay.
type Notifier interface {
	SendSubmissionEmail(ctx context.Context, event SubmissionEvent) error
}

// RelayClient is an HTTP client for the notification relay service.
type RelayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRelayClient creates a new relay client
func NewRelayClient(baseURL string) *RelayClient {
	return &RelayClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendSubmissionEmail posts the event to the relay's /send-email endpoint.
// No retry: the relay's success or failure is returned as-is.
func (c *RelayClient) SendSubmissionEmail(ctx context.Context, event SubmissionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
