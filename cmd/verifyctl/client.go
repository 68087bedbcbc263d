package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"juscash-verifier/models"
)

// Client talks to a running verifier over HTTP
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a verifier client. A zero timeout disables the client-side deadline.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyResponse is a verdict together with its audit id
type VerifyResponse struct {
	Verdict        models.Verdict
	VerificationID string
}

// APIError is a non-2xx answer from the verifier
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("verifier returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("verifier returned %d: %s", e.Status, e.Message)
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Verify posts a raw process record to /verify
func (c *Client) Verify(ctx context.Context, record []byte) (*VerifyResponse, error) {
	var verdict models.Verdict
	header, err := c.do(ctx, http.MethodPost, "/verify", record, &verdict)
	if err != nil {
		return nil, err
	}
	return &VerifyResponse{Verdict: verdict, VerificationID: header.Get("X-Verification-ID")}, nil
}

// GetVerification calls GET /verifications/:id
func (c *Client) GetVerification(ctx context.Context, id string) (*models.Verification, error) {
	var envelope struct {
		Success bool                `json:"success"`
		Data    models.Verification `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/verifications/"+id, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Header, nil
}
