package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Clerk Backend API root.
const DefaultBaseURL = "https://api.clerk.com/v1"

// ErrNotConfigured is returned when the client has no secret key.
var ErrNotConfigured = errors.New("clerk secret key not configured")

// Client calls the Clerk Backend API with an instance secret key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// NewClient creates a Clerk Backend API client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, secretKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		secretKey:  strings.TrimSpace(secretKey),
	}
}

// updateMetadataRequest matches PATCH /users/{user_id}/metadata. Clerk deep-merges the objects.
type updateMetadataRequest struct {
	PublicMetadata map[string]any `json:"public_metadata,omitempty"`
}

// APIError is a non-2xx response from the Backend API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clerk api status %d: %s", e.StatusCode, e.Body)
}

// UpdatePublicMetadata merges metadata into the user's public metadata.
func (c *Client) UpdatePublicMetadata(ctx context.Context, clerkUserID string, metadata map[string]any) error {
	if c.secretKey == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(clerkUserID) == "" {
		return errors.New("clerk user id is required")
	}

	payload, err := json.Marshal(updateMetadataRequest{PublicMetadata: metadata})
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(clerkUserID) + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
