package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteAPI is the remote store boundary. A nil RemoteAPI means sync is
// not configured and passes are skipped.
type RemoteAPI interface {
	Apply(ctx context.Context, env *Envelope) (ApplyResult, error)
}

// HTTPRemote posts envelopes to the remote sync endpoint.
type HTTPRemote struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPRemote creates a remote client with a bounded per-call timeout.
func NewHTTPRemote(baseURL, apiKey string, timeout time.Duration) *HTTPRemote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRemote{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Apply sends one envelope. Transport errors and non-2xx statuses are
// returned as errors; the remote's own rejection comes back in the result.
func (r *HTTPRemote) Apply(ctx context.Context, env *Envelope) (ApplyResult, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/sync/apply", bytes.NewReader(body))
	if err != nil {
		return ApplyResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("post envelope: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ApplyResult{}, fmt.Errorf("remote returned %d", resp.StatusCode)
	}

	var result ApplyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ApplyResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Ensure interface compliance.
var _ RemoteAPI = (*HTTPRemote)(nil)
