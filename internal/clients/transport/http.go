package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxSnippet bounds how much of an unreadable body ends up in an error.
const maxSnippet = 8 << 10

type Response[r any] struct {
	StatusCode int
	Status     string
	Body       r
}

func (r Response[T]) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PostJSON sends body as JSON and decodes the reply into r whatever the status
// code, so callers can inspect error payloads. It only fails on transport,
// encoding or decoding problems.
func PostJSON[b, r any](h *http.Client, ctx context.Context, url string, body b, headers map[string]string) (Response[r], error) {

	var response Response[r]

	payload, err := json.Marshal(body)
	if err != nil {
		return response, fmt.Errorf("marshal %s: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return response, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, val := range headers {
		req.Header.Set(key, val)
	}

	resp, err := h.Do(req)
	if err != nil {
		return response, err
	}
	defer resp.Body.Close()

	response.StatusCode = resp.StatusCode
	response.Status = resp.Status

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return response, err
	}

	if err := json.Unmarshal(responseBytes, &response.Body); err != nil {
		return response, fmt.Errorf("unmarshal %s: %s: %w: %s", url, resp.Status, err, snippet(responseBytes))
	}

	return response, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxSnippet {
		s = s[:maxSnippet]
	}
	return s
}
