package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"miimaker/config"
	"miimaker/internal/clients/transport"

	"github.com/charmbracelet/log"
)

var ErrMissingEndpoint = errors.New("generator endpoint not configured")

// Error describes a failed generation call. Err is set when the request never
// produced a usable reply (network or decoding failure); otherwise Status,
// Message and Details come from the endpoint.
type Error struct {
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate mii: %v", e.Err)
	}
	msg := e.Message
	if msg == "" {
		msg = "missing miiImage in response"
	}
	if e.Details != "" {
		return fmt.Sprintf("generate mii: status %d: %s (%s)", e.Status, msg, e.Details)
	}
	return fmt.Sprintf("generate mii: status %d: %s", e.Status, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Transport() bool {
	return e.Err != nil
}

// Moderation reports whether the endpoint refused the image on content-safety
// grounds.
func (e *Error) Moderation() bool {
	return strings.Contains(e.Message, "moderation") || strings.Contains(e.Details, "safety system")
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(cfg config.GeneratorConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGeneratorTimeout
	}

	return &Client{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.With("component", "generator"),
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate posts one base64 image and returns the base64 avatar. Every failure
// is an *Error.
func (c *Client) Generate(ctx context.Context, imageBase64 string) (string, error) {
	if c.endpoint == "" {
		return "", &Error{Err: ErrMissingEndpoint}
	}

	start := time.Now()
	resp, err := transport.PostJSON[GenerateRequest, GenerateResponse](
		c.httpClient, ctx, c.endpoint, GenerateRequest{Image: imageBase64}, nil,
	)
	if err != nil {
		c.logger.Error("request failed", "endpoint", c.endpoint, "status", resp.StatusCode, "dur", time.Since(start).String(), "err", err)
		return "", &Error{Status: resp.StatusCode, Err: err}
	}

	if !resp.OK() || resp.Body.MiiImage == "" {
		genErr := &Error{
			Status:  resp.StatusCode,
			Message: resp.Body.Error.String(),
			Details: resp.Body.Details.String(),
		}
		c.logger.Warn("generation rejected", "endpoint", c.endpoint, "status", resp.StatusCode, "moderation", genErr.Moderation(), "dur", time.Since(start).String())
		return "", genErr
	}

	c.logger.Debug("generation completed", "endpoint", c.endpoint, "status", resp.StatusCode, "bytes", len(resp.Body.MiiImage), "dur", time.Since(start).String())
	return resp.Body.MiiImage, nil
}
