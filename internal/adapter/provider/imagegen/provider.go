// Package imagegen adapts a prompt-to-image generation service (pollinations
// style: GET /prompt/<text> renders an image) as the fallback illustration
// source. Generation is slow and flaky, so the adapter probes the URL with
// bounded retries and treats every failure as "no image".
package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://image.pollinations.ai"

const probeAttempts = 2

// Provider requests generated illustrative images for words.
type Provider struct {
	baseURL string
	client  *resty.Client
	log     *slog.Logger
}

// New creates a Provider. An empty baseURL selects the public endpoint.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL: baseURL,
		client:  resty.New().SetTimeout(timeout),
		log:     logger.With("adapter", "imagegen"),
	}
}

// GenerateURL returns the URL of a freshly generated illustration for word,
// or ("", false). The URL is probed so callers only ever receive an address
// that actually served an image.
func (p *Provider) GenerateURL(ctx context.Context, word string) (string, bool) {
	prompt := fmt.Sprintf("simple colorful illustration of %s for children", word)
	imageURL := p.baseURL + "/prompt/" + url.PathEscape(prompt)

	err := retry.Do(
		func() error {
			resp, err := p.client.R().
				SetContext(ctx).
				SetDoNotParseResponse(true).
				Get(imageURL)
			if err != nil {
				return err
			}
			defer resp.RawBody().Close()

			if resp.StatusCode() != http.StatusOK {
				return fmt.Errorf("status %d", resp.StatusCode())
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(probeAttempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		p.log.WarnContext(ctx, "imagegen probe failed", slog.String("word", word), slog.String("error", err.Error()))
		return "", false
	}

	p.log.DebugContext(ctx, "imagegen url ready", slog.String("word", word))
	return imageURL, true
}
