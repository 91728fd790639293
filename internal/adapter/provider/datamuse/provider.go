// Package datamuse adapts the Datamuse /sug endpoint as the remote word
// suggestion source.
package datamuse

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.datamuse.com"

// Provider fetches prefix-based word suggestions.
type Provider struct {
	client *resty.Client
	log    *slog.Logger
}

type suggestion struct {
	Word string `json:"word"`
}

// New creates a Provider. An empty baseURL selects the public endpoint.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		log:    logger.With("adapter", "datamuse"),
	}
}

// Suggest returns up to max words starting with prefix. Best-effort: any
// failure yields an empty slice.
func (p *Provider) Suggest(ctx context.Context, prefix string, max int) []string {
	var payload []suggestion

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"s":   prefix,
			"max": strconv.Itoa(max),
		}).
		SetResult(&payload).
		Get("/sug")
	if err != nil {
		p.log.WarnContext(ctx, "datamuse request failed", slog.String("prefix", prefix), slog.String("error", err.Error()))
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		p.log.WarnContext(ctx, "datamuse unexpected status", slog.String("prefix", prefix), slog.Int("status", resp.StatusCode()))
		return nil
	}

	words := make([]string, 0, len(payload))
	for _, s := range payload {
		if s.Word != "" {
			words = append(words, s.Word)
		}
	}
	return words
}
