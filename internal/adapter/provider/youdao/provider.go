// Package youdao adapts the Youdao suggest API as the fallback translation
// source. It only ever contributes one field: the raw multilingual
// translation string (e.g. "n. 苹果；adj. 苹果的") that the formatter later
// shapes for display.
package youdao

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://dict.youdao.com"

// Provider fetches translations from the Youdao suggest endpoint.
type Provider struct {
	client *resty.Client
	log    *slog.Logger
}

// suggestResponse mirrors the subset of the Youdao payload we read.
type suggestResponse struct {
	Result struct {
		Code int `json:"code"`
	} `json:"result"`
	Data struct {
		Entries []struct {
			Entry   string `json:"entry"`
			Explain string `json:"explain"`
		} `json:"entries"`
	} `json:"data"`
}

// New creates a Provider. An empty baseURL selects the public endpoint.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Provider{
		client: client,
		log:    logger.With("adapter", "youdao"),
	}
}

// Translate returns the raw translation string for word, or ("", false) when
// the source has nothing or failed. Failures are logged and swallowed.
func (p *Provider) Translate(ctx context.Context, word string) (string, bool) {
	var payload suggestResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":       word,
			"num":     "1",
			"doctype": "json",
		}).
		SetResult(&payload).
		Get("/suggest")
	if err != nil {
		p.log.WarnContext(ctx, "youdao request failed", slog.String("word", word), slog.String("error", err.Error()))
		return "", false
	}

	if resp.StatusCode() != http.StatusOK {
		p.log.WarnContext(ctx, "youdao unexpected status", slog.String("word", word), slog.Int("status", resp.StatusCode()))
		return "", false
	}

	if payload.Result.Code != 200 || len(payload.Data.Entries) == 0 {
		// Word unknown to this source.
		return "", false
	}

	explain := payload.Data.Entries[0].Explain
	if explain == "" {
		return "", false
	}

	p.log.DebugContext(ctx, "youdao translation", slog.String("word", word))
	return explain, true
}
