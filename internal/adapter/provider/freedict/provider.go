// Package freedict adapts the FreeDictionary API (dictionaryapi.dev) into the
// pipeline's capability struct. It is the primary lexical source: phonetics,
// audio, definition text and an example sentence in one round trip.
package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wordnest/wordnest-backend/internal/provider"
)

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Provider fetches dictionary data from the FreeDictionary API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Provider. An empty baseURL selects the public FreeDictionary
// endpoint; tests pass their own. The timeout bounds every lookup so a slow
// upstream cannot stall enrichment.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// Lookup fetches the lexical record for word. The second return value is
// false when the word is unknown to the source or the source failed; failures
// are logged, never propagated.
func (p *Provider) Lookup(ctx context.Context, word string) (provider.LexicalResult, bool) {
	var empty provider.LexicalResult

	reqURL := p.baseURL + "/" + url.PathEscape(word)

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		p.log.ErrorContext(ctx, "freedict create request", slog.String("word", word), slog.String("error", err.Error()))
		return empty, false
	}

	resp, err := p.doWithRetry(ctx, req, word)
	if err != nil {
		p.log.WarnContext(ctx, "freedict request failed", slog.String("word", word), slog.String("error", err.Error()))
		return empty, false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Semantic not-found: the word has no entry in this source.
		return empty, false
	}

	if resp.StatusCode != http.StatusOK {
		p.log.WarnContext(ctx, "freedict unexpected status", slog.String("word", word), slog.Int("status", resp.StatusCode))
		return empty, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.WarnContext(ctx, "freedict read body", slog.String("word", word), slog.String("error", err.Error()))
		return empty, false
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		p.log.WarnContext(ctx, "freedict decode json", slog.String("word", word), slog.String("error", err.Error()))
		return empty, false
	}

	result := mapAPIResponse(entries)
	if result.Empty() {
		return empty, false
	}

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Bool("has_audio_us", result.AudioUS != ""),
		slog.Bool("has_audio_uk", result.AudioUK != ""),
		slog.Bool("has_example", result.Example != ""),
	)

	return result, true
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "freedict retry", slog.String("word", word), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	resp, err = p.httpClient.Do(req)
	return resp, err
}

// mapAPIResponse flattens the API entries into a LexicalResult. Phonetics are
// assigned per-accent by audio URL hints; the first transcription and audio
// serve as the US fallback when no accent-tagged variant exists. The first
// definition becomes the raw translation fallback.
func mapAPIResponse(entries []apiEntry) provider.LexicalResult {
	var result provider.LexicalResult
	if len(entries) == 0 {
		return result
	}

	result.Word = entries[0].Word

	for _, entry := range entries {
		for _, ph := range entry.Phonetics {
			switch region(ph.Audio) {
			case "us":
				if result.AudioUS == "" {
					result.AudioUS = ph.Audio
					result.PhoneticUS = ph.Text
				}
			case "uk":
				if result.AudioUK == "" {
					result.AudioUK = ph.Audio
					result.PhoneticUK = ph.Text
				}
			}
		}

		for _, meaning := range entry.Meanings {
			for _, def := range meaning.Definitions {
				if result.RawTranslation == "" && def.Definition != "" {
					result.RawTranslation = def.Definition
				}
				if result.Example == "" && def.Example != "" {
					result.Example = def.Example
				}
			}
		}
	}

	// Fallback pass: with no accent-tagged variant, the first transcription
	// and the first untagged audio fill the US slot.
	for _, entry := range entries {
		for _, ph := range entry.Phonetics {
			if result.PhoneticUS == "" && ph.Text != "" {
				result.PhoneticUS = ph.Text
			}
			if result.AudioUS == "" && region(ph.Audio) == "" && ph.Audio != "" {
				result.AudioUS = ph.Audio
			}
		}
	}

	return result
}

// region infers the pronunciation accent from the audio URL.
func region(audioURL string) string {
	lower := strings.ToLower(audioURL)
	switch {
	case strings.Contains(lower, "-us."), strings.Contains(lower, "-us-"):
		return "us"
	case strings.Contains(lower, "-uk."), strings.Contains(lower, "-uk-"):
		return "uk"
	default:
		return ""
	}
}
