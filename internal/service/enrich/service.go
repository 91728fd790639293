// Package enrich implements the dictionary enrichment pipeline: cache-aside
// lookup over the word card store, prioritized fan-out to external lexical
// sources for missing fields only, monotonic merging, image localization and
// display formatting, finished by a race-safe merge-upsert.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wordnest/wordnest-backend/internal/config"
	"github.com/wordnest/wordnest-backend/internal/domain"
	"github.com/wordnest/wordnest-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	Get(ctx context.Context, vcID string) (*domain.WordCard, error)
	GetByWord(ctx context.Context, word string) (*domain.WordCard, error)
	Upsert(ctx context.Context, card *domain.WordCard) (*domain.WordCard, error)
	SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

// lexicalSource is the primary dictionary adapter. found=false covers both
// "word unknown" and upstream failure; adapters never surface errors.
type lexicalSource interface {
	Lookup(ctx context.Context, word string) (provider.LexicalResult, bool)
}

type translationSource interface {
	Translate(ctx context.Context, word string) (string, bool)
}

type imageSource interface {
	GenerateURL(ctx context.Context, word string) (string, bool)
}

type suggestionSource interface {
	Suggest(ctx context.Context, prefix string, max int) []string
}

type imageStore interface {
	StoreImage(ctx context.Context, word, sourceURL string) (string, bool)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service coordinates the enrichment pipeline. It is stateless; any number of
// Ensure calls may run concurrently, including for the same vc_id — the
// repository's merge-upsert keeps the persisted card convergent.
type Service struct {
	log        *slog.Logger
	cards      cardRepo
	lexical    lexicalSource
	translator translationSource
	images     imageSource
	remoteSugg suggestionSource
	assets     imageStore
	suggestCfg config.SuggestConfig
}

// NewService creates the enrichment service with explicitly injected
// collaborators.
func NewService(
	log *slog.Logger,
	cards cardRepo,
	lexical lexicalSource,
	translator translationSource,
	images imageSource,
	remoteSugg suggestionSource,
	assets imageStore,
	suggestCfg config.SuggestConfig,
) *Service {
	return &Service{
		log:        log.With("service", "enrich"),
		cards:      cards,
		lexical:    lexical,
		translator: translator,
		images:     images,
		remoteSugg: remoteSugg,
		assets:     assets,
		suggestCfg: suggestCfg,
	}
}

// Ensure returns a fully-populated-as-possible card for vcID. A complete
// cached card is returned with zero outbound calls. Otherwise only the
// missing fields are fetched, merged without touching present ones, and
// persisted via merge-upsert. It fails with domain.ErrUpstreamUnavailable
// only when the cache has no entry AND no source produced a single field;
// in every other situation it returns the best available partial card.
func (s *Service) Ensure(ctx context.Context, vcID, wordHint string) (*domain.WordCard, error) {
	if strings.TrimSpace(vcID) == "" {
		return nil, fmt.Errorf("vc_id is empty: %w", domain.ErrValidation)
	}

	cached, err := s.cards.Get(ctx, vcID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Cache-hit fast path: everything present, no external calls.
	if cached != nil && cached.Complete() {
		return cached, nil
	}

	staged := &domain.WordCard{VCID: vcID}
	if cached != nil {
		copied := *cached
		staged = &copied
	}

	word := staged.Word
	if !domain.HasField(word) {
		word = strings.TrimSpace(wordHint)
		staged.Word = word
	}

	gotAny := false

	// 1. Primary lexical source, queried only because something is missing.
	if res, ok := s.lexical.Lookup(ctx, word); ok {
		gotAny = true
		fillFromResult(staged, res)
		fillField(&staged.Source, "freedict")
	}

	// 2. Fallback translation source.
	if !domain.HasField(staged.Translation) && !domain.HasField(staged.RawTranslation) {
		if text, ok := s.translator.Translate(ctx, word); ok {
			gotAny = true
			staged.RawTranslation = text
			fillField(&staged.Source, "youdao")
		}
	}

	// 3. Fallback image generation.
	if !domain.HasField(staged.ImageURL) {
		if remoteURL, ok := s.images.GenerateURL(ctx, word); ok {
			gotAny = true
			staged.ImageURL = remoteURL
		}
	}

	// 4. Localize a newly-obtained remote image. Asset store failure
	// degrades to keeping the remote URL, never an error.
	if newImage := staged.ImageURL; isRemoteURL(newImage) && (cached == nil || !domain.HasField(cached.ImageURL)) {
		if localURL, ok := s.assets.StoreImage(ctx, word, newImage); ok {
			staged.ImageURL = localURL
		}
	}

	// 5. Format the best available raw translation.
	if !domain.HasField(staged.Translation) {
		staged.Translation = FormatTranslation(staged.RawTranslation)
	}

	if cached == nil && !gotAny {
		s.log.WarnContext(ctx, "no source produced data",
			slog.String("vc_id", vcID),
			slog.String("word", word),
		)
		return nil, fmt.Errorf("enrich %q: %w", word, domain.ErrUpstreamUnavailable)
	}

	merged, err := s.cards.Upsert(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("persist card %s: %w", vcID, err)
	}

	s.log.InfoContext(ctx, "card enriched",
		slog.String("vc_id", vcID),
		slog.String("word", merged.Word),
		slog.Bool("complete", merged.Complete()),
	)

	return merged, nil
}

// SearchByWord resolves a word to its cached card and runs Ensure on it, so a
// lookup by spelling returns display-ready data. Unknown words map to
// domain.ErrNotFound.
func (s *Service) SearchByWord(ctx context.Context, word string) (*domain.WordCard, error) {
	card, err := s.cards.GetByWord(ctx, word)
	if err != nil {
		return nil, err
	}
	return s.Ensure(ctx, card.VCID, card.Word)
}

// fillFromResult stages adapter fields into empty card slots only (monotonic
// fill).
func fillFromResult(card *domain.WordCard, res provider.LexicalResult) {
	fillField(&card.Word, res.Word)
	fillField(&card.PhoneticUS, res.PhoneticUS)
	fillField(&card.PhoneticUK, res.PhoneticUK)
	fillField(&card.RawTranslation, res.RawTranslation)
	fillField(&card.Example, res.Example)
	fillField(&card.ImageURL, res.ImageURL)
	fillField(&card.AudioUS, res.AudioUS)
	fillField(&card.AudioUK, res.AudioUK)
}

// fillField sets *dst to value only when *dst is currently absent.
func fillField(dst *string, value string) {
	if !domain.HasField(*dst) && domain.HasField(value) {
		*dst = value
	}
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
