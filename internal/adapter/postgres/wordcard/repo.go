// Package wordcard implements the enrichment cache repository using
// PostgreSQL. The write path is a single INSERT ... ON CONFLICT upsert whose
// SET list coalesces existing non-empty columns, which makes concurrent
// writes for the same vc_id convergent: a later writer can only fill gaps,
// never erase data written by an earlier one.
package wordcard

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wordnest/wordnest-backend/internal/adapter/postgres"
	"github.com/wordnest/wordnest-backend/internal/domain"
)

// Repo provides word card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new word card repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

const cardColumns = `vc_id, word, phonetic_us, phonetic_uk, translation, raw_translation,
    example, image_url, audio_us, audio_uk, source, created_at, updated_at`

const getSQL = `
SELECT ` + cardColumns + `
FROM word_cards
WHERE vc_id = $1`

const getByWordSQL = `
SELECT ` + cardColumns + `
FROM word_cards
WHERE lower(word) = $1
LIMIT 1`

// upsertSQL inserts a card or merges it into the existing row. Every mutable
// column keeps its current value when non-empty and takes the incoming value
// only when currently empty (monotonic fill).
const upsertSQL = `
INSERT INTO word_cards (
    vc_id, word, phonetic_us, phonetic_uk, translation, raw_translation,
    example, image_url, audio_us, audio_uk, source
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (vc_id) DO UPDATE SET
    word            = COALESCE(NULLIF(word_cards.word, ''),            EXCLUDED.word),
    phonetic_us     = COALESCE(NULLIF(word_cards.phonetic_us, ''),     EXCLUDED.phonetic_us),
    phonetic_uk     = COALESCE(NULLIF(word_cards.phonetic_uk, ''),     EXCLUDED.phonetic_uk),
    translation     = COALESCE(NULLIF(word_cards.translation, ''),     EXCLUDED.translation),
    raw_translation = COALESCE(NULLIF(word_cards.raw_translation, ''), EXCLUDED.raw_translation),
    example         = COALESCE(NULLIF(word_cards.example, ''),         EXCLUDED.example),
    image_url       = COALESCE(NULLIF(word_cards.image_url, ''),       EXCLUDED.image_url),
    audio_us        = COALESCE(NULLIF(word_cards.audio_us, ''),        EXCLUDED.audio_us),
    audio_uk        = COALESCE(NULLIF(word_cards.audio_uk, ''),        EXCLUDED.audio_uk),
    source          = COALESCE(NULLIF(word_cards.source, ''),          EXCLUDED.source),
    updated_at      = now()
RETURNING ` + cardColumns

const suggestSQL = `
SELECT word
FROM word_cards
WHERE word LIKE $1 AND word <> ''
ORDER BY word
LIMIT $2`

const listIncompleteSQL = `
SELECT ` + cardColumns + `
FROM word_cards
WHERE audio_us = '' OR audio_uk = '' OR example = '' OR image_url = '' OR translation = ''
ORDER BY updated_at
LIMIT $1`

const sourcesSQL = `
SELECT DISTINCT source
FROM word_cards
WHERE source <> ''
ORDER BY source`

// Get returns the card for the given vc_id, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, vcID string) (*domain.WordCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getSQL, vcID)
	card, err := scanCard(row)
	if err != nil {
		return nil, postgres.MapError(err, "word card", vcID)
	}
	return card, nil
}

// GetByWord returns the card whose canonical word matches (case-insensitive),
// or domain.ErrNotFound.
func (r *Repo) GetByWord(ctx context.Context, word string) (*domain.WordCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByWordSQL, domain.NormalizeWord(word))
	card, err := scanCard(row)
	if err != nil {
		return nil, postgres.MapError(err, "word card", word)
	}
	return card, nil
}

// Upsert writes a card with fill-the-gaps merge semantics and returns the
// persisted state, which is the authoritative merge of the incoming card and
// whatever any concurrent writer got in first.
func (r *Repo) Upsert(ctx context.Context, card *domain.WordCard) (*domain.WordCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, upsertSQL,
		card.VCID,
		strings.TrimSpace(card.Word),
		strings.TrimSpace(card.PhoneticUS),
		strings.TrimSpace(card.PhoneticUK),
		strings.TrimSpace(card.Translation),
		strings.TrimSpace(card.RawTranslation),
		strings.TrimSpace(card.Example),
		strings.TrimSpace(card.ImageURL),
		strings.TrimSpace(card.AudioUS),
		strings.TrimSpace(card.AudioUK),
		strings.TrimSpace(card.Source),
	)

	merged, err := scanCard(row)
	if err != nil {
		return nil, postgres.MapError(err, "word card", card.VCID)
	}
	return merged, nil
}

// SuggestByPrefix returns up to limit canonical words starting with prefix,
// in word order. LIKE metacharacters in the prefix are escaped.
func (r *Repo) SuggestByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, suggestSQL, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("suggest by prefix: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("suggest by prefix: scan: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// ListIncomplete returns up to limit cards missing at least one tracked
// field, least-recently-updated first, for batch re-enrichment.
func (r *Repo) ListIncomplete(ctx context.Context, limit int) ([]domain.WordCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listIncompleteSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list incomplete: %w", err)
	}
	defer rows.Close()

	var cards []domain.WordCard
	for rows.Next() {
		var c domain.WordCard
		err := rows.Scan(
			&c.VCID, &c.Word, &c.PhoneticUS, &c.PhoneticUK, &c.Translation,
			&c.RawTranslation, &c.Example, &c.ImageURL, &c.AudioUS, &c.AudioUK,
			&c.Source, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list incomplete: scan: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Sources returns the distinct non-empty provenance tags for the admin filter.
func (r *Repo) Sources(ctx context.Context) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sourcesSQL)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("list sources: scan: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func scanCard(row pgx.Row) (*domain.WordCard, error) {
	var c domain.WordCard
	err := row.Scan(
		&c.VCID, &c.Word, &c.PhoneticUS, &c.PhoneticUK, &c.Translation,
		&c.RawTranslation, &c.Example, &c.ImageURL, &c.AudioUS, &c.AudioUK,
		&c.Source, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// escapeLike escapes %, _ and \ so user input is treated literally in LIKE.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
