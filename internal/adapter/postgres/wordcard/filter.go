package wordcard

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/wordnest/wordnest-backend/internal/adapter/postgres"
	"github.com/wordnest/wordnest-backend/internal/domain"
)

// Filter defines parameters for the admin card listing.
type Filter struct {
	// Search performs ILIKE '%...%' on word and translation.
	// nil or empty string means no text filter.
	Search *string

	// HasImage filters cards that have (true) or lack (false) an image.
	HasImage *bool

	// Source filters by exact provenance tag.
	Source *string

	// Limit is the maximum number of cards to return. Default: 20, max: 100.
	Limit int

	// Offset is the number of cards to skip.
	Offset int
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalize applies defaults and clamps values.
func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Page is one page of the admin listing plus the unpaginated total.
type Page struct {
	Cards []domain.WordCard
	Total int
}

// List returns cards matching the filter, newest first, with a total count.
// Count and page run in one transaction so the total matches the page.
func (r *Repo) List(ctx context.Context, filter Filter) (*Page, error) {
	filter.normalize()

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	where := filterConditions(filter)

	countSQL, countArgs, err := builder.
		Select("COUNT(*)").
		From("word_cards").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list cards: build count: %w", err)
	}

	listSQL, listArgs, err := builder.
		Select("vc_id", "word", "phonetic_us", "phonetic_uk", "translation",
			"raw_translation", "example", "image_url", "audio_us", "audio_uk",
			"source", "created_at", "updated_at").
		From("word_cards").
		Where(where).
		OrderBy("created_at DESC", "vc_id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list cards: build query: %w", err)
	}

	var page *Page
	err = r.txm.RunInTx(ctx, func(ctx context.Context) error {
		querier := postgres.QuerierFromCtx(ctx, r.pool)

		var total int
		if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("list cards: count: %w", err)
		}

		rows, err := querier.Query(ctx, listSQL, listArgs...)
		if err != nil {
			return fmt.Errorf("list cards: query: %w", err)
		}
		defer rows.Close()

		page = &Page{Total: total}
		for rows.Next() {
			var c domain.WordCard
			err := rows.Scan(
				&c.VCID, &c.Word, &c.PhoneticUS, &c.PhoneticUK, &c.Translation,
				&c.RawTranslation, &c.Example, &c.ImageURL, &c.AudioUS, &c.AudioUK,
				&c.Source, &c.CreatedAt, &c.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("list cards: scan: %w", err)
			}
			page.Cards = append(page.Cards, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func filterConditions(f Filter) sq.And {
	cond := sq.And{}

	if f.Search != nil && *f.Search != "" {
		pattern := "%" + escapeLike(*f.Search) + "%"
		cond = append(cond, sq.Or{
			sq.ILike{"word": pattern},
			sq.ILike{"translation": pattern},
		})
	}

	if f.HasImage != nil {
		if *f.HasImage {
			cond = append(cond, sq.NotEq{"image_url": ""})
		} else {
			cond = append(cond, sq.Eq{"image_url": ""})
		}
	}

	if f.Source != nil && *f.Source != "" {
		cond = append(cond, sq.Eq{"source": *f.Source})
	}

	if len(cond) == 0 {
		// squirrel renders an empty And as "(1=1)" only for some dialects;
		// make the no-filter case explicit.
		cond = append(cond, sq.Expr("TRUE"))
	}
	return cond
}
