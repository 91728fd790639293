package enrich

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Suggest returns up to MaxResults words starting with prefix: local cache
// matches first in their storage order, then remote suggestions appended only
// while below the cap. Deduplication against remote results is exact-string
// and case-sensitive, matching the long-observed behavior of the suggest
// endpoint. Prefixes shorter than MinPrefixLen return an empty list without
// touching the store or the remote source; that is a precondition, not an
// error.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	if utf8.RuneCountInString(prefix) < s.suggestCfg.MinPrefixLen {
		return []string{}, nil
	}

	limit := s.suggestCfg.MaxResults

	local, err := s.cards.SuggestByPrefix(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", prefix, err)
	}

	results := make([]string, 0, limit)
	results = append(results, local...)
	if len(results) >= limit {
		return results[:limit], nil
	}

	seen := make(map[string]struct{}, len(results))
	for _, w := range results {
		seen[w] = struct{}{}
	}

	for _, w := range s.remoteSugg.Suggest(ctx, prefix, limit) {
		if len(results) >= limit {
			break
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		results = append(results, w)
	}

	return results, nil
}
