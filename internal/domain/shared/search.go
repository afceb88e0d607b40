package shared

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

// SearchStrategy is one named way of matching a free-text query to record
// IDs. A searchable entity type declares an ordered list of strategies
// (e.g. "by-number", "by-name"); the generic search runs every strategy and
// unions the results.
type SearchStrategy struct {
	Name  string
	Match func(ctx context.Context, query string) ([]uuid.UUID, error)
}

// UnionMatches runs every strategy in order for the given query and unions
// the matched IDs, keeping first-seen order and dropping duplicates, so each
// matched record appears exactly once. No cross-strategy ordering beyond that
// is guaranteed.
func UnionMatches(ctx context.Context, query string, strategies []SearchStrategy) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, strategy := range strategies {
		matched, err := strategy.Match(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, id := range matched {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var numericQuery = regexp.MustCompile(`^\d+$`)

// IsNumericQuery reports whether the query consists solely of digits, which
// routes rental searches to exact custom-number matching instead of name
// matching.
func IsNumericQuery(query string) bool {
	return numericQuery.MatchString(query)
}
