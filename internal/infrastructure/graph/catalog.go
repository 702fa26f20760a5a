package graph

import (
	"context"
	"fmt"

	"github.com/saveplate/backend/internal/domain"
)

// The label is taken from a fixed set, never from user input.
const autocompleteQueryFormat = `
MATCH (n:%s)
WHERE n.name STARTS WITH $prefix
RETURN n.name AS name
ORDER BY n.popularity DESC
LIMIT $limit`

// Autocomplete returns names of the queried kind starting with the prefix,
// most popular first.
func Autocomplete(ctx context.Context, tx Tx, q domain.AutocompleteQuery) ([]string, error) {
	label, ok := q.Kind.Label()
	if !ok || q.Limit <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	records, err := tx.Collect(ctx, fmt.Sprintf(autocompleteQueryFormat, label), map[string]any{
		"prefix": q.Prefix,
		"limit":  int64(q.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("query autocompletion: %w", err)
	}

	names := make([]string, 0, len(records))
	for _, rec := range records {
		name, err := stringField(rec, "name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
