package search

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/techmaster-vietnam/goerrorkit"
)

// Query is a validated search query. Invalid input is rejected at
// construction so repositories never see a malformed query string.
type Query struct {
	inner query.Query
}

// ParseQuery builds a Query from the raw query string of a
// /api/_search request. An empty or blank string is a validation error.
func ParseQuery(raw string) (Query, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Query{}, goerrorkit.NewValidationError("search query must not be empty", map[string]interface{}{
			"query": raw,
		})
	}

	q := bleve.NewQueryStringQuery(trimmed)
	if err := q.Validate(); err != nil {
		return Query{}, goerrorkit.NewValidationError("search query is not valid", map[string]interface{}{
			"query": trimmed,
			"error": err.Error(),
		})
	}

	return Query{inner: q}, nil
}

// MatchAll returns a query matching every document of an index.
func MatchAll() Query {
	return Query{inner: bleve.NewMatchAllQuery()}
}

// bleveQuery unwraps the underlying query for repository use.
func (q Query) bleveQuery() query.Query {
	return q.inner
}
