package db

import "github.com/kailas-cloud/customerdata/internal/domain/filter"

// ListQuery selects documents of an index. An empty filter matches every document.
type ListQuery struct {
	IndexName string
	Filters   filter.Expression
	Offset    int
	Limit     int
	// SortBy names a SORTABLE field to order by ascending; empty keeps engine order.
	SortBy string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// TermsQuery groups an index by the values of one field.
type TermsQuery struct {
	IndexName string
	Filters   filter.Expression
	Field     string
	Limit     int
}

// TermBucket is one distinct field value with the number of documents holding it.
type TermBucket struct {
	Key   string
	Count int
}
