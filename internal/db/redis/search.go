package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/customerdata/internal/db"
	"github.com/kailas-cloud/customerdata/internal/domain/filter"
)

// SearchList performs a filtered, paginated search via FT.SEARCH.
func (s *Store) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("offset and limit must not be negative")
	}

	args := []string{q.IndexName, queryString(q.Filters)}
	if q.SortBy != "" {
		args = append(args, "SORTBY", q.SortBy, "ASC")
	}
	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// SearchCount returns the number of matching documents via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, q *db.ListQuery) (int, error) {
	if q.IndexName == "" {
		return 0, fmt.Errorf("index name is required")
	}

	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.IndexName, queryString(q.Filters), "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// maxTermBuckets bounds term aggregations issued without a limit.
const maxTermBuckets = 10000

// AggregateTerms groups matching documents by one field via FT.AGGREGATE.
// Buckets are ordered by count descending, then key ascending.
func (s *Store) AggregateTerms(ctx context.Context, q *db.TermsQuery) ([]db.TermBucket, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Field == "" {
		return nil, fmt.Errorf("field is required")
	}

	args := []string{
		q.IndexName, queryString(q.Filters),
		"GROUPBY", "1", "@" + q.Field,
		"REDUCE", "COUNT", "0", "AS", "count",
		"SORTBY", "4", "@count", "DESC", "@" + q.Field, "ASC",
	}
	limit := q.Limit
	if limit <= 0 {
		limit = maxTermBuckets
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseTermsResult(raw, q.Field)
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseTermsResult reads [total, [field, value, "count", n], ...] rows.
func parseTermsResult(raw []rueidis.RedisMessage, field string) ([]db.TermBucket, error) {
	if len(raw) <= 1 {
		return nil, nil
	}

	buckets := make([]db.TermBucket, 0, len(raw)-1)
	for _, row := range raw[1:] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		m := parseFieldPairs(pairs)
		key, ok := m[field]
		if !ok || key == "" {
			continue
		}
		n, err := strconv.Atoi(m["count"])
		if err != nil {
			return nil, fmt.Errorf("parse count for %q: %w", key, err)
		}
		buckets = append(buckets, db.TermBucket{Key: key, Count: n})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Filter building ---

// queryString returns the FT query for expr, matching everything when it is empty.
func queryString(expr filter.Expression) string {
	if q := buildFilter(expr); q != "" {
		return q
	}
	return "*"
}

// buildFilter translates filter.Expression into an FT.SEARCH query string.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildCondition(cond))
	}

	if shouldParts := buildShouldGroup(expr.Should()); shouldParts != "" {
		parts = append(parts, shouldParts)
	}

	for _, cond := range expr.MustNot() {
		parts = append(parts, "-"+buildCondition(cond))
	}

	return strings.Join(parts, " ")
}

func buildCondition(cond filter.Condition) string {
	if cond.IsMatch() {
		return buildTagFilter(cond.Key(), cond.Match())
	}
	if cond.IsRange() {
		return buildNumericFilter(cond.Key(), *cond.Range())
	}
	return ""
}

func buildShouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GT() != nil {
		minBound = "(" + formatBound(*r.GT())
	} else if r.GTE() != nil {
		minBound = formatBound(*r.GTE())
	}

	if r.LT() != nil {
		maxBound = "(" + formatBound(*r.LT())
	} else if r.LTE() != nil {
		maxBound = formatBound(*r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// formatBound avoids exponent notation so large identifiers stay exact.
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)
