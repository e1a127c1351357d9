package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/eaglebank/onboarding/internal/analytics"
)

// Aggregates computed inside PostgreSQL. Column names are interpolated only
// after they have been checked against the known dimensions and fields.

// GroupCount counts applications per category of d, folding NULL and empty
// values into the dimension's sentinel.
func (r *ApplicationReadRepository) GroupCount(ctx context.Context, d analytics.Dimension) (analytics.Counts, error) {
	if _, err := analytics.ParseDimension(string(d)); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT COALESCE(NULLIF(%[1]s, ''), $1) AS category, COUNT(*)
		FROM %[2]s GROUP BY 1`, d, applicationsTable)

	rows, err := r.db.QueryContext(ctx, query, d.Sentinel())
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", d, err)
	}
	defer rows.Close()

	out := analytics.Counts{}
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan group count: %w", err)
		}
		out[category] = n
	}
	return out, rows.Err()
}

// CrossTabulate counts applications per pair of categories of first and second.
func (r *ApplicationReadRepository) CrossTabulate(ctx context.Context, first, second analytics.Dimension) (analytics.CrossTab, error) {
	for _, d := range []analytics.Dimension{first, second} {
		if _, err := analytics.ParseDimension(string(d)); err != nil {
			return nil, err
		}
	}
	query := fmt.Sprintf(`SELECT COALESCE(NULLIF(%[1]s, ''), $1), COALESCE(NULLIF(%[2]s, ''), $2), COUNT(*)
		FROM %[3]s GROUP BY 1, 2`, first, second, applicationsTable)

	rows, err := r.db.QueryContext(ctx, query, first.Sentinel(), second.Sentinel())
	if err != nil {
		return nil, fmt.Errorf("failed to cross-tabulate %s by %s: %w", first, second, err)
	}
	defer rows.Close()

	out := analytics.CrossTab{}
	for rows.Next() {
		var a, b string
		var n int
		if err := rows.Scan(&a, &b, &n); err != nil {
			return nil, fmt.Errorf("failed to scan cross-tabulation: %w", err)
		}
		if out[a] == nil {
			out[a] = analytics.Counts{}
		}
		out[a][b] = n
	}
	return out, rows.Err()
}

// NumericSummary summarises f over the applications where it is set.
func (r *ApplicationReadRepository) NumericSummary(ctx context.Context, f analytics.NumericField) (analytics.Summary, error) {
	if f != analytics.DebitTurnover && f != analytics.CreditTurnover {
		return analytics.Summary{}, fmt.Errorf("unknown numeric field %q", f)
	}
	query := fmt.Sprintf(`SELECT COUNT(%[1]s), COALESCE(SUM(%[1]s), 0), COALESCE(MIN(%[1]s), 0), COALESCE(MAX(%[1]s), 0)
		FROM %[2]s`, f, applicationsTable)

	var count int
	var total, minimum, maximum float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &total, &minimum, &maximum); err != nil {
		return analytics.Summary{}, fmt.Errorf("failed to summarise %s: %w", f, err)
	}
	return analytics.SummaryOf(count, total, minimum, maximum), nil
}

// FlagCounts counts the applications with each service flag set.
func (r *ApplicationReadRepository) FlagCounts(ctx context.Context) (analytics.Counts, error) {
	filters := make([]string, len(analytics.ServiceFlags))
	dest := make([]any, len(analytics.ServiceFlags))
	counts := make([]int, len(analytics.ServiceFlags))
	for i, f := range analytics.ServiceFlags {
		filters[i] = fmt.Sprintf("COUNT(*) FILTER (WHERE %s)", f)
		dest[i] = &counts[i]
	}
	query := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(filters, ", "), applicationsTable)

	if err := r.db.QueryRowContext(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to count service flags: %w", err)
	}
	out := analytics.Counts{}
	for i, f := range analytics.ServiceFlags {
		out[string(f)] = counts[i]
	}
	return out, nil
}

// KinCounts splits applications by whether they carry a next of kin.
func (r *ApplicationReadRepository) KinCounts(ctx context.Context) (analytics.Counts, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FILTER (WHERE %s), COUNT(*) FROM %s`, analytics.FlagHasNextOfKin, applicationsTable)
	var with, total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&with, &total); err != nil {
		return nil, fmt.Errorf("failed to count next of kin: %w", err)
	}
	return analytics.Counts{analytics.WithNextOfKin: with, analytics.WithoutNextOfKin: total - with}, nil
}
