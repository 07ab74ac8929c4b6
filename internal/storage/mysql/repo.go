package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"review_dashboard/internal/domain"
)

// batchSize bounds the placeholders of one multi-row INSERT.
const batchSize = 500

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	for start := 0; start < len(rs); start += batchSize {
		end := min(start+batchSize, len(rs))
		if err := r.upsertBatch(ctx, rs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) upsertBatch(ctx context.Context, rs []domain.Review) error {
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*8)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,
			string(rv.Platform),
			rv.Rating,
			rv.Comment,
			rv.Date, // DATE column accepts YYYY-MM-DD
			rv.Reviewer,
			rv.Location,
			rv.Brand,
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert %d reviews: %w", len(rs), err)
	}
	return nil
}

func (r *Repo) LogMiss(ctx context.Context, p domain.Platform, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, string(p), status, reason)
	return err
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0, 128)
	for rows.Next() {
		var (
			rv                         domain.Review
			platform                   string
			day                        sql.NullTime
			comment, reviewer, loc, br sql.NullString
		)
		if err := rows.Scan(&rv.ID, &platform, &rv.Rating, &comment, &day, &reviewer, &loc, &br); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.Platform = domain.Platform(platform)
		rv.Comment = comment.String
		rv.Reviewer = reviewer.String
		rv.Location = loc.String
		rv.Brand = br.String
		if day.Valid {
			rv.Date = day.Time.Format(domain.DateLayout)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}
