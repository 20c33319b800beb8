package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maubot/rss/internal/model"
)

//go:generate mockgen -source=entry_repository.go -destination=mock/mock_entry_repository.go -package=mock

type EntryRepository interface {
	// ListByFeed returns every stored entry of the feed, oldest first.
	ListByFeed(ctx context.Context, feedID int64) ([]model.Entry, error)
	// InsertBatch stores entries in one transaction. Callers only pass unseen identities.
	InsertBatch(ctx context.Context, entries []model.Entry) error
}

type entryRepository struct {
	db dbtx
}

func NewEntryRepository(db dbtx) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) ListByFeed(ctx context.Context, feedID int64) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT feed_id, id, date, title, summary, link, content
		 FROM entries WHERE feed_id = ? ORDER BY date, id`,
		feedID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func (r *entryRepository) InsertBatch(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	now := formatTime(time.Now())
	err := withTx(ctx, r.db, func(db dbtx) error {
		for _, entry := range entries {
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO entries (feed_id, id, date, title, summary, link, content, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				entry.FeedID,
				entry.ID,
				formatTime(entry.Date),
				entry.Title,
				entry.Summary,
				entry.Link,
				entry.Content,
				now,
			)
			if err != nil {
				return fmt.Errorf("insert entry %q: %w", entry.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}
	return nil
}

func scanEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var date string
	var content sql.NullString
	if err := row.Scan(&e.FeedID, &e.ID, &date, &e.Title, &e.Summary, &e.Link, &content); err != nil {
		return model.Entry{}, err
	}
	var err error
	e.Date, err = parseTime(date)
	if err != nil {
		return model.Entry{}, fmt.Errorf("parse entry date: %w", err)
	}
	if content.Valid {
		e.Content = &content.String
	}
	return e, nil
}
