package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agilemorph/firewatch/internal/model"
)

// SQLiteStore implements Store on an embedded database. The primary-key
// constraint on tweet_id gives the same at-most-once append contract as
// the JSON driver, with the database handling writer contention.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS incidents (
	tweet_id            TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	content             TEXT NOT NULL,
	published_date      TEXT,
	url                 TEXT,
	source              TEXT,
	fire_related_score  INTEGER NOT NULL,
	state               TEXT,
	county              TEXT,
	verification_result TEXT,
	verified_at         TEXT,
	seq                 INTEGER
);

CREATE INDEX IF NOT EXISTS idx_incidents_state ON incidents(state);
`

// NewSQLite opens (creating if needed) a SQLite incident store.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, inc model.Incident) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO incidents
		(tweet_id, title, content, published_date, url, source,
		 fire_related_score, state, county, verification_result, verified_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		 (SELECT COALESCE(MAX(seq), 0) + 1 FROM incidents))`,
		inc.TweetID, inc.Title, inc.Content, inc.PublishedDate, inc.URL, inc.Source,
		inc.FireRelatedScore, inc.State, inc.County, inc.VerificationResult, inc.VerifiedAt,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: insert incident %s", inc.TweetID)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) SeenIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tweet_id FROM incidents ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: iterate ids")
}

func (s *SQLiteStore) Records(ctx context.Context) ([]model.Incident, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tweet_id, title, content, published_date, url, source,
		 fire_related_score, state, county, verification_result, verified_at
		 FROM incidents ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query incidents")
	}
	defer rows.Close()

	var records []model.Incident
	for rows.Next() {
		var inc model.Incident
		if err := rows.Scan(&inc.TweetID, &inc.Title, &inc.Content, &inc.PublishedDate,
			&inc.URL, &inc.Source, &inc.FireRelatedScore, &inc.State, &inc.County,
			&inc.VerificationResult, &inc.VerifiedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan incident")
		}
		records = append(records, inc)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate incidents")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
