// Package store persists scraped stories, authors and tags to a SQLite
// database, upserting so repeated sessions refresh rows instead of
// duplicating them.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rmartin/newsclip"
)

// Store writes the scraped entity graph to SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the article/author/hashtag tables and their join
// tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS article (
		id_article INTEGER PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		date TEXT,
		url TEXT,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS author (
		id_author INTEGER PRIMARY KEY,
		nick_name TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		location TEXT,
		occupation TEXT,
		url TEXT,
		member_since TEXT
	);

	CREATE TABLE IF NOT EXISTS hashtag (
		id_hashtag INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		is_topic INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS article_author (
		id_article INTEGER NOT NULL REFERENCES article(id_article),
		id_author INTEGER NOT NULL REFERENCES author(id_author),
		PRIMARY KEY (id_article, id_author)
	);

	CREATE TABLE IF NOT EXISTS article_hashtag (
		id_article INTEGER NOT NULL REFERENCES article(id_article),
		id_hashtag INTEGER NOT NULL REFERENCES hashtag(id_hashtag),
		PRIMARY KEY (id_article, id_hashtag)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResults upserts every story with its authors, tags and join rows
// in a single transaction.
func (s *Store) SaveResults(stories []*newsclip.Story) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, story := range stories {
		articleID, err := upsertArticle(tx, story)
		if err != nil {
			return err
		}

		for _, author := range story.Authors {
			authorID, err := upsertAuthor(tx, author)
			if err != nil {
				return err
			}
			if err := linkRow(tx, "article_author", "id_author", articleID, authorID); err != nil {
				return err
			}
		}

		for _, tag := range story.Tags {
			tagID, err := upsertTag(tx, tag)
			if err != nil {
				return err
			}
			if err := linkRow(tx, "article_hashtag", "id_hashtag", articleID, tagID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// upsertArticle inserts or refreshes an article row keyed by title and
// returns its id. The driver's LastInsertId is unreliable on the
// conflict path, so the id is always read back.
func upsertArticle(tx *sql.Tx, story *newsclip.Story) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO article (title, date, url, description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			date = excluded.date,
			url = excluded.url,
			description = excluded.description
	`, story.Title, normalizeDateTime(story.Date), story.URL, story.Description)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert article %q: %w", story.Title, err)
	}

	var id int64
	if err := tx.QueryRow("SELECT id_article FROM article WHERE title = ?", story.Title).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back article %q: %w", story.Title, err)
	}
	return id, nil
}

// upsertAuthor inserts or refreshes an author row keyed by nick_name
// and returns its id.
func upsertAuthor(tx *sql.Tx, author *newsclip.Author) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO author (nick_name, name, location, occupation, url, member_since)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(nick_name) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			occupation = excluded.occupation,
			url = excluded.url,
			member_since = excluded.member_since
	`, author.Username, author.Name, author.Location, author.Occupation,
		author.Website, normalizeDate(author.MemberSince))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert author %q: %w", author.Username, err)
	}

	var id int64
	if err := tx.QueryRow("SELECT id_author FROM author WHERE nick_name = ?", author.Username).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back author %q: %w", author.Username, err)
	}
	return id, nil
}

// upsertTag inserts or refreshes a hashtag row keyed by name and
// returns its id.
func upsertTag(tx *sql.Tx, tag *newsclip.Tag) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO hashtag (name, url, is_topic)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			url = excluded.url,
			is_topic = excluded.is_topic
	`, tag.Name, tag.URL, tag.IsTopic)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert hashtag %q: %w", tag.Name, err)
	}

	var id int64
	if err := tx.QueryRow("SELECT id_hashtag FROM hashtag WHERE name = ?", tag.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back hashtag %q: %w", tag.Name, err)
	}
	return id, nil
}

// linkRow records a many-to-many association, ignoring repeats.
func linkRow(tx *sql.Tx, table, column string, articleID, otherID int64) error {
	query := fmt.Sprintf("INSERT OR IGNORE INTO %s (id_article, %s) VALUES (?, ?)", table, column)
	if _, err := tx.Exec(query, articleID, otherID); err != nil {
		return fmt.Errorf("failed to link %s: %w", table, err)
	}
	return nil
}

// normalizeDateTime converts the site's human-readable timestamps
// ("June 1, 2024 9:00 a.m. PT") into "2006-01-02 15:04:05". Strings no
// parser understands are stored raw rather than rejected.
func normalizeDateTime(raw string) string {
	cleaned := strings.NewReplacer("a.m.", "AM", "p.m.", "PM").Replace(raw)
	if t, err := dateparse.ParseAny(cleaned); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}

	// The site suffixes a timezone abbreviation some parsers can't
	// map; retry without the last token.
	if i := strings.LastIndex(cleaned, " "); i > 0 {
		if t, err := dateparse.ParseAny(cleaned[:i]); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return raw
}

// normalizeDate converts date-only strings ("July 10, 2010") into
// "2006-01-02", keeping unparseable input raw.
func normalizeDate(raw string) string {
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}
