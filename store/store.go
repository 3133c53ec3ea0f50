// Package store keeps saved posts in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
	"seo_blog_writer/store/migrations"
)

// ErrNotFound is returned when a post id does not exist.
var ErrNotFound = errors.New("post not found")

// Post is a saved article.
type Post struct {
	ID        string            `json:"id"`
	Article   generator.Article `json:"article"`
	CreatedAt time.Time         `json:"created_at"`
}

// Summary is the list view of a post.
type Summary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the database connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite doesn't handle concurrent writes well.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		if applied[file] {
			continue
		}
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if err := s.apply(ctx, file, upMigration(string(content))); err != nil {
			return err
		}
		slog.Info("migration applied", "file", file)
	}
	return nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) apply(ctx context.Context, file, stmt string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		tx.Rollback()
		return fmt.Errorf("execute migration %s: %w", file, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", file); err != nil {
		tx.Rollback()
		return fmt.Errorf("record migration %s: %w", file, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", file, err)
	}
	return nil
}

func upMigration(content string) string {
	if idx := strings.Index(content, "-- +migrate Down"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(content), "-- +migrate Up"))
}

// Save stores article under a fresh id.
func (s *Store) Save(ctx context.Context, article generator.Article) (Post, error) {
	sections, err := json.Marshal(article.Sections)
	if err != nil {
		return Post{}, fmt.Errorf("encode sections: %w", err)
	}
	report, err := json.Marshal(article.Report)
	if err != nil {
		return Post{}, fmt.Errorf("encode report: %w", err)
	}

	post := Post{
		ID:        uuid.NewString(),
		Article:   article,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, topic, slug, title, sections_json, report_json, h1_html, body_html,
			website_link, wikipedia_link, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, article.Topic, article.Sections.Get(seo.Slug), article.Sections.Get(seo.MetaTitle),
		string(sections), string(report), article.H1HTML, article.BodyHTML,
		article.Links.Website, article.Links.Wikipedia, article.Report.FinalScore, post.CreatedAt,
	)
	if err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	// The raw reply is not persisted.
	post.Article.Raw = ""
	return post, nil
}

// Get loads the post with id.
func (s *Store) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, topic, sections_json, report_json, h1_html, body_html,
			website_link, wikipedia_link, created_at
		FROM posts WHERE id = ?`, id)

	var (
		p                Post
		sections, report string
	)
	err := row.Scan(&p.ID, &p.Article.Topic, &sections, &report, &p.Article.H1HTML, &p.Article.BodyHTML,
		&p.Article.Links.Website, &p.Article.Links.Wikipedia, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(sections), &p.Article.Sections); err != nil {
		return Post{}, fmt.Errorf("decode sections of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(report), &p.Article.Report); err != nil {
		return Post{}, fmt.Errorf("decode report of %s: %w", id, err)
	}
	return p, nil
}

// List returns up to limit posts, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, slug, title, score, created_at
		FROM posts ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.Slug, &sum.Title, &sum.Score, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the post with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
