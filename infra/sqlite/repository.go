package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/domain"
)

var _ app.PostStore = (*Repository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT    NOT NULL,
	body       TEXT    NOT NULL,
	author     TEXT    NOT NULL,
	created_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_created_idx ON posts (created_ns DESC, id DESC);`

// Repository stores posts in a SQLite database. It implements
// app.PostStore so postd can serve it directly.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. The caller should call Close when done.
func Open(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps inserts ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// List returns all posts, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, body, author, created_ns
		FROM posts
		ORDER BY created_ns DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var (
			id int64
			p  domain.Post
		)
		if err := rows.Scan(&id, &p.Title, &p.Body, &p.Author, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.ID = strconv.FormatInt(id, 10)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// Create inserts a post stamped with the current time in nanoseconds.
func (r *Repository) Create(ctx context.Context, title, body, author string) (domain.Post, error) {
	ts := r.now().UnixNano()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (title, body, author, created_ns) VALUES (?, ?, ?, ?)`,
		title, body, author, ts,
	)
	if err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Post{}, fmt.Errorf("read post id: %w", err)
	}
	return domain.Post{
		ID:        strconv.FormatInt(id, 10),
		Title:     title,
		Body:      body,
		Author:    author,
		Timestamp: ts,
	}, nil
}
