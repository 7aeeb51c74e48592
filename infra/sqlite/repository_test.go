package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "posts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_CreateAndListNewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	base := time.Unix(1_700_000_000, 0)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	ctx := context.Background()
	first, err := repo.Create(ctx, "Hello", "World", "Alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(ctx, "Again", "More", "Bob")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == second.ID || first.ID == "" {
		t.Fatalf("ids must be unique and non-empty: %q %q", first.ID, second.ID)
	}
	if first.Timestamp != base.Add(time.Second).UnixNano() {
		t.Fatalf("unexpected timestamp: %d", first.Timestamp)
	}

	posts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0] != second || posts[1] != first {
		t.Fatalf("expected newest first:\n%#v", posts)
	}
}

func TestRepository_ListEmpty(t *testing.T) {
	posts, err := openTestRepo(t).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestRepository_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.db")
	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := repo.Create(context.Background(), "t", "b", "a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	repo, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	posts, err := repo.List(context.Background())
	if err != nil || len(posts) != 1 || posts[0].Title != "t" {
		t.Fatalf("expected persisted post, got %#v err=%v", posts, err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
