package app

import (
	"context"

	"github.com/CrestNiraj12/postboard/domain"
)

// PostStore is the remote post store. It is the only boundary the
// controller talks to.
type PostStore interface {
	// List returns every post in the store's order.
	List(ctx context.Context) ([]domain.Post, error)

	// Create stores a new post. The returned post is informational only;
	// callers refetch the list to see it.
	Create(ctx context.Context, title, body, author string) (domain.Post, error)
}
