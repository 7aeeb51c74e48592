package poststore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CrestNiraj12/postboard/domain"
)

const postsPath = "/api/v1/posts"

// Store implements app.PostStore against the HTTP post store.
type Store struct {
	client *Client
}

// NewStore creates a Store backed by client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// wirePost is the store's JSON representation of a post.
type wirePost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Timestamp int64  `json:"timestamp"` // Nanoseconds
}

type createRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

// List fetches every post in the order the store returns them.
func (s *Store) List(ctx context.Context) ([]domain.Post, error) {
	data, err := s.client.Get(ctx, postsPath)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}

	var wire []wirePost
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing posts: %w", err)
	}
	return mapPosts(wire), nil
}

// Create publishes a new post.
func (s *Store) Create(ctx context.Context, title, body, author string) (domain.Post, error) {
	data, err := s.client.PostJSON(ctx, postsPath, createRequest{
		Title:  title,
		Body:   body,
		Author: author,
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}

	var wp wirePost
	if err := json.Unmarshal(data, &wp); err != nil {
		return domain.Post{}, fmt.Errorf("parsing created post: %w", err)
	}
	return mapPost(wp), nil
}

func mapPosts(in []wirePost) []domain.Post {
	out := make([]domain.Post, 0, len(in))
	for _, wp := range in {
		out = append(out, mapPost(wp))
	}
	return out
}

func mapPost(wp wirePost) domain.Post {
	return domain.Post{
		ID:        wp.ID,
		Title:     wp.Title,
		Body:      wp.Body,
		Author:    wp.Author,
		Timestamp: wp.Timestamp,
	}
}
