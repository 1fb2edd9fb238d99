package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, username, nickname string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", store.ErrInvalidArgument)
	}
	u := domain.User{
		ID:        store.NewID(),
		Username:  username,
		Nickname:  nickname,
		CreatedAt: s.now(),
	}
	err := s.users.update(func(rows []domain.User) ([]domain.User, error) {
		for i := range rows {
			if rows[i].Username == username {
				return nil, fmt.Errorf("username %q: %w", username, store.ErrConflict)
			}
		}
		return append(rows, u), nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.users.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
}

func (s *Store) CreatePost(ctx context.Context, userID, content string, images []string) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", store.ErrInvalidArgument)
	}
	p := domain.Post{
		ID:        store.NewID(),
		UserID:    userID,
		Content:   content,
		Images:    domain.StringSlice(images),
		CreatedAt: s.now(),
	}
	err := s.posts.update(func(rows []domain.Post) ([]domain.Post, error) {
		return append(rows, p), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.posts.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			rows[i].Images = domain.StringSlice(rows[i].Images)
			return &rows[i], nil
		}
	}
	return nil, fmt.Errorf("post %q: %w", id, store.ErrNotFound)
}

func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.posts.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Post, 0, len(rows))
	for i := range rows {
		rows[i].Images = domain.StringSlice(rows[i].Images)
		out = append(out, &rows[i])
	}
	store.SortPosts(out)
	return out, nil
}

func (s *Store) AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(postID) == "" || strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: post id and user id required", store.ErrInvalidArgument)
	}
	posts, err := s.posts.snapshot()
	if err != nil {
		return nil, err
	}
	found := false
	for i := range posts {
		if posts[i].ID == postID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("post %q: %w", postID, store.ErrNotFound)
	}
	c := domain.Comment{
		ID:        store.NewID(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	err = s.comments.update(func(rows []domain.Comment) ([]domain.Comment, error) {
		return append(rows, c), nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.comments.snapshot()
	if err != nil {
		return nil, err
	}
	out := []*domain.Comment{}
	for i := range rows {
		if rows[i].PostID == postID {
			out = append(out, &rows[i])
		}
	}
	store.SortComments(out)
	return out, nil
}
