package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/dbctx"
)

func (s *Store) CreateUser(ctx context.Context, username, nickname string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", store.ErrInvalidArgument)
	}
	u := &domain.User{
		ID:        store.NewID(),
		Username:  username,
		Nickname:  nickname,
		CreatedAt: s.now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("username %q: %w", username, store.ErrConflict)
		}
		return tx.Create(u).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("username %q", username))
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", id))
	}
	u.CreatedAt = domain.Timestamp(u.CreatedAt)
	return &u, nil
}

func (s *Store) CreatePost(ctx context.Context, userID, content string, images []string) (*domain.Post, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", store.ErrInvalidArgument)
	}
	p := &domain.Post{
		ID:        store.NewID(),
		UserID:    userID,
		Content:   content,
		Images:    domain.StringSlice(images),
		CreatedAt: s.now(),
	}
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Create(p).Error; err != nil {
		return nil, translate(err, "create post")
	}
	return p, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("post %q", id))
	}
	p.CreatedAt = domain.Timestamp(p.CreatedAt)
	p.Images = domain.StringSlice(p.Images)
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	out := []*domain.Post{}
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	for _, p := range out {
		p.CreatedAt = domain.Timestamp(p.CreatedAt)
		p.Images = domain.StringSlice(p.Images)
	}
	store.SortPosts(out)
	return out, nil
}

func (s *Store) AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(postID) == "" || strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: post id and user id required", store.ErrInvalidArgument)
	}
	c := &domain.Comment{
		ID:        store.NewID(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("post %q: %w", postID, store.ErrNotFound)
		}
		return tx.Create(c).Error
	})
	if err != nil {
		return nil, translate(err, "add comment")
	}
	return c, nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	out := []*domain.Comment{}
	err := dbctx.Context{Ctx: ctx}.DB(s.db).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.CreatedAt = domain.Timestamp(c.CreatedAt)
	}
	store.SortComments(out)
	return out, nil
}
