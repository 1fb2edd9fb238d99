package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/clients/redis"
	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

// SelfEdgePolicy decides whether a user may like their own post or follow
// themselves.
type SelfEdgePolicy struct {
	AllowSelfLike   bool
	AllowSelfFollow bool
}

type SocialService interface {
	CreateUser(ctx context.Context, username, nickname string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)

	CreatePost(ctx context.Context, userID, content string, images []string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)

	ToggleLike(ctx context.Context, userID, postID string) (toggle.Result, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
	ToggleFollow(ctx context.Context, userID, targetUserID string) (toggle.Result, error)
	ListFollowing(ctx context.Context, userID string) ([]domain.Follow, error)
}

type socialService struct {
	log     *logger.Logger
	store   store.SocialStore
	likes   *toggle.Engine[domain.Like]
	follows *toggle.Engine[domain.Follow]
	cache   redis.LikeCountCache
	policy  SelfEdgePolicy
}

// NewSocialService wires the social store and both toggle relations. cache
// may be nil.
func NewSocialService(
	log *logger.Logger,
	st store.SocialStore,
	likes toggle.EdgeSet[domain.Like],
	follows toggle.EdgeSet[domain.Follow],
	cache redis.LikeCountCache,
	policy SelfEdgePolicy,
) SocialService {
	if log == nil {
		log = logger.Nop()
	}
	return &socialService{
		log:     log.With("service", "SocialService"),
		store:   st,
		likes:   toggle.NewEngine(toggle.Likes, likes, log),
		follows: toggle.NewEngine(toggle.Follows, follows, log),
		cache:   cache,
		policy:  policy,
	}
}

func (ss *socialService) CreateUser(ctx context.Context, username, nickname string) (*domain.User, error) {
	u, err := ss.store.CreateUser(ctx, username, strings.TrimSpace(nickname))
	if err != nil {
		return nil, err
	}
	ss.log.Info("user created", "user_id", u.ID)
	return u, nil
}

func (ss *socialService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return ss.store.GetUser(ctx, id)
}

func (ss *socialService) CreatePost(ctx context.Context, userID, content string, images []string) (*domain.Post, error) {
	if strings.TrimSpace(content) == "" && len(images) == 0 {
		return nil, fmt.Errorf("%w: post needs content or images", store.ErrInvalidArgument)
	}
	return ss.store.CreatePost(ctx, userID, content, images)
}

func (ss *socialService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return ss.store.ListPosts(ctx)
}

func (ss *socialService) AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment content required", store.ErrInvalidArgument)
	}
	return ss.store.AddComment(ctx, postID, userID, content)
}

func (ss *socialService) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return ss.store.ListComments(ctx, postID)
}

// ToggleLike requires the post to exist so the self-like policy can see its
// author.
func (ss *socialService) ToggleLike(ctx context.Context, userID, postID string) (toggle.Result, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(postID) == "" {
		return toggle.Result{}, fmt.Errorf("%w: user id and post id required", store.ErrInvalidArgument)
	}
	post, err := ss.store.GetPost(ctx, postID)
	if err != nil {
		return toggle.Result{}, err
	}
	if post.UserID == userID && !ss.policy.AllowSelfLike {
		ss.log.Warn("self like rejected", "user_id", userID, "post_id", postID)
		return toggle.Result{}, ErrSelfEdge
	}
	res, err := ss.likes.Toggle(ctx, userID, postID)
	if err != nil {
		return toggle.Result{}, err
	}
	if ss.cache != nil {
		if err := ss.cache.Invalidate(ctx, postID); err != nil {
			ss.log.Warn("like count cache invalidate failed", "post_id", postID, "error", err)
		}
	}
	return res, nil
}

// CountLikes only caches a freshly read count if no toggle invalidated the
// post between the cache miss and the store read.
func (ss *socialService) CountLikes(ctx context.Context, postID string) (int64, error) {
	var (
		lc        redis.LikeCount
		cacheable bool
	)
	if ss.cache != nil {
		var err error
		lc, err = ss.cache.Get(ctx, postID)
		if err != nil {
			ss.log.Warn("like count cache read failed", "post_id", postID, "error", err)
		} else if lc.Hit {
			return lc.N, nil
		} else {
			cacheable = true
		}
	}
	n, err := ss.likes.Count(ctx, postID)
	if err != nil {
		return 0, err
	}
	if cacheable {
		stored, err := ss.cache.Set(ctx, postID, n, lc.Generation)
		if err != nil {
			ss.log.Warn("like count cache write failed", "post_id", postID, "error", err)
		} else if !stored {
			ss.log.Debug("like count changed during read, not cached", "post_id", postID)
		}
	}
	return n, nil
}

func (ss *socialService) ToggleFollow(ctx context.Context, userID, targetUserID string) (toggle.Result, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(targetUserID) == "" {
		return toggle.Result{}, fmt.Errorf("%w: user id and target user id required", store.ErrInvalidArgument)
	}
	if userID == targetUserID && !ss.policy.AllowSelfFollow {
		ss.log.Warn("self follow rejected", "user_id", userID)
		return toggle.Result{}, ErrSelfEdge
	}
	return ss.follows.Toggle(ctx, userID, targetUserID)
}

func (ss *socialService) ListFollowing(ctx context.Context, userID string) ([]domain.Follow, error) {
	return ss.follows.ListBySubject(ctx, userID)
}
