package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/travelplanner-backend/internal/http/response"
	"github.com/yungbote/travelplanner-backend/internal/services"
)

type SocialHandler struct {
	social services.SocialService
}

func NewSocialHandler(social services.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

// POST /api/users
// body: { "username": "...", "nickname": "..." }
func (sh *SocialHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Nickname string `json:"nickname"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := sh.social.CreateUser(c.Request.Context(), req.Username, req.Nickname)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, u)
}

// GET /api/users/:user_id
func (sh *SocialHandler) GetUser(c *gin.Context) {
	u, err := sh.social.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, u)
}

// POST /api/posts
// body: { "user_id": "...", "content": "...", "images": [...] }
func (sh *SocialHandler) CreatePost(c *gin.Context) {
	var req struct {
		UserID  string   `json:"user_id"`
		Content string   `json:"content"`
		Images  []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	p, err := sh.social.CreatePost(c.Request.Context(), userID, req.Content, req.Images)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, p)
}

// GET /api/posts
func (sh *SocialHandler) ListPosts(c *gin.Context) {
	posts, err := sh.social.ListPosts(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, posts)
}

// POST /api/posts/:post_id/comments
// body: { "user_id": "...", "content": "..." }
func (sh *SocialHandler) AddComment(c *gin.Context) {
	var req struct {
		UserID  string `json:"user_id"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	cm, err := sh.social.AddComment(c.Request.Context(), c.Param("post_id"), userID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, cm)
}

// GET /api/posts/:post_id/comments
func (sh *SocialHandler) ListComments(c *gin.Context) {
	comments, err := sh.social.ListComments(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, comments)
}

// POST /api/posts/:post_id/like
// body: { "user_id": "..." }
func (sh *SocialHandler) ToggleLike(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	res, err := sh.social.ToggleLike(c.Request.Context(), userID, c.Param("post_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/posts/:post_id/likes
func (sh *SocialHandler) CountLikes(c *gin.Context) {
	n, err := sh.social.CountLikes(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"count": n})
}

// POST /api/users/:user_id/follow/:target_user_id
func (sh *SocialHandler) ToggleFollow(c *gin.Context) {
	userID, err := actingUser(c, c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	res, err := sh.social.ToggleFollow(c.Request.Context(), userID, c.Param("target_user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/users/:user_id/following
func (sh *SocialHandler) ListFollowing(c *gin.Context) {
	rows, err := sh.social.ListFollowing(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}
