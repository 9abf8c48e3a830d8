package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/http/middleware"
	"github.com/eunsilJANG/EasyGo/internal/service"
)

// BlogHandler exposes articles and their comment threads.
type BlogHandler struct {
	Blog  *service.BlogService
	Users *service.UserService
}

type articleRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content"`
	FileURLs []string `json:"fileUrls"`
}

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

func articleView(a domain.Article) gin.H {
	return gin.H{
		"id":        a.ID,
		"userId":    a.UserID,
		"author":    a.Author,
		"title":     a.Title,
		"content":   a.Content,
		"fileUrls":  a.FileURLs,
		"likes":     a.Likes,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
}

func commentView(c domain.Comment) gin.H {
	return gin.H{
		"id":        c.ID,
		"articleId": c.ArticleID,
		"userId":    c.UserID,
		"nickname":  c.Nickname,
		"content":   c.Content,
		"parentId":  c.ParentID,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

// actor resolves the full principal, including the display name, for write
// operations that stamp authorship.
func (h *BlogHandler) actor(c *gin.Context) (domain.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return domain.Principal{}, false
	}
	user, err := h.Users.FindByID(c.Request.Context(), principal.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Unknown user."})
		return domain.Principal{}, false
	}
	principal.Nickname = user.Nickname
	return principal, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Malformed id."})
		return 0, false
	}
	return id, true
}

func writeBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "No such resource."})
	case errors.Is(err, domain.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "error_description": "Only the author may do that."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Request failed."})
	}
}

// CreateArticle handles POST /api/articles.
func (h *BlogHandler) CreateArticle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Title required."})
		return
	}
	article, err := h.Blog.CreateArticle(c.Request.Context(), actor, req.Title, req.Content, req.FileURLs)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, articleView(article))
}

// ListArticles handles GET /api/articles.
func (h *BlogHandler) ListArticles(c *gin.Context) {
	articles, err := h.Blog.ListArticles(c.Request.Context())
	if err != nil {
		writeBlogError(c, err)
		return
	}
	views := make([]gin.H, 0, len(articles))
	for _, a := range articles {
		views = append(views, articleView(a))
	}
	c.JSON(http.StatusOK, views)
}

// GetArticle handles GET /api/articles/:id.
func (h *BlogHandler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.Blog.GetArticle(c.Request.Context(), id)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	view := articleView(article)
	if principal, ok := middleware.GetPrincipal(c); ok {
		if liked, err := h.Blog.Liked(c.Request.Context(), article.ID, principal.UserID); err == nil {
			view["likecheck"] = liked
		}
	}
	c.JSON(http.StatusOK, view)
}

// UpdateArticle handles PUT /api/articles/:id.
func (h *BlogHandler) UpdateArticle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Title required."})
		return
	}
	article, err := h.Blog.UpdateArticle(c.Request.Context(), actor, id, req.Title, req.Content, req.FileURLs)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleView(article))
}

// DeleteArticle handles DELETE /api/articles/:id.
func (h *BlogHandler) DeleteArticle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Blog.DeleteArticle(c.Request.Context(), actor, id); err != nil {
		writeBlogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike handles POST /api/articles/:id/like. Each user holds at most
// one like per article; repeating the call takes the like back.
func (h *BlogHandler) ToggleLike(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	liked, likes, err := h.Blog.ToggleLike(c.Request.Context(), principal, id)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likecheck": liked, "likes": likes})
}

// AddComment handles POST /api/articles/:id/comments.
func (h *BlogHandler) AddComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Content required."})
		return
	}
	comment, err := h.Blog.AddComment(c.Request.Context(), actor, articleID, req.Content, req.ParentID)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentView(comment))
}

// ListComments handles GET /api/articles/:id/comments.
func (h *BlogHandler) ListComments(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.Blog.ListComments(c.Request.Context(), articleID)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	views := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		views = append(views, commentView(comment))
	}
	c.JSON(http.StatusOK, views)
}

// UpdateComment handles PUT /api/comments/:id.
func (h *BlogHandler) UpdateComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Content required."})
		return
	}
	comment, err := h.Blog.UpdateComment(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentView(comment))
}

// DeleteComment handles DELETE /api/comments/:id.
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Blog.DeleteComment(c.Request.Context(), actor, id); err != nil {
		writeBlogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
