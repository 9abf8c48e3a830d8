package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/repository"
)

// BlogService manages community articles and their comment threads. Write
// operations are restricted to the author.
type BlogService struct {
	articles  repository.ArticleRepository
	comments  repository.CommentRepository
	likes     repository.ArticleLikeRepository
	snowflake *snowflake.Node
	logger    *zap.Logger
}

// NewBlogService wires dependencies.
func NewBlogService(articles repository.ArticleRepository, comments repository.CommentRepository, likes repository.ArticleLikeRepository, node *snowflake.Node, logger *zap.Logger) *BlogService {
	return &BlogService{articles: articles, comments: comments, likes: likes, snowflake: node, logger: logger}
}

// CreateArticle publishes a new post by the principal.
func (s *BlogService) CreateArticle(ctx context.Context, actor domain.Principal, title, content string, fileURLs []string) (domain.Article, error) {
	if title == "" {
		return domain.Article{}, fmt.Errorf("title required")
	}
	article, err := s.articles.Create(ctx, domain.Article{
		ID:       s.snowflake.Generate().Int64(),
		UserID:   actor.UserID,
		Author:   actor.Nickname,
		Title:    title,
		Content:  content,
		FileURLs: fileURLs,
	})
	if err != nil {
		return domain.Article{}, fmt.Errorf("create article: %w", err)
	}
	s.logger.Info("article.created", zap.Int64("article_id", article.ID), zap.Int64("user_id", actor.UserID))
	return article, nil
}

// ListArticles returns all posts, newest first.
func (s *BlogService) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return s.articles.List(ctx)
}

// GetArticle loads one post.
func (s *BlogService) GetArticle(ctx context.Context, articleID int64) (domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return domain.Article{}, domain.ErrNotFound
	}
	return article, nil
}

// UpdateArticle edits a post. Only the author may edit.
func (s *BlogService) UpdateArticle(ctx context.Context, actor domain.Principal, articleID int64, title, content string, fileURLs []string) (domain.Article, error) {
	existing, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return domain.Article{}, domain.ErrNotFound
	}
	if existing.UserID != actor.UserID {
		return domain.Article{}, domain.ErrNotAuthor
	}
	existing.Title = title
	existing.Content = content
	existing.FileURLs = fileURLs
	updated, err := s.articles.Update(ctx, existing)
	if err != nil {
		return domain.Article{}, fmt.Errorf("update article: %w", err)
	}
	return updated, nil
}

// DeleteArticle removes a post. Only the author may delete.
func (s *BlogService) DeleteArticle(ctx context.Context, actor domain.Principal, articleID int64) error {
	existing, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return domain.ErrNotFound
	}
	if existing.UserID != actor.UserID {
		return domain.ErrNotAuthor
	}
	if err := s.articles.Delete(ctx, articleID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	s.logger.Info("article.deleted", zap.Int64("article_id", articleID), zap.Int64("user_id", actor.UserID))
	return nil
}

// ToggleLike flips the actor's like on an article: a first call likes it,
// a second call takes the like back. Returns whether the article is now
// liked by the actor and the resulting like count.
func (s *BlogService) ToggleLike(ctx context.Context, actor domain.Principal, articleID int64) (bool, int, error) {
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return false, 0, domain.ErrNotFound
	}

	liked, err := s.likes.Exists(ctx, articleID, actor.UserID)
	if err != nil {
		return false, 0, fmt.Errorf("check like: %w", err)
	}
	if liked {
		err = s.likes.Remove(ctx, articleID, actor.UserID)
	} else {
		err = s.likes.Add(ctx, articleID, actor.UserID)
	}
	if err != nil {
		return false, 0, fmt.Errorf("toggle like: %w", err)
	}

	count, err := s.likes.CountByArticle(ctx, articleID)
	if err != nil {
		return false, 0, fmt.Errorf("count likes: %w", err)
	}
	return !liked, count, nil
}

// Liked reports whether the user currently likes the article.
func (s *BlogService) Liked(ctx context.Context, articleID, userID int64) (bool, error) {
	return s.likes.Exists(ctx, articleID, userID)
}

// AddComment attaches a comment to an article. A non-nil parentID makes the
// comment a reply; the parent must belong to the same article.
func (s *BlogService) AddComment(ctx context.Context, actor domain.Principal, articleID int64, content string, parentID *int64) (domain.Comment, error) {
	if content == "" {
		return domain.Comment{}, fmt.Errorf("content required")
	}
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return domain.Comment{}, domain.ErrNotFound
	}
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil || parent.ArticleID != articleID {
			return domain.Comment{}, domain.ErrNotFound
		}
	}
	comment, err := s.comments.Create(ctx, domain.Comment{
		ID:        s.snowflake.Generate().Int64(),
		ArticleID: articleID,
		UserID:    actor.UserID,
		Nickname:  actor.Nickname,
		Content:   content,
		ParentID:  parentID,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns an article's comments in creation order.
func (s *BlogService) ListComments(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	return s.comments.ListByArticle(ctx, articleID)
}

// UpdateComment edits a comment. Only the author may edit.
func (s *BlogService) UpdateComment(ctx context.Context, actor domain.Principal, commentID int64, content string) (domain.Comment, error) {
	existing, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, domain.ErrNotFound
	}
	if existing.UserID != actor.UserID {
		return domain.Comment{}, domain.ErrNotAuthor
	}
	updated, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return updated, nil
}

// DeleteComment removes a comment and, through the storage layer, its
// replies. Only the author may delete.
func (s *BlogService) DeleteComment(ctx context.Context, actor domain.Principal, commentID int64) error {
	existing, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.ErrNotFound
	}
	if existing.UserID != actor.UserID {
		return domain.ErrNotAuthor
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
