package repository

import (
	"context"

	"github.com/eunsilJANG/EasyGo/internal/domain"
)

// UserRepository exposes persistence for community members.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateNickname(ctx context.Context, userID int64, nickname string) (domain.User, error)
}

// RefreshTokenRepository keeps the single active refresh token per user.
//
// Upsert must be atomic with respect to the unique user_id constraint:
// two concurrent logins for the same user racing find-then-insert would
// otherwise both observe "no row" and insert twice. Implementations close
// this with a storage-level conflict clause, not an application-level check.
type RefreshTokenRepository interface {
	Upsert(ctx context.Context, userID int64, tokenValue string) error
	FindByValue(ctx context.Context, tokenValue string) (domain.RefreshToken, error)
}

// ArticleRepository persists community posts.
type ArticleRepository interface {
	Create(ctx context.Context, article domain.Article) (domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	GetByID(ctx context.Context, articleID int64) (domain.Article, error)
	Update(ctx context.Context, article domain.Article) (domain.Article, error)
	Delete(ctx context.Context, articleID int64) error
}

// ArticleLikeRepository tracks which users like which articles. One row per
// (article, user) pair; liking is a toggle, not a counter.
type ArticleLikeRepository interface {
	Exists(ctx context.Context, articleID, userID int64) (bool, error)
	Add(ctx context.Context, articleID, userID int64) error
	Remove(ctx context.Context, articleID, userID int64) error
	CountByArticle(ctx context.Context, articleID int64) (int, error)
}

// CommentRepository persists article comments, including nested replies.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error)
	GetByID(ctx context.Context, commentID int64) (domain.Comment, error)
	UpdateContent(ctx context.Context, commentID int64, content string) (domain.Comment, error)
	Delete(ctx context.Context, commentID int64) error
}

// CourseRepository persists saved travel courses.
type CourseRepository interface {
	Create(ctx context.Context, course domain.Course) (domain.Course, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Course, error)
	GetByID(ctx context.Context, courseID int64) (domain.Course, error)
}
