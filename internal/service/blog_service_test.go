package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/service"
)

func newBlogFixture(t *testing.T) *service.BlogService {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return service.NewBlogService(
		&memoryArticleRepo{articles: map[int64]domain.Article{}},
		&memoryCommentRepo{comments: map[int64]domain.Comment{}},
		&memoryArticleLikeRepo{rows: map[likeKey]struct{}{}},
		node,
		zap.NewNop(),
	)
}

var (
	author = domain.Principal{UserID: 1, Email: "a@b.com", Nickname: "alice"}
	other  = domain.Principal{UserID: 2, Email: "c@d.com", Nickname: "bob"}
)

func TestArticleLifecycle(t *testing.T) {
	blog := newBlogFixture(t)
	ctx := context.Background()

	created, err := blog.CreateArticle(ctx, author, "hello", "first post", nil)
	require.NoError(t, err)
	require.Equal(t, "alice", created.Author)

	updated, err := blog.UpdateArticle(ctx, author, created.ID, "hello again", "edited", nil)
	require.NoError(t, err)
	require.Equal(t, "hello again", updated.Title)

	list, err := blog.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, blog.DeleteArticle(ctx, author, created.ID))
	_, err = blog.GetArticle(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleLike(t *testing.T) {
	blog := newBlogFixture(t)
	ctx := context.Background()

	article, err := blog.CreateArticle(ctx, author, "hello", "post", nil)
	require.NoError(t, err)

	// First call likes the article.
	liked, count, err := blog.ToggleLike(ctx, author, article.ID)
	require.NoError(t, err)
	require.True(t, liked)
	require.Equal(t, 1, count)

	// Each user contributes at most one like.
	liked, count, err = blog.ToggleLike(ctx, other, article.ID)
	require.NoError(t, err)
	require.True(t, liked)
	require.Equal(t, 2, count)

	// A second call from the same user takes the like back.
	liked, count, err = blog.ToggleLike(ctx, author, article.ID)
	require.NoError(t, err)
	require.False(t, liked)
	require.Equal(t, 1, count)

	stillLiked, err := blog.Liked(ctx, article.ID, other.UserID)
	require.NoError(t, err)
	require.True(t, stillLiked)
	unliked, err := blog.Liked(ctx, article.ID, author.UserID)
	require.NoError(t, err)
	require.False(t, unliked)

	_, _, err = blog.ToggleLike(ctx, author, 404404)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOnlyAuthorMayWrite(t *testing.T) {
	blog := newBlogFixture(t)
	ctx := context.Background()

	created, err := blog.CreateArticle(ctx, author, "hello", "post", nil)
	require.NoError(t, err)

	_, err = blog.UpdateArticle(ctx, other, created.ID, "hijack", "", nil)
	require.ErrorIs(t, err, domain.ErrNotAuthor)
	require.ErrorIs(t, blog.DeleteArticle(ctx, other, created.ID), domain.ErrNotAuthor)

	comment, err := blog.AddComment(ctx, other, created.ID, "nice post", nil)
	require.NoError(t, err)
	_, err = blog.UpdateComment(ctx, author, comment.ID, "edit someone else's")
	require.ErrorIs(t, err, domain.ErrNotAuthor)
}

func TestNestedComments(t *testing.T) {
	blog := newBlogFixture(t)
	ctx := context.Background()

	article, err := blog.CreateArticle(ctx, author, "hello", "post", nil)
	require.NoError(t, err)

	parent, err := blog.AddComment(ctx, author, article.ID, "top level", nil)
	require.NoError(t, err)
	reply, err := blog.AddComment(ctx, other, article.ID, "a reply", &parent.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, *reply.ParentID)

	// A reply must point at a comment on the same article.
	elsewhere, err := blog.CreateArticle(ctx, author, "second", "post", nil)
	require.NoError(t, err)
	_, err = blog.AddComment(ctx, other, elsewhere.ID, "cross reply", &parent.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	comments, err := blog.ListComments(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
}

type memoryArticleRepo struct {
	mu       sync.Mutex
	articles map[int64]domain.Article
}

func (m *memoryArticleRepo) Create(ctx context.Context, article domain.Article) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	m.articles[article.ID] = article
	return article, nil
}

func (m *memoryArticleRepo) List(ctx context.Context) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Article
	for _, a := range m.articles {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryArticleRepo) GetByID(ctx context.Context, articleID int64) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.articles[articleID]; ok {
		return a, nil
	}
	return domain.Article{}, pgx.ErrNoRows
}

func (m *memoryArticleRepo) Update(ctx context.Context, article domain.Article) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article.UpdatedAt = time.Now()
	m.articles[article.ID] = article
	return article, nil
}

func (m *memoryArticleRepo) Delete(ctx context.Context, articleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.articles, articleID)
	return nil
}

type likeKey struct {
	articleID int64
	userID    int64
}

type memoryArticleLikeRepo struct {
	mu   sync.Mutex
	rows map[likeKey]struct{}
}

func (m *memoryArticleLikeRepo) Exists(ctx context.Context, articleID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[likeKey{articleID, userID}]
	return ok, nil
}

func (m *memoryArticleLikeRepo) Add(ctx context.Context, articleID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[likeKey{articleID, userID}] = struct{}{}
	return nil
}

func (m *memoryArticleLikeRepo) Remove(ctx context.Context, articleID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, likeKey{articleID, userID})
	return nil
}

func (m *memoryArticleLikeRepo) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.rows {
		if k.articleID == articleID {
			n++
		}
	}
	return n, nil
}

type memoryCommentRepo struct {
	mu       sync.Mutex
	comments map[int64]domain.Comment
}

func (m *memoryCommentRepo) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	m.comments[comment.ID] = comment
	return comment, nil
}

func (m *memoryCommentRepo) ListByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Comment
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryCommentRepo) GetByID(ctx context.Context, commentID int64) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[commentID]; ok {
		return c, nil
	}
	return domain.Comment{}, pgx.ErrNoRows
}

func (m *memoryCommentRepo) UpdateContent(ctx context.Context, commentID int64, content string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok {
		return domain.Comment{}, pgx.ErrNoRows
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	m.comments[commentID] = c
	return c, nil
}

func (m *memoryCommentRepo) Delete(ctx context.Context, commentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, commentID)
	return nil
}
