package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eunsilJANG/EasyGo/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository         = (*PostgresUserRepo)(nil)
	_ RefreshTokenRepository = (*PostgresRefreshTokenRepo)(nil)
	_ ArticleRepository      = (*PostgresArticleRepo)(nil)
	_ ArticleLikeRepository  = (*PostgresArticleLikeRepo)(nil)
	_ CommentRepository      = (*PostgresCommentRepo)(nil)
	_ CourseRepository       = (*PostgresCourseRepo)(nil)
)

// PostgresUserRepo implements UserRepository on pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const selectUserColumns = `id, email, nickname, password_hash, created_at, updated_at`

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`
	var u domain.User
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`
	var u domain.User
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := `INSERT INTO users (id, email, nickname, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING ` + selectUserColumns
	var u domain.User
	if err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.Nickname, user.PasswordHash).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) UpdateNickname(ctx context.Context, userID int64, nickname string) (domain.User, error) {
	query := `UPDATE users SET nickname = $2, updated_at = now() WHERE id = $1
RETURNING ` + selectUserColumns
	var u domain.User
	if err := r.db.QueryRow(ctx, query, userID, nickname).Scan(
		&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, fmt.Errorf("update nickname: %w", err)
	}
	return u, nil
}

// PostgresRefreshTokenRepo implements RefreshTokenRepository.
type PostgresRefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRefreshTokenRepo(pool *pgxpool.Pool) *PostgresRefreshTokenRepo {
	return &PostgresRefreshTokenRepo{db: pool}
}

// Upsert replaces the user's refresh token in a single statement. The
// ON CONFLICT clause rides on the unique user_id index, so concurrent
// logins for the same user serialize at the storage layer instead of
// racing a find-then-insert.
func (r *PostgresRefreshTokenRepo) Upsert(ctx context.Context, userID int64, tokenValue string) error {
	const query = `INSERT INTO refresh_tokens (user_id, token, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`
	if _, err := r.db.Exec(ctx, query, userID, tokenValue); err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRefreshTokenRepo) FindByValue(ctx context.Context, tokenValue string) (domain.RefreshToken, error) {
	const query = `SELECT user_id, token, updated_at FROM refresh_tokens WHERE token = $1`
	var row domain.RefreshToken
	if err := r.db.QueryRow(ctx, query, tokenValue).Scan(&row.UserID, &row.Token, &row.UpdatedAt); err != nil {
		return domain.RefreshToken{}, fmt.Errorf("find refresh token: %w", err)
	}
	return row, nil
}

// PostgresArticleRepo implements ArticleRepository.
type PostgresArticleRepo struct {
	db *pgxpool.Pool
}

func NewPostgresArticleRepo(pool *pgxpool.Pool) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: pool}
}

const selectArticleColumns = `a.id, a.user_id, u.nickname, a.title, a.content, a.file_urls,
(SELECT count(*) FROM article_likes l WHERE l.article_id = a.id) AS likes,
a.created_at, a.updated_at`

func (r *PostgresArticleRepo) Create(ctx context.Context, article domain.Article) (domain.Article, error) {
	const query = `INSERT INTO articles (id, user_id, title, content, file_urls)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`
	if err := r.db.QueryRow(ctx, query,
		article.ID, article.UserID, article.Title, article.Content, article.FileURLs,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt); err != nil {
		return domain.Article{}, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

func (r *PostgresArticleRepo) List(ctx context.Context) ([]domain.Article, error) {
	query := `SELECT ` + selectArticleColumns + `
FROM articles a JOIN users u ON u.id = a.user_id
ORDER BY a.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.UserID, &a.Author, &a.Title, &a.Content, &a.FileURLs, &a.Likes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (r *PostgresArticleRepo) GetByID(ctx context.Context, articleID int64) (domain.Article, error) {
	query := `SELECT ` + selectArticleColumns + `
FROM articles a JOIN users u ON u.id = a.user_id
WHERE a.id = $1`
	var a domain.Article
	if err := r.db.QueryRow(ctx, query, articleID).Scan(
		&a.ID, &a.UserID, &a.Author, &a.Title, &a.Content, &a.FileURLs, &a.Likes, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return domain.Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

func (r *PostgresArticleRepo) Update(ctx context.Context, article domain.Article) (domain.Article, error) {
	const query = `UPDATE articles
SET title = $2, content = $3, file_urls = $4, updated_at = now()
WHERE id = $1
RETURNING updated_at`
	if err := r.db.QueryRow(ctx, query,
		article.ID, article.Title, article.Content, article.FileURLs,
	).Scan(&article.UpdatedAt); err != nil {
		return domain.Article{}, fmt.Errorf("update article: %w", err)
	}
	return article, nil
}

func (r *PostgresArticleRepo) Delete(ctx context.Context, articleID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, articleID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// PostgresArticleLikeRepo implements ArticleLikeRepository.
type PostgresArticleLikeRepo struct {
	db *pgxpool.Pool
}

func NewPostgresArticleLikeRepo(pool *pgxpool.Pool) *PostgresArticleLikeRepo {
	return &PostgresArticleLikeRepo{db: pool}
}

func (r *PostgresArticleLikeRepo) Exists(ctx context.Context, articleID, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM article_likes WHERE article_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, articleID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

// Add is idempotent: the (article_id, user_id) pair is unique and a
// duplicate like is a no-op rather than an error.
func (r *PostgresArticleLikeRepo) Add(ctx context.Context, articleID, userID int64) error {
	const query = `INSERT INTO article_likes (article_id, user_id)
VALUES ($1, $2)
ON CONFLICT (article_id, user_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, articleID, userID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

func (r *PostgresArticleLikeRepo) Remove(ctx context.Context, articleID, userID int64) error {
	const query = `DELETE FROM article_likes WHERE article_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, articleID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	return nil
}

func (r *PostgresArticleLikeRepo) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	const query = `SELECT count(*) FROM article_likes WHERE article_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, articleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// PostgresCommentRepo implements CommentRepository.
type PostgresCommentRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCommentRepo(pool *pgxpool.Pool) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: pool}
}

const selectCommentColumns = `c.id, c.article_id, c.user_id, u.nickname, c.content, c.parent_id, c.created_at, c.updated_at`

func (r *PostgresCommentRepo) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	const query = `INSERT INTO comments (id, article_id, user_id, content, parent_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`
	if err := r.db.QueryRow(ctx, query,
		comment.ID, comment.ArticleID, comment.UserID, comment.Content, comment.ParentID,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (r *PostgresCommentRepo) ListByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	query := `SELECT ` + selectCommentColumns + `
FROM comments c JOIN users u ON u.id = c.user_id
WHERE c.article_id = $1
ORDER BY c.created_at ASC`
	rows, err := r.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.Nickname, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *PostgresCommentRepo) GetByID(ctx context.Context, commentID int64) (domain.Comment, error) {
	query := `SELECT ` + selectCommentColumns + `
FROM comments c JOIN users u ON u.id = c.user_id
WHERE c.id = $1`
	var c domain.Comment
	if err := r.db.QueryRow(ctx, query, commentID).Scan(
		&c.ID, &c.ArticleID, &c.UserID, &c.Nickname, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (r *PostgresCommentRepo) UpdateContent(ctx context.Context, commentID int64, content string) (domain.Comment, error) {
	const query = `UPDATE comments SET content = $2, updated_at = now() WHERE id = $1
RETURNING id, article_id, user_id, content, parent_id, created_at, updated_at`
	var c domain.Comment
	if err := r.db.QueryRow(ctx, query, commentID, content).Scan(
		&c.ID, &c.ArticleID, &c.UserID, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

func (r *PostgresCommentRepo) Delete(ctx context.Context, commentID int64) error {
	// Replies cascade through the parent_id foreign key.
	if _, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// PostgresCourseRepo implements CourseRepository. Spots are stored as a
// jsonb column; courses are small and always loaded whole.
type PostgresCourseRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCourseRepo(pool *pgxpool.Pool) *PostgresCourseRepo {
	return &PostgresCourseRepo{db: pool}
}

func (r *PostgresCourseRepo) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	spots, err := json.Marshal(course.Spots)
	if err != nil {
		return domain.Course{}, fmt.Errorf("marshal spots: %w", err)
	}
	const query = `INSERT INTO courses (id, user_id, name, spots)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	if err := r.db.QueryRow(ctx, query, course.ID, course.UserID, course.Name, spots).Scan(&course.CreatedAt); err != nil {
		return domain.Course{}, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (r *PostgresCourseRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Course, error) {
	const query = `SELECT id, user_id, name, spots, created_at
FROM courses WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		course, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (r *PostgresCourseRepo) GetByID(ctx context.Context, courseID int64) (domain.Course, error) {
	const query = `SELECT id, user_id, name, spots, created_at FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRow(ctx, query, courseID).Scan)
}

func scanCourse(scan func(dest ...any) error) (domain.Course, error) {
	var course domain.Course
	var spots []byte
	if err := scan(&course.ID, &course.UserID, &course.Name, &spots, &course.CreatedAt); err != nil {
		return domain.Course{}, fmt.Errorf("scan course: %w", err)
	}
	if len(spots) > 0 {
		if err := json.Unmarshal(spots, &course.Spots); err != nil {
			return domain.Course{}, fmt.Errorf("decode spots: %w", err)
		}
	}
	return course, nil
}
