package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/eunsilJANG/EasyGo/internal/adapter/cache"
	"github.com/eunsilJANG/EasyGo/internal/adapter/cookie"
	"github.com/eunsilJANG/EasyGo/internal/adapter/geocode"
	oauthadapter "github.com/eunsilJANG/EasyGo/internal/adapter/oauth"
	"github.com/eunsilJANG/EasyGo/internal/bootstrap"
	"github.com/eunsilJANG/EasyGo/internal/config"
	httptransport "github.com/eunsilJANG/EasyGo/internal/http"
	"github.com/eunsilJANG/EasyGo/internal/http/handler"
	"github.com/eunsilJANG/EasyGo/internal/http/middleware"
	"github.com/eunsilJANG/EasyGo/internal/repository"
	"github.com/eunsilJANG/EasyGo/internal/server"
	"github.com/eunsilJANG/EasyGo/internal/service"
	"github.com/eunsilJANG/EasyGo/internal/telemetry"
	"github.com/eunsilJANG/EasyGo/internal/token"
)

const geocodeCacheTTL = 24 * time.Hour

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newRedisClient,
			newUserRepository,
			newRefreshTokenRepository,
			newArticleRepository,
			newArticleLikeRepository,
			newCommentRepository,
			newCourseRepository,
			newTokenCodec,
			newStateRepository,
			newProviderClient,
			newGeocoder,
			newGeocodeCache,
			service.NewAuthService,
			service.NewUserService,
			service.NewOAuthService,
			service.NewBlogService,
			service.NewCourseService,
			newAuthMiddleware,
			newRateLimiter,
			newAuthHandler,
			newOAuthHandler,
			newBlogHandler,
			newCourseHandler,
			newUploadHandler,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureAdmin, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newRefreshTokenRepository(pool *pgxpool.Pool) repository.RefreshTokenRepository {
	return repository.NewPostgresRefreshTokenRepo(pool)
}

func newArticleRepository(pool *pgxpool.Pool) repository.ArticleRepository {
	return repository.NewPostgresArticleRepo(pool)
}

func newArticleLikeRepository(pool *pgxpool.Pool) repository.ArticleLikeRepository {
	return repository.NewPostgresArticleLikeRepo(pool)
}

func newCommentRepository(pool *pgxpool.Pool) repository.CommentRepository {
	return repository.NewPostgresCommentRepo(pool)
}

func newCourseRepository(pool *pgxpool.Pool) repository.CourseRepository {
	return repository.NewPostgresCourseRepo(pool)
}

func newTokenCodec(cfg config.Config) *token.Codec {
	return token.NewCodec(cfg.JWTIssuer, cfg.JWTSecret)
}

func newStateRepository(cfg config.Config) *cookie.StateRepository {
	return cookie.NewStateRepository(cfg.StateCookieName, cfg.StateCookieMaxAge)
}

func newProviderClient() oauthadapter.ProviderClient {
	return oauthadapter.NewHTTPProviderClient(nil)
}

func newGeocoder(cfg config.Config) geocode.Geocoder {
	return geocode.NewKakaoClient(cfg.KakaoAPIKey, nil)
}

func newGeocodeCache(client redis.UniversalClient) *cacheadapter.GeocodeCache {
	return cacheadapter.NewGeocodeCache(client, geocodeCacheTTL)
}

func newAuthMiddleware(codec *token.Codec, logger *zap.Logger) *middleware.Auth {
	return &middleware.Auth{Codec: codec, Logger: logger}
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthHandler(auth *service.AuthService, users *service.UserService, cfg config.Config) *handler.AuthHandler {
	return &handler.AuthHandler{Auth: auth, Users: users, Cfg: cfg}
}

func newOAuthHandler(oauthSvc *service.OAuthService, authHandler *handler.AuthHandler, states *cookie.StateRepository, cfg config.Config) *handler.OAuthHandler {
	return &handler.OAuthHandler{OAuth: oauthSvc, Auth: authHandler, States: states, Cfg: cfg}
}

func newBlogHandler(blog *service.BlogService, users *service.UserService) *handler.BlogHandler {
	return &handler.BlogHandler{Blog: blog, Users: users}
}

func newCourseHandler(courses *service.CourseService) *handler.CourseHandler {
	return &handler.CourseHandler{Courses: courses}
}

func newUploadHandler(cfg config.Config) *handler.UploadHandler {
	return &handler.UploadHandler{Dir: cfg.UploadDir}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
