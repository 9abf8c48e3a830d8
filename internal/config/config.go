package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eunsilJANG/EasyGo/internal/domain/oauth"
)

// Config contains runtime configuration values. It is loaded once at process
// start and passed by value into components; nothing re-reads the
// environment per request.
type Config struct {
	Environment string
	HTTPPort    string
	DatabaseURL string
	ServiceName string

	// Token signing. The secret and issuer are process-wide immutable.
	JWTIssuer         string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RenewAccessTTL    time.Duration
	RefreshTokenTTL   time.Duration
	RefreshCookieName string

	// OAuth handshake-state cookie.
	StateCookieName   string
	StateCookieMaxAge time.Duration

	FrontendBaseURL string
	OAuthProviders  map[string]oauth.ProviderConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KakaoAPIKey string
	UploadDir   string

	AdminEmail    string
	AdminPassword string

	RateLimitRPM      int
	TelemetryEndpoint string
	TelemetryInsecure bool

	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServiceName: getEnv("SERVICE_NAME", "easygo-server"),

		JWTIssuer:         getEnv("JWT_ISSUER", "easygo"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenTTL:    getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RenewAccessTTL:    getDuration("RENEW_ACCESS_TOKEN_TTL", 2*time.Hour),
		RefreshTokenTTL:   getDuration("REFRESH_TOKEN_TTL", 14*24*time.Hour),
		RefreshCookieName: getEnv("REFRESH_COOKIE_NAME", "refresh_token"),

		StateCookieName:   getEnv("STATE_COOKIE_NAME", "oauth2_auth_request"),
		StateCookieMaxAge: getDuration("STATE_COOKIE_MAX_AGE", 18000*time.Second),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		KakaoAPIKey: os.Getenv("KAKAO_API_KEY"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),

		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),

		RateLimitRPM:      getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure: getBool("OTEL_EXPORTER_OTLP_INSECURE", true),

		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:5174"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.OAuthProviders = loadProviders()

	return cfg, nil
}

func loadProviders() map[string]oauth.ProviderConfig {
	providers := make(map[string]oauth.ProviderConfig)

	if id := os.Getenv("OAUTH_GOOGLE_CLIENT_ID"); id != "" {
		providers["google"] = oauth.ProviderConfig{
			Name:         "google",
			ClientID:     id,
			ClientSecret: os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET"),
			AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			UserInfoURL:  "https://openidconnect.googleapis.com/v1/userinfo",
			Scopes:       []string{"openid", "profile", "email"},
		}
	}

	if id := os.Getenv("OAUTH_KAKAO_CLIENT_ID"); id != "" {
		providers["kakao"] = oauth.ProviderConfig{
			Name:         "kakao",
			ClientID:     id,
			ClientSecret: os.Getenv("OAUTH_KAKAO_CLIENT_SECRET"),
			AuthURL:      "https://kauth.kakao.com/oauth/authorize",
			TokenURL:     "https://kauth.kakao.com/oauth/token",
			UserInfoURL:  "https://kapi.kakao.com/v2/user/me",
			Scopes:       []string{"profile_nickname", "account_email"},
		}
	}

	return providers
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
