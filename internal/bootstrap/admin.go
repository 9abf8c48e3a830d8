package bootstrap

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/password"
	"github.com/eunsilJANG/EasyGo/internal/repository"
)

// EnsureAdmin creates a default admin user for dev/e2e if missing. When the
// admin credentials are not configured the hook is a no-op.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, users, node, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	}

	hashed, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	created, err := users.Create(ctx, domain.User{
		ID:           node.Generate().Int64(),
		Email:        email,
		Nickname:     "admin",
		PasswordHash: hashed,
	})
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Info("bootstrap admin user created",
			zap.String("email", created.Email),
			zap.Int64("user_id", created.ID),
		)
	}
	return nil
}
