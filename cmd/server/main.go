package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/nunomh/go-auth-backend"
)

// envConfig satisfies auth.Config from environment variables with defaults
// suitable for local development.
type envConfig struct{}

func (envConfig) GetSigningKey() string {
	return envOr("AUTH_SIGNING_KEY", "dev-signing-key-change-me")
}

func (envConfig) GetSigningMethod() string { return "HS256" }

func (envConfig) GetContextKey() string {
	return envOr("AUTH_CONTEXT_KEY", "token")
}

// GetTokenExpiration is in hours; the default keeps sessions alive for a week.
func (envConfig) GetTokenExpiration() int {
	if raw := os.Getenv("AUTH_TOKEN_EXPIRATION"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			return hours
		}
	}
	return 7 * 24
}

func (c envConfig) GetTokenLookup() string {
	return "cookie:" + c.GetContextKey()
}

func (envConfig) GetAuthScheme() string { return "Bearer" }

func (envConfig) GetIssuer() string {
	return envOr("AUTH_ISSUER", "go-auth-backend")
}

func (envConfig) GetAudience() []string {
	return []string{envOr("AUTH_AUDIENCE", "go-auth-backend")}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	ctx := context.Background()
	cfg := envConfig{}

	db, err := openDB(ctx)
	if err != nil {
		log.Fatalf("persistence: %v", err)
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatalf("repository: %v", err)
	}

	notifier := auth.NewLogNotifier(nil)

	provider := auth.NewAccountProvider(repo.Accounts())
	auther := auth.NewAuthenticator(provider, cfg)

	controller := auth.NewAuthController(auther, repo, cfg).
		WithNotifier(notifier).
		WithClientURL(envOr("CLIENT_URL", "http://localhost:5173"))
	controller.Debug = os.Getenv("DEBUG") != ""

	app := fiber.New(fiber.Config{
		AppName: "go-auth-backend",
	})

	auth.RegisterAuthRoutes(app.Group("/api/auth"), controller)

	go func() {
		addr := ":" + envOr("PORT", "5000")
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	waitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDB(ctx context.Context) (*bun.DB, error) {
	dsn := envOr("DATABASE_DSN", "file:auth.db?cache=shared&mode=rwc")

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if _, err := db.NewCreateTable().
		Model((*auth.Account)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	// unique email is enforced at the storage level, the registration
	// precheck is only the friendly error path
	if _, err := db.NewCreateIndex().
		Model((*auth.Account)(nil)).
		Index("accounts_email_idx").
		Unique().
		Column("email").
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
