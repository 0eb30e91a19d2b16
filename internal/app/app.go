package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/smarttime/internal/api"
	"github.com/hitoshi/smarttime/internal/config"
	"github.com/hitoshi/smarttime/internal/database"
	"github.com/hitoshi/smarttime/internal/handler"
	"github.com/hitoshi/smarttime/internal/logger"
	"github.com/hitoshi/smarttime/internal/metrics"
	"github.com/hitoshi/smarttime/internal/middleware"
	"github.com/hitoshi/smarttime/internal/repository"
	"github.com/hitoshi/smarttime/internal/route"
	"github.com/hitoshi/smarttime/internal/security"
	"github.com/hitoshi/smarttime/internal/session"
	"github.com/hitoshi/smarttime/internal/token"
	"github.com/hitoshi/smarttime/internal/web"
	"github.com/hitoshi/smarttime/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, rest, err := ParseCommand(args)
	if err != nil {
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		if len(rest) > 0 {
			return runHealthcheck(rest[0])
		}
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(fmt.Sprintf("http://localhost:%s/health", port))
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("session_store", cfg.SessionStore),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg, rest)
	default:
		return runServe(cfg)
	}
}

// sessionBackend はセッションストアのリポジトリと後始末処理の組。
type sessionBackend struct {
	repo  repository.SessionRepository
	close func() error
}

// openSessionBackend はSESSION_STOREに応じてセッションリポジトリを開き、疎通を確認する。
func openSessionBackend(ctx context.Context, cfg *config.Config) (*sessionBackend, error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("database connection established")
		return &sessionBackend{repo: repository.NewPostgresSessionRepo(db), close: db.Close}, nil

	case config.SessionStoreRedis:
		client, err := repository.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("redis connection established")
		return &sessionBackend{repo: repository.NewRedisSessionRepo(client), close: client.Close}, nil

	default:
		return &sessionBackend{
			repo:  repository.NewMemorySessionRepo(),
			close: func() error { return nil },
		}, nil
	}
}

// server はrunServeが起動する部品一式。
type server struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	cleanupJob  *cleanup.CleanupJob
}

// newServer は全依存関係をワイヤリングしてHTTPハンドラーを構築する。
func newServer(cfg *config.Config, repo repository.SessionRepository, log *slog.Logger) (*server, error) {
	// 1. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. バックエンドAPIクライアント
	// 利用者をまたいでCookieを共有しないよう、Webサーバーでは CookieJar なしのクライアントを使う
	apiClient := api.NewClient(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithInterceptor(api.BearerInterceptor(token.ContextReader{})),
		api.WithLogger(log),
		api.WithRecorder(collector),
	)

	// 3. セッションとガード
	sessions := session.NewManager(repo, session.Config{
		MaxAge:       time.Duration(cfg.SessionMaxAge) * time.Second,
		CookieDomain: cfg.CookieDomain,
		CookieSecure: cfg.CookieSecure,
	})
	guard := route.NewGuard(
		route.NewTable(route.DefaultRoutes()),
		token.ContextReader{},
		route.WithRecorder(collector),
	)

	// 4. ページ
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	pages := handler.NewPageHandler(handler.PageDeps{
		Auth:      apiClient.Auth,
		Tasks:     apiClient.Tasks,
		Meetings:  apiClient.Meetings,
		Chat:      apiClient.Chat,
		Sessions:  sessions,
		Renderer:  renderer,
		Sanitizer: security.NewReplySanitizer(),
		Logger:    log,
	})

	// 5. ルーター
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(cfg.RateLimitLogin))
	router := handler.NewRouter(&handler.RouterDeps{
		Logger: log,
		Guard:  guard,
		Sessions: middleware.SessionBinderFunc(func(w http.ResponseWriter, r *http.Request) token.Store {
			return sessions.Bind(w, r)
		}),
		TokenCookie: token.CookieOptions{
			Domain:   cfg.CookieDomain,
			MaxAge:   cfg.TokenCookieMaxAge,
			Secure:   cfg.CookieSecure,
			HTTPOnly: true,
		},
		RateLimiter:    rateLimiter,
		StatusRecorder: collector,
		HSTS:           cfg.CookieSecure,
		Pages:          pages,
		Theme:          handler.NewThemeHandler(cfg.Theme),
		HealthChecker:  repo,
		MetricsHandler: metrics.Handler(registry),
	})

	return &server{
		handler:     router,
		rateLimiter: rateLimiter,
		cleanupJob:  cleanup.NewCleanupJob(repo, log, cleanup.WithRecorder(collector)),
	}, nil
}

// runServe はWebサーバーモードで起動する。
// セッションストアを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openSessionBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.close()

	srv, err := newServer(cfg, backend.repo, slog.Default())
	if err != nil {
		return err
	}
	defer srv.rateLimiter.Stop()

	// 期限切れセッションの定期削除
	go srv.cleanupJob.Start(ctx, cfg.SessionCleanupInterval)

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server starting", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down web server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runMigrate はsessionsテーブルのマイグレーションを実行する。
// 既定では未適用のものをすべて適用し、"down" が指定された場合はすべて取り消す。
func runMigrate(cfg *config.Config, args []string) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}

	slog.Info("running database migrations",
		slog.String("direction", direction),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch direction {
	case "up":
		version, err := database.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	case "down":
		if err := database.Rollback(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		slog.Info("database migrations rolled back")
	default:
		return fmt.Errorf("unknown migrate direction %q (up, down)", direction)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
func runHealthcheck(target string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	return u.Redacted()
}
