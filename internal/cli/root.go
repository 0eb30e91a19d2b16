// Package cli はバックエンドAPIを端末から操作するsmarttimectlのコマンド群を提供する。
//
// トークンは永続スコープ（設定ディレクトリのファイル）とセッションスコープ
// （環境変数 SMARTTIME_TOKEN）の2段階で扱い、Webと同じく永続スコープを優先する。
package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hitoshi/smarttime/internal/api"
	"github.com/hitoshi/smarttime/internal/logger"
	"github.com/hitoshi/smarttime/internal/token"
)

const defaultAPIBaseURL = "http://localhost:8000"

// runtime はサブコマンドが共有する実行時の状態。PersistentPreRunEで組み立てる。
type runtime struct {
	apiBaseURL string
	configDir  string
	timeout    time.Duration
	logLevel   string

	files  *token.FileStore
	tokens token.Tiered
	client *api.Client
	logger *slog.Logger
}

// Execute はos.Argsでsmarttimectlを実行する。
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand はsmarttimectlのルートコマンドを生成する。
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:          "smarttimectl",
		Short:        "SmartTime backend client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&rt.apiBaseURL, "api", "", "backend base URL (default $API_BASE_URL or "+defaultAPIBaseURL+")")
	root.PersistentFlags().StringVar(&rt.configDir, "config-dir", "", "directory for the persistent token (default <user config dir>/smarttime)")
	root.PersistentFlags().DurationVar(&rt.timeout, "timeout", 30*time.Second, "timeout for each API call (0 disables)")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		loginCmd(rt),
		logoutCmd(rt),
		registerCmd(rt),
		profileCmd(rt),
		statusCmd(rt),
		tasksCmd(rt),
		meetingsCmd(rt),
		chatCmd(rt),
		themeCmd(),
	)
	return root
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	rt.logger = logger.Setup(cmd.ErrOrStderr(), logger.ParseLevel(rt.logLevel))

	if rt.apiBaseURL == "" {
		rt.apiBaseURL = os.Getenv("API_BASE_URL")
	}
	if rt.apiBaseURL == "" {
		rt.apiBaseURL = defaultAPIBaseURL
	}

	if rt.configDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		rt.configDir = filepath.Join(dir, "smarttime")
	}

	rt.files = token.NewFileStore(rt.configDir)
	rt.tokens = token.Tiered{Persistent: rt.files, Session: token.EnvStore{}}

	// CLIは1利用者なので、CookieJar付きの既定クライアントをそのまま使う
	rt.client = api.NewClient(rt.apiBaseURL,
		api.WithInterceptor(api.BearerInterceptor(rt.tokens)),
		api.WithLogger(rt.logger),
	)
	return nil
}

// context はAPI呼び出し1回分のコンテキストを返す。
func (rt *runtime) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if rt.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, rt.timeout)
}
