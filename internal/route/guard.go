package route

import (
	"context"
	"net/http"

	"github.com/hitoshi/smarttime/internal/token"
)

// Action はガードの判定結果の種類。
type Action int

const (
	// Proceed は遷移をそのまま許可する。
	Proceed Action = iota
	// Redirect はログインページへ遷移させる。
	Redirect
)

// String はメトリクスラベル用の名前を返す。
func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "proceed"
}

// Decision はガードの判定結果。
// Locationは遷移先のパス。Proceedの場合はリダイレクト定義を解決した後のパスになる。
type Decision struct {
	Action   Action
	Location string
	Route    *Route
}

// DecisionRecorder はガードの判定を記録するインターフェース。
type DecisionRecorder interface {
	RecordGuardDecision(action string)
}

// Guard は遷移のたびに呼ばれ、認証が必要なルートへの未認証の遷移をログインページへ振り向ける。
type Guard struct {
	table     *Table
	reader    token.Reader
	loginPath string
	recorder  DecisionRecorder
}

// GuardOption はGuardの任意設定。
type GuardOption func(*Guard)

// WithLoginPath は未認証時の遷移先を変更する。
func WithLoginPath(p string) GuardOption {
	return func(g *Guard) { g.loginPath = normalize(p) }
}

// WithRecorder は判定の記録先を設定する。
func WithRecorder(rec DecisionRecorder) GuardOption {
	return func(g *Guard) { g.recorder = rec }
}

// NewGuard はGuardを生成する。readerは現在のトークンを返す読み出し口。
func NewGuard(table *Table, reader token.Reader, opts ...GuardOption) *Guard {
	g := &Guard{
		table:     table,
		reader:    reader,
		loginPath: PathLogin,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide は遷移先パスに対する判定を返す。
// ルート列のいずれかが認証必須で、トークンがどちらのスコープにもなければRedirectを返す。
// それ以外はProceedを返す。エラーは返さない。
func (g *Guard) Decide(ctx context.Context, target string) Decision {
	resolved, chain := g.table.Resolve(target)

	var leaf *Route
	if len(chain) > 0 {
		r := chain[len(chain)-1]
		leaf = &r
	}

	d := Decision{Action: Proceed, Location: resolved, Route: leaf}
	if RequiresAuth(chain) && g.reader.Token(ctx) == "" {
		d = Decision{Action: Redirect, Location: g.loginPath}
	}

	if g.recorder != nil {
		g.recorder.RecordGuardDecision(d.Action.String())
	}
	return d
}

// Middleware は全ページリクエストの前段で動くガードのHTTPミドルウェアを返す。
// Redirect判定、またはリダイレクト定義で遷移先が変わった場合はリダイレクト応答を返す。
func (g *Guard) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Decide(r.Context(), r.URL.Path)
			if d.Action == Redirect || d.Location != normalize(r.URL.Path) {
				http.Redirect(w, r, d.Location, redirectStatus(r.Method))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirectStatus はGET/HEADには302、それ以外には303を返す。
// フォーム送信後のリダイレクトでメソッドがGETに変わるようにする。
func redirectStatus(method string) int {
	if method == http.MethodGet || method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
