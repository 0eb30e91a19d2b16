// Package route はページのルートテーブルと、認証が必要なページへの遷移を制御するガードを提供する。
package route

import (
	"path"
	"strings"
)

// 主要なページパス
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathTasks     = "/tasks"
	PathMeetings  = "/meetings"
	PathChat      = "/chat"
)

// maxRedirects はリダイレクト定義を辿る上限。定義の循環を検出するために使う。
const maxRedirects = 8

// Route はルートテーブルの1エントリを表す。
// Childrenのパスは親パスからの相対で指定する。
type Route struct {
	Path         string
	Name         string
	View         string
	RequiresAuth bool
	Redirect     string
	Children     []Route
}

// Table は起動時に1度だけ構築される不変のルートテーブル。
type Table struct {
	routes []Route
	chains map[string][]Route // 絶対パス -> 祖先から自身までのルート列
	order  []string
}

// NewTable はルート定義からTableを構築する。
func NewTable(routes []Route) *Table {
	t := &Table{
		routes: routes,
		chains: make(map[string][]Route),
	}
	t.index("", nil, routes)
	return t
}

func (t *Table) index(parent string, ancestors []Route, routes []Route) {
	for _, r := range routes {
		full := joinPath(parent, r.Path)
		chain := make([]Route, 0, len(ancestors)+1)
		chain = append(chain, ancestors...)
		chain = append(chain, r)
		if _, dup := t.chains[full]; !dup {
			t.order = append(t.order, full)
		}
		t.chains[full] = chain
		t.index(full, chain, r.Children)
	}
}

// DefaultRoutes はアプリケーションのルート定義を返す。
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathRoot, Redirect: PathLogin},
		{Path: PathLogin, Name: "Login", View: "login"},
		{Path: PathRegister, Name: "Register", View: "register"},
		{Path: PathDashboard, Name: "Dashboard", View: "dashboard", RequiresAuth: true},
		{Path: PathTasks, Name: "Tasks", View: "tasks", RequiresAuth: true},
		{Path: PathMeetings, Name: "Meetings", View: "meetings", RequiresAuth: true},
		{Path: PathChat, Name: "Chat", View: "chat", RequiresAuth: true},
	}
}

// Paths は定義されている絶対パスを定義順に返す。
func (t *Table) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Match はパスに一致するルート列（祖先から自身まで）を返す。
// 完全一致がなければ、セグメント単位で最も長く前方一致する定義済みパスのルート列を返す。
// ルートパス "/" は前方一致の対象にしない。どれにも一致しなければnilを返す。
func (t *Table) Match(p string) []Route {
	chain, _ := t.match(p)
	return chain
}

func (t *Table) match(p string) ([]Route, bool) {
	p = normalize(p)
	if chain, ok := t.chains[p]; ok {
		return chain, true
	}
	for cur := p; cur != "/" && cur != "."; {
		cur = path.Dir(cur)
		if cur == "/" {
			break
		}
		if chain, ok := t.chains[cur]; ok {
			return chain, false
		}
	}
	return nil, false
}

// Resolve は完全一致したルートのRedirect定義を辿り、最終的な遷移先パスとそのルート列を返す。
// リダイレクト定義が循環している場合は上限回数で打ち切り、その時点のパスを返す。
func (t *Table) Resolve(p string) (string, []Route) {
	p = normalize(p)
	for i := 0; i < maxRedirects; i++ {
		chain, exact := t.match(p)
		if !exact || len(chain) == 0 {
			return p, chain
		}
		leaf := chain[len(chain)-1]
		if leaf.Redirect == "" {
			return p, chain
		}
		p = normalize(leaf.Redirect)
	}
	return p, t.Match(p)
}

// Lookup は名前からルートを探す。
func (t *Table) Lookup(name string) (Route, string, bool) {
	for _, p := range t.order {
		chain := t.chains[p]
		leaf := chain[len(chain)-1]
		if leaf.Name == name {
			return leaf, p, true
		}
	}
	return Route{}, "", false
}

// RequiresAuth はルート列のいずれかが認証必須であればtrueを返す。
func RequiresAuth(chain []Route) bool {
	for _, r := range chain {
		if r.RequiresAuth {
			return true
		}
	}
	return false
}

func joinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return normalize(child)
	}
	return normalize(parent + "/" + child)
}

// normalize は末尾スラッシュと重複スラッシュを除いたパスを返す。"/" はそのまま残す。
func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
