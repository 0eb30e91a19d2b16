// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ReplySanitizer はチャットエージェントの返信に含まれるHTMLをサニタイズする。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 文章の整形に必要なタグのみを通過させる。
package security

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ReplySanitizer はチャット返信のサニタイズ機能のインターフェース。
type ReplySanitizer interface {
	// Sanitize は返信をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, ul, ol, li, blockquote, pre, code, strong, em）のみを通過させる。
	// aタグのhrefはhttpsのみ許可し、target="_blank"とrel="noopener noreferrer"を付与する。
	// 改行は<br>に変換する。空文字列の入力には空文字列を返す。
	Sanitize(raw string) string
}

// replySanitizer はReplySanitizerの実装。
// bluemondayのポリシーはスレッドセーフなので1つを共有する。
type replySanitizer struct {
	policy *bluemonday.Policy
}

// NewReplySanitizer はReplySanitizerを生成する。
func NewReplySanitizer() ReplySanitizer {
	p := bluemonday.NewPolicy()

	// script, iframe, style, img等は許可リストに含めないことで除去される
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return u.Host != ""
	})
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &replySanitizer{policy: p}
}

// Sanitize は返信をサニタイズする。
func (s *replySanitizer) Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	clean := s.policy.Sanitize(raw)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return strings.ReplaceAll(clean, "\n", "<br>")
}
