// Package theme はアプリケーションの配色テーブルを提供する。
// ライトとダークの2種類のパレットを持ち、どちらも同じキー集合を持つ。
package theme

import (
	"fmt"
	"strings"
)

// Palette はセマンティックな色名からHEXカラーへの対応を表す。
type Palette struct {
	Primary    string
	Secondary  string
	Success    string
	Danger     string
	Warning    string
	Background string
	Surface    string
	Text       string
	Border     string
}

// パレット名
const (
	VariantLight = "light"
	VariantDark  = "dark"
)

var (
	// Light はライトテーマのパレット。
	Light = Palette{
		Primary:    "#3B82F6",
		Secondary:  "#6B7280",
		Success:    "#10B981",
		Danger:     "#EF4444",
		Warning:    "#F59E0B",
		Background: "#F3F4F6",
		Surface:    "#FFFFFF",
		Text:       "#111827",
		Border:     "#E5E7EB",
	}

	// Dark はダークテーマのパレット。
	Dark = Palette{
		Primary:    "#60A5FA",
		Secondary:  "#9CA3AF",
		Success:    "#34D399",
		Danger:     "#F87171",
		Warning:    "#FBBF24",
		Background: "#111827",
		Surface:    "#1F2937",
		Text:       "#F9FAFB",
		Border:     "#374151",
	}
)

// keys はパレットのキーを定義順に並べたもの。
var keys = []string{
	"primary", "secondary", "success", "danger", "warning",
	"background", "surface", "text", "border",
}

// Keys はパレットのキー一覧を返す。
func Keys() []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Map はパレットをキーからHEXカラーへのmapに変換する。
func (p Palette) Map() map[string]string {
	return map[string]string{
		"primary":    p.Primary,
		"secondary":  p.Secondary,
		"success":    p.Success,
		"danger":     p.Danger,
		"warning":    p.Warning,
		"background": p.Background,
		"surface":    p.Surface,
		"text":       p.Text,
		"border":     p.Border,
	}
}

// Get はキーに対応するHEXカラーを返す。
func (p Palette) Get(key string) (string, bool) {
	v, ok := p.Map()[key]
	return v, ok
}

// CSSVars はパレットをCSSカスタムプロパティの宣言列として返す。
//
//	--color-primary: #3B82F6;
func (p Palette) CSSVars() string {
	m := p.Map()
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "--color-%s: %s;\n", k, m[k])
	}
	return b.String()
}

// ByName は名前に対応するパレットを返す。
func ByName(variant string) (Palette, bool) {
	switch variant {
	case VariantLight:
		return Light, true
	case VariantDark:
		return Dark, true
	default:
		return Palette{}, false
	}
}

// Lookup はパレット名とキーからHEXカラーを引く。
func Lookup(variant, key string) (string, bool) {
	p, ok := ByName(variant)
	if !ok {
		return "", false
	}
	return p.Get(key)
}
