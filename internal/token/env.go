package token

import (
	"context"
	"os"
	"strings"
)

// EnvPrefix はEnvStoreが参照する環境変数名の接頭辞。
const EnvPrefix = "SMARTTIME_"

// EnvStore はプロセスの環境変数を保存先とするStore。
// シェルのセッション単位で値を渡すCLIのセッションスコープとして使う。
// キー "token" は環境変数 SMARTTIME_TOKEN に対応する。
type EnvStore struct{}

// VarName はキーに対応する環境変数名を返す。
func (EnvStore) VarName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

func (e EnvStore) Get(_ context.Context, key string) (string, error) {
	return os.Getenv(e.VarName(key)), nil
}

func (e EnvStore) Set(_ context.Context, key, value string) error {
	return os.Setenv(e.VarName(key), value)
}

func (e EnvStore) Delete(_ context.Context, key string) error {
	return os.Unsetenv(e.VarName(key))
}

var _ Store = EnvStore{}
