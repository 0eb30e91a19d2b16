package app

import "fmt"

// Command はsmarttimeの起動モード。
type Command string

const (
	// CommandServe はWebサーバーとして起動する。引数なしの既定。
	CommandServe Command = "serve"
	// CommandMigrate はsessionsテーブルのマイグレーションを実行する。"down"で取り消す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中のサーバーの/healthを確認する。
	// シェルのないdistrolessイメージのHEALTHCHECK用。
	CommandHealthcheck Command = "healthcheck"
)

// Usage は不明なサブコマンドを受け取ったときに表示する使い方。
const Usage = "usage: smarttime [serve | migrate [up|down] | healthcheck [URL]]"

// ParseCommand は先頭の引数からサブコマンドを決め、残りの引数とともに返す。
// 引数が空ならCommandServe。未知のサブコマンドはエラーにする。
func ParseCommand(args []string) (Command, []string, error) {
	if len(args) == 0 {
		return CommandServe, nil, nil
	}

	switch cmd := Command(args[0]); cmd {
	case CommandServe, CommandMigrate, CommandHealthcheck:
		return cmd, args[1:], nil
	default:
		return "", nil, fmt.Errorf("unknown command %q\n%s", args[0], Usage)
	}
}
