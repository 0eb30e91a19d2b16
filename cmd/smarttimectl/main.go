// Command smarttimectl はSmartTimeのバックエンドAPIを端末から操作するクライアント。
package main

import (
	"os"

	"github.com/hitoshi/smarttime/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
