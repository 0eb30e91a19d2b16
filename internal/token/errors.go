package token

import "errors"

// ErrNoStore は書き込み先のスコープが構成されていない場合に返る。
var ErrNoStore = errors.New("token: store not configured")
