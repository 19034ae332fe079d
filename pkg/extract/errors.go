package extract

import (
	"errors"
	"fmt"
)

// ----------------------------------------------------------------------
// エラー分類: 入力エラーは境界層、取得エラーと抽出エラーはここで区別する
// ----------------------------------------------------------------------

// ErrNoContent は記事のルート要素を特定できなかったことを示す抽出エラーです。
// 取得そのものは成功しているため、呼び出し側はリトライではなく
// クライアントへのエラー応答に変換すべきです。
var ErrNoContent = errors.New("記事本文のルート要素が見つかりませんでした")

// TransportError は取得層の失敗 (タイムアウト・非2xx・ネットワーク断) を表します。
// 抽出エラーと区別され、errors.As で取り出せます。
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ページ取得エラー (URL: %s): %v", e.URL, e.Err)
}

// Unwrap は原因エラーを返し、errors.Is/As の連鎖を可能にします。
func (e *TransportError) Unwrap() error {
	return e.Err
}
