package main

import (
	"github.com/shouni/go-blog-clip/cmd"
)

// main 関数は、cmd パッケージの Execute を呼び出すだけのエントリポイントです。
// フラグ解析・初期化・エラーハンドリングはすべて cmd 側に委譲します。
func main() {
	cmd.Execute()
}
