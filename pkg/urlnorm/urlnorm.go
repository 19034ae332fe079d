package urlnorm

import (
	"strings"
)

// ----------------------------------------------------------------------
// URL正規化 (純粋関数のみ。所有エンティティは持たない)
// ----------------------------------------------------------------------

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Normalize は、HTML属性から取り出した生の値を検証済みの絶対URLへ正規化します。
// 前後の引用符と空白を除去し、プロトコル相対 (//host/...) には https: を補完します。
// 結果が http:// または https:// で始まらない場合は ok=false を返します。
//
// NOTE: パーセントエンコードされた文字 (括弧など) は意図的にデコードしません。
// 一部の配信元はファイル名に ( ) をそのまま含むため、バイト単位の透過が契約です。
func Normalize(raw string) (normalized string, ok bool) {
	// 1. 前後の空白と引用符の除去
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.Trim(trimmed, `"'`)
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return "", false
	}

	// 2. プロトコル相対URLには https: を補完
	if strings.HasPrefix(trimmed, "//") {
		trimmed = "https:" + trimmed
	}

	// 3. http/https 以外は受け付けない
	if !strings.HasPrefix(trimmed, schemeHTTP) && !strings.HasPrefix(trimmed, schemeHTTPS) {
		return "", false
	}

	return trimmed, true
}

// NormalizeAsset は Normalize に加えてクエリ文字列を除去します (canonical asset モード)。
// リサイザクエリ違い (?w=800 など) の同一ファイルを1つのURLへ集約するための、
// 画像の同一性判定専用の正規化です。バナーの style 判定には使いません。
func NormalizeAsset(raw string) (normalized string, ok bool) {
	u, ok := Normalize(raw)
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return u, true
}

// DecodeParens は %28/%29 を ( / ) へ戻すレガシーなデコーダです。
// メインのパイプラインはバイト透過を守るためこれを呼び出しません。
// 旧来の挙動を必要とする呼び出し側だけが明示的に利用します。
func DecodeParens(u string) string {
	trimmed := strings.Trim(u, `"' `)
	return strings.NewReplacer("%28", "(", "%29", ")").Replace(trimmed)
}
