package types

// ClipResult は1ページ分の正規化済み記事表現で、下流の再ホスト
// パイプラインへそのままJSONとして渡せる形です。
//
// 不変条件: Images・ImageNames・ImageURLMap は常に同じ長さで、
// ImageURLMap[ImageNames[i]] == Images[i] がすべての i で成り立ちます。
type ClipResult struct {
	Title       string            `json:"title"`
	ContentHTML string            `json:"content_html"`
	Images      []string          `json:"images"`
	ImageNames  []string          `json:"image_names"`
	ImageURLMap map[string]string `json:"image_url_map"`
}

// URLClipResult は、特定のURLから抽出された結果、またはその処理中に
// 発生したエラーを保持します。Scraper の出力として利用されます。
type URLClipResult struct {
	URL    string      // 処理対象のURL
	Result *ClipResult // 抽出された記事表現 (エラー時は nil)
	Error  error       // 処理中に発生したエラー
}
