package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/shouni/go-blog-clip/pkg/images"
)

// 画像列挙対象URLを保持するフラグ変数
var imagesURL string

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "ページ内の画像URL候補を文書順に列挙します",
	Long:  `指定されたURLのページを取得し、<img>（遅延読み込み属性・srcset を含む）、<source>、および style 属性の background-image から画像URLを正規化して文書順に一覧表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		targetURL, err := ensureScheme(imagesURL)
		if err != nil {
			return err
		}

		// 1. 依存性の初期化
		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}

		// 2. ページの取得と解析
		ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
		defer cancel()

		body, err := fetcher.FetchBytes(ctx, targetURL)
		if err != nil {
			return fmt.Errorf("ページ取得エラー (URL: %s): %w", targetURL, err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("HTML解析に失敗しました: %w", err)
		}

		// 3. 画像候補の列挙
		candidates := images.Locate(doc.Selection)

		// 4. 結果の出力
		fmt.Printf("--- 画像URL一覧 (%d 件) ---\n", len(candidates))
		for i, c := range candidates {
			fmt.Printf("[%d] %s\n", i+1, c.URL)
		}
		if bannerURL, ok := images.ResolveBanner(doc); ok {
			fmt.Printf("バナー: %s\n", bannerURL)
		}

		return nil
	},
}

func init() {
	imagesCmd.Flags().StringVarP(&imagesURL, "url", "u", "", "画像を列挙する対象ページのURL")

	imagesCmd.MarkFlagRequired("url")
}
