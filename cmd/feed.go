package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/go-blog-clip/pkg/feed"
	"github.com/shouni/go-blog-clip/pkg/scraper"
)

// コマンドラインフラグ変数を定義
var (
	feedURL         string // --url フラグで受け取るフィードURL
	feedConcurrency int    // --concurrency フラグで受け取る並列実行数
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "RSS/Atomフィードの全記事を並列で抽出します",
	Long:  `指定されたフィードURLからRSSまたはAtomフィードを取得・解析し、各記事URLに対して本文抽出パイプラインを並列実行して結果の要約を表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		targetURL, err := ensureScheme(feedURL)
		if err != nil {
			return err
		}

		// 1. 依存性の初期化
		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}

		client, ok := fetcher.(*httpkit.Client)
		if !ok {
			return fmt.Errorf("予期しないHTTPクライアントの実装です: %T。feed.NewParserは*httpkit.Clientを期待します。", fetcher)
		}
		parser := feed.NewParser(client)

		extractor, err := newExtractor()
		if err != nil {
			return fmt.Errorf("Extractorの初期化エラー: %w", err)
		}

		// 2. フィードの取得と記事URLの列挙
		ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
		defer cancel()

		parsedFeed, err := parser.FetchAndParse(ctx, targetURL)
		if err != nil {
			return fmt.Errorf("フィード解析パイプラインの実行エラー: %w", err)
		}

		urls := feed.GetAllLinks(feed.NewFeedAdapter(parsedFeed))
		if len(urls) == 0 {
			return fmt.Errorf("フィードに記事URLが含まれていません: %s", targetURL)
		}

		log.Printf("並列抽出開始 (フィード: %s, 対象記事数: %d, 最大同時実行数: %d)\n",
			parsedFeed.Title, len(urls), feedConcurrency)

		// 3. メインロジックの実行 (記事数に応じた全体タイムアウトを別途確保)
		scrapeCtx, scrapeCancel := context.WithTimeout(context.Background(),
			scrapeTimeout(len(urls)))
		defer scrapeCancel()

		s := scraper.NewParallelScraper(extractor, feedConcurrency)
		results := s.ScrapeInParallel(scrapeCtx, urls)

		// 4. 結果の出力
		fmt.Println("--- 並列抽出結果 ---")

		successCount := 0
		errorCount := 0

		for i, res := range results {
			if res.Error != nil {
				errorCount++
				fmt.Printf("❌ [%d] %s\n", i+1, res.URL)
				fmt.Printf("     エラー: %v\n", res.Error)
			} else {
				successCount++
				fmt.Printf("✅ [%d] %s\n", i+1, res.URL)
				fmt.Printf("     タイトル: %s (画像 %d 枚)\n", res.Result.Title, len(res.Result.Images))
			}
		}

		fmt.Println("-------------------------------")
		fmt.Printf("完了: 成功 %d 件, 失敗 %d 件\n", successCount, errorCount)

		return nil
	},
}

// scrapeTimeout は並列抽出全体の上限時間を記事数に比例して見積もります。
// 並列実行のため記事1件分の全体タイムアウトに収まることが多いものの、
// レートリミットの待ち時間が記事数に比例して積み上がるため余裕を持たせます。
func scrapeTimeout(articleCount int) time.Duration {
	waitBudget := time.Duration(articleCount) * scraper.DefaultScrapeRateLimit
	return overallTimeout() + waitBudget
}

func init() {
	feedCmd.Flags().StringVarP(&feedURL, "url", "u", "", "解析対象のフィード (RSS/Atom) URL")

	feedCmd.Flags().IntVarP(&feedConcurrency, "concurrency", "c",
		scraper.DefaultMaxConcurrency,
		fmt.Sprintf("最大並列実行数 (デフォルト: %d)", scraper.DefaultMaxConcurrency))

	feedCmd.MarkFlagRequired("url")
}
