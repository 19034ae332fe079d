package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shouni/go-blog-clip/pkg/extract"
	"github.com/shouni/go-blog-clip/pkg/types"
)

const (
	// DefaultMaxConcurrency は、並列抽出のデフォルトの最大同時実行数を定義します。
	DefaultMaxConcurrency = 6
	// DefaultScrapeRateLimit は、取得元への負荷を抑えるリクエスト間隔です。
	DefaultScrapeRateLimit = 1000 * time.Millisecond
)

// Scraper は複数URLの並列記事抽出機能を提供するインターフェースです。
type Scraper interface {
	ScrapeInParallel(ctx context.Context, urls []string) []types.URLClipResult
}

// ParallelScraper は Scraper インターフェースを実装する並列処理構造体です。
type ParallelScraper struct {
	extractor      *extract.Extractor
	maxConcurrency int           // 最大並列数を保持するフィールド
	rateLimit      time.Duration // リクエスト間隔を保持するフィールド
}

// NewParallelScraper は ParallelScraper を初期化します。
// 依存性として Extractor と、最大同時実行数を受け取ります。
func NewParallelScraper(extractor *extract.Extractor, maxConcurrency int) *ParallelScraper {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &ParallelScraper{
		extractor:      extractor,
		maxConcurrency: maxConcurrency,
		rateLimit:      DefaultScrapeRateLimit,
	}
}

// WithRateLimit はリクエスト間隔を設定します (0以下は無視)。
func (s *ParallelScraper) WithRateLimit(interval time.Duration) *ParallelScraper {
	if interval > 0 {
		s.rateLimit = interval
	}
	return s
}

// ScrapeInParallel は各URLの記事抽出を並列に実行し、結果をまとめて返します。
// 結果の順序は完了順であり、入力順は保証されません。
func (s *ParallelScraper) ScrapeInParallel(ctx context.Context, urls []string) []types.URLClipResult {
	var wg sync.WaitGroup
	resultsChan := make(chan types.URLClipResult, len(urls))

	// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限する
	semaphore := make(chan struct{}, s.maxConcurrency)

	ticker := time.NewTicker(s.rateLimit)
	defer ticker.Stop()
	rateLimiter := ticker.C

	for _, url := range urls {
		wg.Add(1)

		// リソース（スロット）の確保。maxConcurrency件実行中の場合はここでブロックして待機。
		semaphore <- struct{}{}

		go func(u string) {
			defer wg.Done()

			// 処理完了後にリソース（スロット）を解放。他の待機中のGoroutineが実行可能になる。
			defer func() { <-semaphore }()

			select {
			case <-rateLimiter:
				// レートリミット間隔が経過し、リクエストが許可された
			case <-ctx.Done():
				resultsChan <- types.URLClipResult{
					URL:   u,
					Error: ctx.Err(),
				}
				return
			}

			result, err := s.extractor.FetchAndClip(ctx, u)

			var clipErr error
			if err != nil {
				clipErr = fmt.Errorf("記事の抽出に失敗しました: %w", err)
			}

			resultsChan <- types.URLClipResult{
				URL:    u,
				Result: result,
				Error:  clipErr,
			}
		}(url)
	}

	wg.Wait()
	close(resultsChan)

	var finalResults []types.URLClipResult
	for res := range resultsChan {
		finalResults = append(finalResults, res)
	}

	return finalResults
}
