package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-blog-clip/internal/server"
)

// サーバーのリッスンポートを保持するフラグ変数
var servePort int

const defaultServePort = 5000

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "記事抽出のJSON APIサーバーを起動します",
	Long:  `POST /scrape-blog で記事URLを受け取り、抽出結果をJSONで返すHTTPサーバーを起動します。ヘルスチェックは GET /healthz で行えます。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		// 1. ロガーの初期化 (CLIからの起動なのでコンソール向けの整形出力)
		level := zerolog.InfoLevel
		if clibase.Flags.Verbose {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		// 2. 依存性の初期化 (Fetcher -> Extractor -> Server)
		extractor, err := newExtractor()
		if err != nil {
			return fmt.Errorf("Extractorの初期化エラー: %w", err)
		}

		srv := server.New(extractor, logger, overallTimeout())

		addr := fmt.Sprintf(":%d", servePort)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// 3. サーバーの起動
		logger.Info().Str("addr", addr).Msg("APIサーバーを起動します")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("サーバーの起動に失敗しました: %w", err)
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", defaultServePort,
		fmt.Sprintf("リッスンするポート番号 (デフォルト: %d)", defaultServePort))
}
