package cmd

import (
	"log"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/go-blog-clip/pkg/extract"
	"github.com/shouni/go-blog-clip/pkg/images"
)

// --- グローバル定数 ---

const (
	appName           = "blog-clip"
	defaultTimeoutSec = 20 // 秒
	defaultMaxRetries = 0  // リトライはデフォルト無効 (呼び出し側の方針に委ねる)

	// 全体処理のタイムアウト定数 (feedCmd, clipCmd で利用)
	DefaultOverallTimeout = 40 * time.Second
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec   int      // --timeout タイムアウト
	MaxRetries   int      // --max-retries リトライ回数
	NoiseMarkers []string // --noise-marker 著者画像の除去マーカー
}

var Flags AppFlags                // アプリケーション固有フラグにアクセスするためのグローバル変数
var globalFetcher extract.Fetcher // または feed.Fetcher (両方満たすため)

// 💡 ルートコマンドの定義 (clibaseがルートコマンドを生成するため、UseとLongのみ残し、他は削除)
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "ブログ記事の本文抽出・画像正規化ツール",
	Long:  `ブログ記事ページから本文の抽出（clip）、画像URLの列挙（images）、フィード経由の一括抽出（feed）、およびJSON API サーバー（serve）を実行します。`,
}

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.MaxRetries,
		"max-retries",
		defaultMaxRetries,
		"HTTPリクエストのリトライ最大回数",
	)
	rootCmd.PersistentFlags().StringSliceVar(
		&Flags.NoiseMarkers,
		"noise-marker",
		images.DefaultNoiseMarkers,
		"著者ヘッドショットとして除去する画像URL/alt の部分一致マーカー",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {

	timeout := time.Duration(Flags.TimeoutSec) * time.Second

	// clibase.Flags の利用
	if clibase.Flags.Verbose {
		log.Printf("HTTPクライアントのタイムアウトを設定しました (Timeout: %s)。", timeout)
		log.Printf("HTTPクライアントのリトライ回数を設定しました (MaxRetries: %d)。", Flags.MaxRetries)
	}

	// 共有フェッチャーの初期化
	globalFetcher = httpkit.New(
		timeout,
		httpkit.WithMaxRetries(uint64(Flags.MaxRetries)),
	)

	return nil
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() extract.Fetcher {
	return globalFetcher
}

// newExtractor は共有フェッチャーとフラグのノイズマーカーから Extractor を組み立てます。
func newExtractor() (*extract.Extractor, error) {
	return extract.NewExtractor(
		GetGlobalFetcher(),
		extract.WithNoiseMarkers(Flags.NoiseMarkers...),
	)
}

// overallTimeout はクライアントタイムアウトの2倍を全体処理の上限とします。
func overallTimeout() time.Duration {
	if Flags.TimeoutSec <= 0 {
		return DefaultOverallTimeout
	}
	return time.Duration(Flags.TimeoutSec) * 2 * time.Second
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	// clibase.Execute を使用して、アプリケーションの初期化、フラグ設定、サブコマンドの登録を一括で行う
	clibase.Execute(
		appName,
		addAppPersistentFlags, // カスタムフラグの追加コールバック
		initAppPreRunE,        // カスタムPersistentPreRunEコールバック
		clipCmd,
		imagesCmd,
		feedCmd,
		serveCmd,
	)
	// clibase.Execute() の中で os.Exit(1) が処理されるため、ここでは不要
}
