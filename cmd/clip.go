package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// 抽出対象URLを保持するフラグ変数
var clipURL string

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "ブログ記事の本文を抽出し、正規化済みJSONとして出力します",
	Long:  `指定されたURLのページから記事本文を特定し、ノイズ除去・サニタイズ・画像の placeholder 割当を行った結果をJSONで標準出力に書き出します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {

		// 1. 処理対象URLの決定 (--url フラグ → 標準入力)
		rawURL := clipURL
		if rawURL == "" {
			fmt.Print("処理するURLを入力してください: ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("標準入力の読み取りエラー: %w", err)
				}
				return fmt.Errorf("URLが入力されていません")
			}
			rawURL = strings.TrimSpace(scanner.Text())
		}
		if rawURL == "" {
			return fmt.Errorf("処理対象のURLが指定されていません")
		}

		targetURL, err := ensureScheme(rawURL)
		if err != nil {
			return err
		}

		// 2. 依存性の初期化 (Fetcher -> Extractor)
		extractor, err := newExtractor()
		if err != nil {
			return fmt.Errorf("Extractorの初期化エラー: %w", err)
		}

		// 3. 全体処理のコンテキストを設定
		ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
		defer cancel()

		log.Printf("処理対象URL: %s (全体タイムアウト: %s)", targetURL, overallTimeout())

		// 4. メインロジックの実行
		result, err := extractor.FetchAndClip(ctx, targetURL)
		if err != nil {
			return fmt.Errorf("記事の抽出に失敗しました: %w", err)
		}

		// 5. 結果の出力
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("結果のJSON整形に失敗しました: %w", err)
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	clipCmd.Flags().StringVarP(&clipURL, "url", "u", "", "抽出対象のブログ記事URL")
}
