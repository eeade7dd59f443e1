package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/generator"

	"github.com/joho/godotenv"
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全コマンドで共有する実行時オプションなのだ。
// addAppFlags で各フラグへ紐付けられる。
var opts config.GenerateOptions

// keylessCommands は Gemini API を呼ばないコマンドなのだ。
// 解析やローカル合成だけなので、APIキーのチェックを素通しする。
var keylessCommands = map[string]bool{
	"prompts": true,
	"parse":   true,
	"overlay": true,
	"init":    true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.GuideFile, "guide-file", "f", "", "画像ガイドMarkdownのパス（'-'で標準入力なのだ）。")
	rootCmd.PersistentFlags().StringVarP(&opts.Topic, "topic", "t", "", "出力ディレクトリ名に使うブログのトピックなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "保存先ディレクトリ（省略時は ベース/日付/トピック を組み立てるのだ）。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", generator.DefaultPrimaryModel, "使用する Gemini 画像モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.FallbackModel, "fallback-model", generator.DefaultFallbackModel, "クォータ超過時に切り替える1段目のモデルなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.FallbackModel2, "fallback-model2", generator.DefaultFallbackModel2, "最後の砦となる2段目のフォールバックモデルなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "参照画像ダウンロードのタイムアウトなのだ。")
	rootCmd.PersistentFlags().IntVarP(&opts.ConcurrentLimit, "concurrency", "p", config.DefaultConcurrentLimit, "画像生成APIの同時実行数なのだ。")

	// --- テキスト合成・収集の制御 ---
	rootCmd.PersistentFlags().BoolVar(&opts.WithOverlay, "overlay", true, "生成後にテキスト合成（サムネイル文字入れ）を行うかなのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.SkipCollect, "skip-collect", false, "参照画像の収集フェーズを飛ばすのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Watermark, "watermark", domain.DefaultWatermarkText, "合成画像に入れる透かし文字なのだ（空文字で無効化）。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if keylessCommands[cmd.Name()] {
		return nil
	}

	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	// 旧名の GOOGLE_API_KEY も互換のために受け付ける。
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	// .env があれば読み込む。無くても環境変数だけで動くのだ。
	if err := godotenv.Load(); err != nil {
		slog.Debug(".envファイルが見つからないので環境変数をそのまま使うのだ")
	}

	clibase.Execute(
		"ap-blog-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		promptsCmd,
		parseCmd,
		overlayCmd,
		initCmd,
	)
}
