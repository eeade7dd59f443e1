package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、画像ガイドの解析から画像生成・レポート出力までを一括実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "画像ガイドからブログ用の画像を一括生成するのだ。",
	Long: `画像ガイドMarkdownを解析し、参照画像の収集、Geminiによる背景生成、
テキスト合成、Markdown/HTMLレポートの出力までを一括で実行するのだ。`,
	Example: "  ap-blog-go generate -f image_guide.md -t 예금금리비교",
	RunE:    generateCommand,
}

func init() {
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.GuideFile == "" && !isStdin() {
		return fmt.Errorf("画像ガイド（--guide-file）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	applyFlagOverrides(cmd, cfg)
	cfg.Options = opts

	slog.Info("ブログ画像パイプラインを起動するのだ！",
		"guide", opts.GuideFile,
		"image_model", cfg.PrimaryModel,
		"concurrency", cfg.ConcurrentLimit,
		"overlay", opts.WithOverlay)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	return nil
}

// applyFlagOverrides は、ユーザーが明示したフラグだけを環境変数由来の設定へ上書きするのだ。
// フラグのデフォルト値で環境変数の指定を潰さないための判定なのだよ。
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("image-model") {
		cfg.PrimaryModel = opts.ImageModel
	}
	if cmd.Flags().Changed("fallback-model") {
		cfg.FallbackModel = opts.FallbackModel
	}
	if cmd.Flags().Changed("fallback-model2") {
		cfg.FallbackModel2 = opts.FallbackModel2
	}
	if cmd.Flags().Changed("http-timeout") {
		cfg.HTTPTimeout = opts.HTTPTimeout
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.ConcurrentLimit = opts.ConcurrentLimit
	}
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
