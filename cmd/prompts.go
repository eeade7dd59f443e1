package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// promptsCmd は、画像生成を行わずに最適化済みプロンプトだけを書き出すのだ。
var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "ガイドから最適化済みプロンプトの一覧だけを出力するのだ。",
	Long: `画像ガイドMarkdownを解析し、Gemini向けに最適化したプロンプトの一覧を
標準出力へ書き出すのだ。画像生成は行わないのでAPIキーも不要なのだよ。`,
	Example: "  ap-blog-go prompts -f image_guide.md --format json",
	RunE:    promptsCommand,
}

func init() {
	promptsCmd.Flags().StringVar(&opts.Format, "format", config.DefaultPromptFormat, "出力形式（text または json）なのだ。")
}

func promptsCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 入力ソースの必須チェック
	if opts.GuideFile == "" && !isStdin() {
		return fmt.Errorf("画像ガイド（--guide-file）を指定してほしいのだ")
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("未対応の出力形式なのだ: '%s'（text か json を指定してほしいのだ）", opts.Format)
	}

	// 2. 設定のロード
	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("プロンプト抽出モードを起動するのだ！",
		"guide", opts.GuideFile,
		"format", opts.Format)

	// 3. 実行
	if err := pipeline.ExecutePromptsOnly(ctx, cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("プロンプト抽出中にエラーが発生したのだ: %w", err)
	}

	return nil
}
