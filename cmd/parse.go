package cmd

import (
	"fmt"

	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// parseCmd は、ガイドの解析結果をそのままJSONで覗くためのデバッグ用コマンドなのだ。
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "画像ガイドの解析結果をJSONで出力するのだ。",
	Long: `画像ガイドMarkdownをパースした項目一覧（モード、プロンプト、テキスト設定など）を
JSON形式でそのまま出力するのだ。ガイドの書式チェックに使うのだよ。`,
	Example: "  cat image_guide.md | ap-blog-go parse -f -",
	RunE:    parseCommand,
}

func init() {
}

func parseCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.GuideFile == "" && !isStdin() {
		return fmt.Errorf("画像ガイド（--guide-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	if err := pipeline.ExecuteParseOnly(ctx, cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("ガイド解析中にエラーが発生したのだ: %w", err)
	}

	return nil
}
