package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/guide"
	"github.com/shouni/go-blog-image-kit/pkg/prompt"
)

// PlanRunner は、画像ガイドを読み込んで生成計画へ変換するためのインターフェースなのだ。
type PlanRunner interface {
	// Run はガイドの読み込み・解析・プロンプト変換を一気に行い、
	// 解析済みの項目列と生成計画の両方を返すのだ。
	Run(ctx context.Context) (domain.GuideItems, domain.ImagePlans, error)
}

// GuidePlanRunner は、Markdownの画像ガイドから生成計画を組み立てる核となる構造体なのだ。
type GuidePlanRunner struct {
	options config.GenerateOptions
	parser  guide.Parser
	stdin   io.Reader // テストで標準入力を差し替えるためのシーム
}

// NewGuidePlanRunner は、GuidePlanRunnerの新しいインスタンスを生成して返すのだ。
func NewGuidePlanRunner(options config.GenerateOptions) *GuidePlanRunner {
	return &GuidePlanRunner{
		options: options,
		parser:  guide.NewMarkdownParser(),
		stdin:   os.Stdin,
	}
}

// Run は、入力ソースの読み込み、ガイド解析、プロンプト最適化を一気に行うのだ。
func (pr *GuidePlanRunner) Run(ctx context.Context) (domain.GuideItems, domain.ImagePlans, error) {
	content, err := pr.readGuideContent()
	if err != nil {
		return nil, nil, err
	}

	items := pr.parser.Parse(string(content))
	plans := prompt.BuildPlans(items)
	pr.applyWatermark(plans)

	slog.Info("画像ガイドを解析したのだ",
		"items", len(items),
		"plans", len(plans),
		"references", len(items.References()))
	return items, plans, nil
}

// readGuideContent は、パスの設定に基づいてガイド本文を取得するのだ。
// パスが '-' か未指定の場合は標準入力から読むのだ。
func (pr *GuidePlanRunner) readGuideContent() ([]byte, error) {
	if pr.options.GuideFile == "" || pr.options.GuideFile == "-" {
		data, err := io.ReadAll(pr.stdin)
		if err != nil {
			return nil, fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(pr.options.GuideFile)
	if err != nil {
		return nil, fmt.Errorf("画像ガイド '%s' の読み込みに失敗したのだ: %w", pr.options.GuideFile, err)
	}
	return data, nil
}

// applyWatermark は --watermark フラグの値を各計画のオーバーレイへ反映するのだ。
// 空文字は「透かしなし」を意味する。
func (pr *GuidePlanRunner) applyWatermark(plans domain.ImagePlans) {
	for i := range plans {
		if plans[i].Overlay == nil {
			continue
		}
		if pr.options.Watermark == "" {
			plans[i].Overlay.WatermarkEnabled = false
			continue
		}
		plans[i].Overlay.WatermarkText = pr.options.Watermark
	}
}
