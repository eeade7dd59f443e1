package runner

import (
	"context"
	"log/slog"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/generator"
)

// ImageRunner は、生成計画を基に画像を一括生成するためのインターフェース。
type ImageRunner interface {
	// Run は全計画に対して画像生成を実行し、提出順の結果を集約して返す。
	Run(ctx context.Context, plans domain.ImagePlans, outputDir string) (domain.BatchResult, error)
}

// BlogImageRunner は、テキスト合成の有無を切り替えながら
// 有界並列で画像生成を行う実体。
type BlogImageRunner struct {
	orchestrator *generator.Orchestrator // 3段フォールバック付きの生成エンジン
	concurrent   int                     // 同時に飛ばすリクエスト数の上限
	withOverlay  bool                    // B-2計画のテキスト合成を有効にするか
}

// NewBlogImageRunner は、BlogImageRunnerの新しいインスタンスを生成して返す。
func NewBlogImageRunner(orc *generator.Orchestrator, concurrent int, withOverlay bool) *BlogImageRunner {
	return &BlogImageRunner{
		orchestrator: orc,
		concurrent:   concurrent,
		withOverlay:  withOverlay,
	}
}

// Run は生成計画の列をオーケストレーターへ流し込むのだ。
// 個々の失敗は BatchResult 内の項目として報告され、兄弟を道連れにしない。
func (ir *BlogImageRunner) Run(ctx context.Context, plans domain.ImagePlans, outputDir string) (domain.BatchResult, error) {
	slog.Info("画像生成フェーズを開始するのだ",
		"count", len(plans),
		"concurrent_limit", ir.concurrent,
		"with_overlay", ir.withOverlay)

	if ir.withOverlay {
		return ir.orchestrator.GenerateBatchWithOverlay(ctx, plans, outputDir, ir.concurrent)
	}
	return ir.orchestrator.GenerateBatch(ctx, plans, outputDir, ir.concurrent)
}
