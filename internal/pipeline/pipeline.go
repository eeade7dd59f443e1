package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/shouni/go-blog-image-kit/internal/builder"
	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/internal/runner"
	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/prompt"
	"github.com/shouni/go-blog-image-kit/pkg/publisher"
)

// Execute は、画像ガイドの解析から参照収集・画像生成・レポート出力までの
// 全フェーズを実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Phase 1: Plan Phase (ガイド解析) ---
	items, plans, err := runPlanStep(ctx, appCtx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		slog.Warn("ガイドから項目を1つも読み取れなかったのだ。何も生成せずに終了する")
		return nil
	}

	outputDir := ResolveOutputDir(cfg)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗したのだ: %w", err)
	}
	slog.Info("出力先が決まったのだ", "output_dir", outputDir)

	// --- Phase 2: Collect Phase (参照画像の収集) ---
	if err := runCollectStep(ctx, appCtx, items, outputDir); err != nil {
		return err
	}

	// --- Phase 3: Image Phase (画像生成) ---
	batch, err := runImageStep(ctx, appCtx, plans, outputDir)
	if err != nil {
		return err
	}

	// --- Phase 4: Publish Phase (レポート出力) ---
	result, err := runPublishStep(ctx, appCtx, plans, batch, outputDir)
	if err != nil {
		return err
	}

	slog.Info("すべての生成工程が完了したのだ！",
		"summary", batch.Summary(),
		"overlay_count", plans.OverlayCount(),
		"report", result.ReportPath)
	return nil
}

// ExecutePromptsOnly は、画像生成を行わずに最適化済みプロンプトだけを出力するのだ。
// APIキーが無くても動くので、プロンプトを外部ツールへ持ち出す用途に使える。
func ExecutePromptsOnly(ctx context.Context, cfg *config.Config, out io.Writer) error {
	planRunner := runner.NewGuidePlanRunner(cfg.Options)
	items, _, err := planRunner.Run(ctx)
	if err != nil {
		return err
	}

	sheets := prompt.BuildPromptSheets(items)
	if len(sheets) == 0 {
		slog.Warn("生成対象の項目が見つからなかったのだ")
		return nil
	}

	if cfg.Options.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sheets); err != nil {
			return fmt.Errorf("プロンプトのJSON出力に失敗したのだ: %w", err)
		}
		return nil
	}

	for _, sheet := range sheets {
		fmt.Fprintf(out, "## [%d] %s\n", sheet.Index, sheet.Role)
		fmt.Fprintf(out, "File: %s / Ratio: %s\n", sheet.Filename, sheet.AspectRatio)
		if sheet.StyleHints != "" {
			fmt.Fprintf(out, "Style: %s\n", sheet.StyleHints)
		}
		fmt.Fprintf(out, "\n%s\n\n", sheet.Prompt)
	}
	return nil
}

// ExecuteParseOnly は、ガイドの解析結果をJSONとしてそのまま出力するのだ。
// パーサーの挙動確認やガイドのデバッグに使う。
func ExecuteParseOnly(ctx context.Context, cfg *config.Config, out io.Writer) error {
	planRunner := runner.NewGuidePlanRunner(cfg.Options)
	items, _, err := planRunner.Run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("解析結果のJSON出力に失敗したのだ: %w", err)
	}
	return nil
}

// ResolveOutputDir は成果物の置き場所を決めるのだ。--output-dir の明示指定が
// 最優先で、無ければ「ベース/日付/トピック」の階層を組み立てる。
func ResolveOutputDir(cfg *config.Config) string {
	if cfg.Options.OutputDir != "" {
		return cfg.Options.OutputDir
	}
	return publisher.ResolveOutputPath(cfg.OutputBaseDir, cfg.Options.Topic, "")
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient)
	return &appCtx, nil
}

// runPlanStep はガイドを解析して生成計画を組み立てるのだ。
func runPlanStep(ctx context.Context, appCtx *builder.AppContext) (domain.GuideItems, domain.ImagePlans, error) {
	slog.Info("Phase 1: 画像ガイドの解析を開始するのだ...", "guide", appCtx.Options.GuideFile)
	planRunner := runner.NewGuidePlanRunner(appCtx.Options)
	items, plans, err := planRunner.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ガイド解析に失敗したのだ: %w", err)
	}
	return items, plans, nil
}

// runCollectStep は参照モードの画像をローカルへ収集するのだ。
// 個々のダウンロード失敗は収集結果に記録されるだけで、工程は止めない。
func runCollectStep(ctx context.Context, appCtx *builder.AppContext, items domain.GuideItems, outputDir string) error {
	if appCtx.Options.SkipCollect {
		slog.Info("Phase 2: 参照画像の収集はスキップ指定なのだ")
		return nil
	}
	refs := items.References()
	if len(refs) == 0 {
		slog.Info("Phase 2: 参照画像の項目が無いので収集しないのだ")
		return nil
	}

	slog.Info("Phase 2: 参照画像の収集を開始するのだ...", "count", len(refs))
	collectRunner, err := builder.BuildCollector(appCtx)
	if err != nil {
		return fmt.Errorf("CollectRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := runner.NewReferenceCollectRunner(collectRunner).Run(ctx, items, outputDir)
	if err != nil {
		return fmt.Errorf("参照画像の収集に失敗したのだ: %w", err)
	}
	if result.Failed > 0 {
		slog.Warn("一部の参照画像を取得できなかったのだ", "failed", result.Failed)
	}
	return nil
}

// runImageStep は BlogImageRunner を使って画像を並列生成するのだ。
func runImageStep(ctx context.Context, appCtx *builder.AppContext, plans domain.ImagePlans, outputDir string) (domain.BatchResult, error) {
	slog.Info("Phase 3: 画像生成を開始するのだ...", "plans", len(plans))
	orc, err := builder.BuildOrchestrator(appCtx)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("ImageRunnerの構築に失敗したのだ: %w", err)
	}

	imageRunner := runner.NewBlogImageRunner(orc, appCtx.Config.ConcurrentLimit, appCtx.Options.WithOverlay)
	batch, err := imageRunner.Run(ctx, plans, outputDir)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("画像生成に失敗したのだ: %w", err)
	}
	return batch, nil
}

// runPublishStep は PublisherRunner を使って最終成果物のレポートを書き出すのだ。
func runPublishStep(ctx context.Context, appCtx *builder.AppContext, plans domain.ImagePlans, batch domain.BatchResult, outputDir string) (publisher.PublishResult, error) {
	slog.Info("Phase 4: レポート出力を開始するのだ...")
	publishRunner := runner.NewDefaultPublisherRunner(appCtx.Options, builder.BuildPublisher())

	result, err := publishRunner.Run(ctx, plans, batch, outputDir)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("レポート出力に失敗したのだ: %w", err)
	}
	return result, nil
}
