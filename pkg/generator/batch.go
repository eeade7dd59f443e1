package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/go-blog-image-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// GenerateBatch は生成計画の列を並列実行します。同時実行数は concurrentLimit で
// 抑えられ、各スロットは1件の完了後に安全間隔を空けてから次へ進みます。
// 個々の失敗は値として記録され、他の計画を中断しません。結果は完了順ではなく
// 提出順に並ぶのだ。
func (o *Orchestrator) GenerateBatch(ctx context.Context, plans domain.ImagePlans, outputDir string, concurrentLimit int) (domain.BatchResult, error) {
	return o.runBatch(ctx, plans, outputDir, concurrentLimit, false)
}

// GenerateBatchWithOverlay はテキスト合成設定を持つ計画をオーバーレイフローへ、
// それ以外を通常生成へ振り分けるバッチ実行です。スロットと間隔の規律は
// GenerateBatch と同じなのだ。
func (o *Orchestrator) GenerateBatchWithOverlay(ctx context.Context, plans domain.ImagePlans, outputDir string, concurrentLimit int) (domain.BatchResult, error) {
	return o.runBatch(ctx, plans, outputDir, concurrentLimit, true)
}

func (o *Orchestrator) runBatch(ctx context.Context, plans domain.ImagePlans, outputDir string, concurrentLimit int, withOverlay bool) (domain.BatchResult, error) {
	start := time.Now()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return domain.BatchResult{}, fmt.Errorf("出力ディレクトリの作成に失敗したのだ: %w", err)
	}
	if concurrentLimit < 1 {
		concurrentLimit = 1
	}

	slog.Info("バッチ画像生成を開始するのだ",
		"count", len(plans), "concurrent_limit", concurrentLimit,
		"delay", o.cfg.RateLimitDelay, "overlay", withOverlay)

	results := make([]domain.GenerationResult, len(plans))
	sem := semaphore.NewWeighted(int64(concurrentLimit))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, plan := range plans {
		i, plan := i, plan // ゴルーチンのクロージャ対策なのだ

		eg.Go(func() error {
			// 1. 空きスロットが出るまで待機するのだ
			if err := sem.Acquire(egCtx, 1); err != nil {
				results[i] = domain.GenerationResult{
					Success:      false,
					Prompt:       plan.Prompt,
					ErrorMessage: err.Error(),
				}
				return nil
			}
			defer sem.Release(1)

			savePath := filepath.Join(outputDir, batchFilename(plan, i))

			// 2. 計画に合成設定があればオーバーレイフロー、無ければ通常生成なのだ
			if withOverlay && plan.NeedsOverlay() {
				results[i] = o.GenerateWithTextOverlay(egCtx, plan.Prompt, savePath, *plan.Overlay, DefaultSize)
			} else {
				results[i] = o.GenerateImage(egCtx, plan.Prompt, savePath, DefaultSize)
			}

			slog.Info("計画を処理したのだ",
				"index", plan.Index, "success", results[i].Success, "model", results[i].ModelUsed)

			// 3. スロットを保持したまま安全間隔を空け、外部の流量制限を守るのだ
			sleepContext(egCtx, o.cfg.RateLimitDelay)
			return nil
		})
	}

	// 失敗も値として回収するため、ここでエラーは返らない
	_ = eg.Wait()

	batch := domain.NewBatchResult(results, time.Since(start).Seconds())
	slog.Info(batch.Summary())
	return batch, nil
}

// batchFilename は保存ファイル名を決定します。計画が名前を持たないときは
// 提出順のインデックスから補うのだ。
func batchFilename(plan domain.ImagePlan, position int) string {
	if plan.Filename != "" {
		return plan.Filename
	}
	return fmt.Sprintf("image_%02d.png", position)
}
