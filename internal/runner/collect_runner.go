package runner

import (
	"context"

	"github.com/shouni/go-blog-image-kit/pkg/collector"
	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// CollectRunner は、参照モードの画像をローカルへ収集するためのインターフェース。
type CollectRunner interface {
	// Run はガイド項目のうち参照画像だけをダウンロードし、結果を集約して返す。
	Run(ctx context.Context, items domain.GuideItems, outputDir string) (collector.CollectionResult, error)
}

// ReferenceCollectRunner は pkg/collector を利用した標準実装です。
type ReferenceCollectRunner struct {
	collector *collector.Collector
}

// NewReferenceCollectRunner は、ReferenceCollectRunnerの新しいインスタンスを生成して返す。
func NewReferenceCollectRunner(col *collector.Collector) *ReferenceCollectRunner {
	return &ReferenceCollectRunner{collector: col}
}

func (cr *ReferenceCollectRunner) Run(ctx context.Context, items domain.GuideItems, outputDir string) (collector.CollectionResult, error) {
	return cr.collector.Collect(ctx, items, outputDir)
}
