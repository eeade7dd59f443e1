package runner

import (
	"context"

	"github.com/shouni/go-blog-image-kit/internal/config"
	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/publisher"
)

// PublisherRunner はパブリッシュ処理のインターフェースです。
type PublisherRunner interface {
	Run(ctx context.Context, plans domain.ImagePlans, batch domain.BatchResult, outputDir string) (publisher.PublishResult, error)
}

// DefaultPublisherRunner は pkg/publisher を利用した標準実装です。
type DefaultPublisherRunner struct {
	options   config.GenerateOptions
	publisher *publisher.Publisher
}

func NewDefaultPublisherRunner(options config.GenerateOptions, pub *publisher.Publisher) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		options:   options,
		publisher: pub,
	}
}

func (pr *DefaultPublisherRunner) Run(ctx context.Context, plans domain.ImagePlans, batch domain.BatchResult, outputDir string) (publisher.PublishResult, error) {
	// internal/config の値を pkg/publisher 用の構造体に詰め替えます。
	opts := publisher.Options{
		OutputDir: outputDir,
		Title:     pr.reportTitle(),
	}

	return pr.publisher.Publish(ctx, plans, batch, opts)
}

// reportTitle はトピック指定があればレポートの表題へ反映するのだ。
// 空ならパブリッシャー側のデフォルトに任せる。
func (pr *DefaultPublisherRunner) reportTitle() string {
	if pr.options.Topic != "" {
		return pr.options.Topic + " 이미지 생성 리포트"
	}
	return ""
}
