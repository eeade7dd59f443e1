package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-blog-image-kit/pkg/collector"
	"github.com/shouni/go-blog-image-kit/pkg/generator"
	"github.com/shouni/go-blog-image-kit/pkg/publisher"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// InitializeAIClient は gemini クライアントを初期化します。
// APIキーが空のまま呼ばれた場合は、リクエストを1つも出さずにその場で失敗します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY が設定されていないのだ: 画像生成APIの利用には必須です")
	}

	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// BuildOrchestrator は3段フォールバック付きの画像生成オーケストレーターを構築します。
func BuildOrchestrator(appCtx *AppContext) (*generator.Orchestrator, error) {
	client, err := generator.NewGeminiImageClient(appCtx.aiClient)
	if err != nil {
		return nil, fmt.Errorf("画像クライアントの初期化に失敗したのだ: %w", err)
	}

	cfg := appCtx.Config
	return generator.NewOrchestrator(client, generator.Config{
		PrimaryModel:   cfg.PrimaryModel,
		FallbackModel:  cfg.FallbackModel,
		FallbackModel2: cfg.FallbackModel2,
		RetryCount:     cfg.RetryCount,
		RateLimitDelay: cfg.RateLimitDelay,
	})
}

// BuildCollector は参照画像のダウンローダーを構築します。
func BuildCollector(appCtx *AppContext) (*collector.Collector, error) {
	col, err := collector.NewCollector(appCtx.httpClient, collector.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("コレクターの初期化に失敗したのだ: %w", err)
	}
	return col, nil
}

// BuildPublisher はレポート出力用のパブリッシャーを構築します。
func BuildPublisher() *publisher.Publisher {
	return publisher.NewPublisher()
}
