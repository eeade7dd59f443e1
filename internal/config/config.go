package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-blog-image-kit/pkg/generator"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout     = 30 * time.Second // 参照画像ダウンロードのタイムアウトなのだ
	DefaultConcurrentLimit = 2                // 画像生成APIの同時実行数なのだ
	DefaultOutputBaseDir   = "output"         // 成果物（画像・レポート）のデフォルト保存先なのだ
	DefaultPromptFormat    = "text"           // prompts コマンドの出力形式なのだ
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey   string
	PrimaryModel   string
	FallbackModel  string
	FallbackModel2 string

	OutputBaseDir   string
	HTTPTimeout     time.Duration
	RateLimitDelay  time.Duration
	RetryCount      int
	ConcurrentLimit int

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// APIキーは GEMINI_API_KEY を優先し、旧名の GOOGLE_API_KEY も受け付ける。
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:    envutil.GetEnv("GEMINI_API_KEY", envutil.GetEnv("GOOGLE_API_KEY", "")),
		PrimaryModel:    envutil.GetEnv("IMAGE_MODEL_PRIMARY", generator.DefaultPrimaryModel),
		FallbackModel:   envutil.GetEnv("IMAGE_MODEL_FALLBACK", generator.DefaultFallbackModel),
		FallbackModel2:  envutil.GetEnv("IMAGE_MODEL_FALLBACK2", generator.DefaultFallbackModel2),
		OutputBaseDir:   envutil.GetEnv("BLOG_OUTPUT_DIR", DefaultOutputBaseDir),
		HTTPTimeout:     durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout),
		RateLimitDelay:  durationEnv("IMAGE_RATE_LIMIT_DELAY", generator.DefaultRateLimitDelay),
		RetryCount:      intEnv("IMAGE_RETRY_COUNT", generator.DefaultRetryCount),
		ConcurrentLimit: intEnv("IMAGE_CONCURRENCY", DefaultConcurrentLimit),
	}
	return cfg
}

// durationEnv は "30s" のような環境変数を time.Duration として読むのだ。
// 解釈できない値はデフォルトへ落とす。
func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数をdurationとして解釈できなかったのだ", "key", key, "value", raw)
		return fallback
	}
	return d
}

// intEnv は整数の環境変数を読むのだ。解釈できない値はデフォルトへ落とす。
func intEnv(key string, fallback int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("環境変数を整数として解釈できなかったのだ", "key", key, "value", raw)
		return fallback
	}
	return n
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	GuideFile string // --guide-file: 画像ガイドMarkdownのパス（'-'で標準入力）
	Topic     string // --topic: 出力ディレクトリ名に使うブログのトピック

	// 生成結果の出力設定
	OutputDir string // --output-dir: 明示指定時はトピック/日付の解決を行わずそのまま使う

	// AI挙動設定
	ImageModel     string // --image-model: プライマリの画像生成モデル
	FallbackModel  string // --fallback-model: 1段目フォールバック
	FallbackModel2 string // --fallback-model2: 最終フォールバック

	// 実行制御
	ConcurrentLimit int           // --concurrency
	HTTPTimeout     time.Duration // --http-timeout
	WithOverlay     bool          // --overlay: B-2項目のテキスト合成を行うか
	SkipCollect     bool          // --skip-collect: 参照画像の収集を飛ばす
	Watermark       string        // --watermark: 合成画像に入れる透かし文字（空で無効）
	Format          string        // --format: prompts コマンドの出力形式 (text|json)
}
