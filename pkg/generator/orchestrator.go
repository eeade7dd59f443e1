package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/overlay"
)

// デフォルト値の定義なのだ
const (
	// DefaultPrimaryModel は最初に試す画像生成モデルです。
	DefaultPrimaryModel = "gemini-2.0-flash-exp-image-generation"
	// DefaultFallbackModel は1段目のフォールバックです。
	DefaultFallbackModel = "gemini-2.5-flash-image"
	// DefaultFallbackModel2 は最終フォールバックです。
	DefaultFallbackModel2 = "gemini-3-pro-image-preview"

	// DefaultSize は生成画像の既定サイズ指定です。
	DefaultSize = "1024x1024"
	// DefaultRetryCount はモデル1段あたりの最大試行回数です。
	DefaultRetryCount = 3
	// DefaultRateLimitDelay は外部APIの流量制限を避ける安全間隔なのだ。
	// 60秒/10リクエスト = 6秒。
	DefaultRateLimitDelay = 6 * time.Second
	// DefaultRetryPause はレート制限以外のエラーで再試行するまでの小休止です。
	DefaultRetryPause = time.Second
	// DefaultRequestTimeout はAPI呼び出し1回あたりの上限時間です。
	DefaultRequestTimeout = 60 * time.Second
)

// fallbackTriggers は次のモデル段へ進んでよい失敗を表す部分文字列です。
// 大文字小文字を無視して照合します。ここに無いメッセージはモデルを替えても
// 直らない失敗とみなし、その場で打ち切るのだ。
var fallbackTriggers = []string{
	"429", "QUOTA_EXCEEDED", "RATE_LIMIT", "ResourceExhausted",
	"SAFETY", "blocked", "filtered", "RECITATION",
	"INVALID_ARGUMENT", "does not support", "not support",
}

// sizeRegex は "1024x1024" のような幅x高さ指定を先頭一致で取り出します。
var sizeRegex = regexp.MustCompile(`^(\d+)x(\d+)`)

// Config は Orchestrator の動作パラメータなのだ。ゼロ値のフィールドは
// NewOrchestrator がデフォルト値で埋める。
type Config struct {
	PrimaryModel   string
	FallbackModel  string
	FallbackModel2 string

	RetryCount     int
	RateLimitDelay time.Duration
	RetryPause     time.Duration
	RequestTimeout time.Duration

	// FontPath はテキスト合成に使うフォントの明示指定です（空なら自動探索）。
	FontPath string
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数なのだ。
func DefaultConfig() Config {
	return Config{
		PrimaryModel:   DefaultPrimaryModel,
		FallbackModel:  DefaultFallbackModel,
		FallbackModel2: DefaultFallbackModel2,
		RetryCount:     DefaultRetryCount,
		RateLimitDelay: DefaultRateLimitDelay,
		RetryPause:     DefaultRetryPause,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Orchestrator は3段フォールバックとリトライで画像生成を完遂させる実体です。
// 生成の失敗はエラーではなく GenerationResult の値として報告し、
// バッチの兄弟要素を道連れにしないのだ。
type Orchestrator struct {
	client  ImageClient
	overlay *overlay.Processor
	cfg     Config
}

// NewOrchestrator は ImageClient を注入して Orchestrator を構築します。
// クライアントが無い場合は構築時点でエラーになります。
func NewOrchestrator(client ImageClient, cfg Config) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("ImageClient は必須です")
	}

	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = DefaultPrimaryModel
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = DefaultFallbackModel
	}
	if cfg.FallbackModel2 == "" {
		cfg.FallbackModel2 = DefaultFallbackModel2
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = DefaultRetryCount
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = DefaultRateLimitDelay
	}
	if cfg.RetryPause <= 0 {
		cfg.RetryPause = DefaultRetryPause
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	return &Orchestrator{
		client:  client,
		overlay: overlay.NewProcessor(cfg.FontPath),
		cfg:     cfg,
	}, nil
}

// GenerateImage は1枚の画像をプライマリ→フォールバック→最終フォールバックの
// 順で生成します。savePath が空のときはカレントにタイムスタンプ名で保存します。
// 各段の間には固定の安全間隔を空けるのだ。
func (o *Orchestrator) GenerateImage(ctx context.Context, prompt, savePath, size string) domain.GenerationResult {
	start := time.Now()
	if size == "" {
		size = DefaultSize
	}

	result := o.generateWithModel(ctx, prompt, savePath, size, o.cfg.PrimaryModel)

	if !result.Success && shouldFallback(result.ErrorMessage) {
		slog.Warn("プライマリモデルが失敗、フォールバックするのだ",
			"failed_model", o.cfg.PrimaryModel, "next_model", o.cfg.FallbackModel, "error", result.ErrorMessage)
		sleepContext(ctx, o.cfg.RateLimitDelay)
		result = o.generateWithModel(ctx, prompt, savePath, size, o.cfg.FallbackModel)
	}

	if !result.Success && shouldFallback(result.ErrorMessage) {
		slog.Warn("フォールバックも失敗、最終モデルへ切り替えるのだ",
			"failed_model", o.cfg.FallbackModel, "next_model", o.cfg.FallbackModel2, "error", result.ErrorMessage)
		sleepContext(ctx, o.cfg.RateLimitDelay)
		result = o.generateWithModel(ctx, prompt, savePath, size, o.cfg.FallbackModel2)
	}

	result.ElapsedSeconds = time.Since(start).Seconds()
	return result
}

// generateWithModel は1つのモデル段でリトライ付きの生成を行います。
// レート制限のエラーは試行回数に比例した待機、その他のエラーは小休止を挟む。
// レスポンスに画像が無い失敗は再試行しても無駄なので即座に確定させるのだ。
func (o *Orchestrator) generateWithModel(ctx context.Context, prompt, savePath, size, model string) domain.GenerationResult {
	aspectRatio := AspectRatioForSize(size)

	for attempt := 0; attempt < o.cfg.RetryCount; attempt++ {
		finalPath, err := o.attemptOnce(ctx, prompt, aspectRatio, savePath, model)
		if err == nil {
			slog.Info("画像生成に成功したのだ", "model", model, "path", finalPath)
			return domain.GenerationResult{
				Success:   true,
				FilePath:  finalPath,
				Prompt:    prompt,
				ModelUsed: model,
			}
		}

		if errors.Is(err, ErrNoImage) {
			return domain.GenerationResult{
				Success:      false,
				Prompt:       prompt,
				ModelUsed:    model,
				ErrorMessage: err.Error(),
			}
		}

		errMsg := err.Error()

		if isRateLimitSignal(errMsg) && attempt < o.cfg.RetryCount-1 {
			wait := o.cfg.RateLimitDelay * time.Duration(attempt+1)
			slog.Warn("レート制限を検知、待機して再試行するのだ",
				"model", model, "attempt", attempt+1, "wait", wait)
			sleepContext(ctx, wait)
			continue
		}

		if attempt < o.cfg.RetryCount-1 {
			slog.Debug("生成に失敗、再試行するのだ", "model", model, "attempt", attempt+1, "error", errMsg)
			sleepContext(ctx, o.cfg.RetryPause)
			continue
		}

		return domain.GenerationResult{
			Success:      false,
			Prompt:       prompt,
			ModelUsed:    model,
			ErrorMessage: errMsg,
		}
	}

	return domain.GenerationResult{
		Success:      false,
		Prompt:       prompt,
		ModelUsed:    model,
		ErrorMessage: "Maximum retry count exceeded",
	}
}

// attemptOnce は1回分のAPI呼び出しと保存を行います。呼び出しはリクエスト
// タイムアウトで打ち切られ、期限切れは他のエラーと同じ再試行判定に乗ります。
func (o *Orchestrator) attemptOnce(ctx context.Context, prompt, aspectRatio, savePath, model string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	data, err := o.client.Generate(callCtx, prompt, aspectRatio, model)
	if err != nil {
		return "", err
	}
	return writeImageFile(data, savePath)
}

// writeImageFile は画像バイト列をファイルへ書き出し、実際の保存先を返します。
func writeImageFile(data []byte, savePath string) (string, error) {
	path := savePath
	if path == "" {
		path = fmt.Sprintf("generated_image_%s.png", time.Now().Format("20060102_150405"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("保存先ディレクトリの作成に失敗したのだ: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("画像の保存に失敗したのだ: %w", err)
	}
	return path, nil
}

// shouldFallback は次のモデル段へ進むべき失敗かを判定します。
// メッセージが空なら原因不明としてフォールバックを許可するのだ。
func shouldFallback(errorMessage string) bool {
	if errorMessage == "" {
		return true
	}
	lower := strings.ToLower(errorMessage)
	for _, trigger := range fallbackTriggers {
		if strings.Contains(lower, strings.ToLower(trigger)) {
			return true
		}
	}
	return false
}

// isRateLimitSignal は比例待機の対象になる流量系エラーかを判定します。
func isRateLimitSignal(errorMessage string) bool {
	return strings.Contains(errorMessage, "429") || strings.Contains(errorMessage, "ResourceExhausted")
}

// ParseSize は "1024x1024" 形式のサイズ指定を幅と高さへ解釈します。
// 解釈できないときは 1024x1024 になるのだ。
func ParseSize(size string) (width, height int) {
	m := sizeRegex.FindStringSubmatch(size)
	if m == nil {
		return 1024, 1024
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 1024, 1024
	}
	return w, h
}

// AspectRatioForSize はサイズ指定をAPIへ渡すアスペクト比ラベルへ丸めます。
// 許容誤差 0.1 でどの既知比率にも当たらなければ "1:1" です。
func AspectRatioForSize(size string) string {
	w, h := ParseSize(size)
	ratio := float64(w) / float64(h)

	known := []struct {
		label string
		value float64
	}{
		{"1:1", 1.0},
		{"16:9", 16.0 / 9.0},
		{"9:16", 9.0 / 16.0},
		{"4:3", 4.0 / 3.0},
		{"3:4", 3.0 / 4.0},
	}
	for _, k := range known {
		if math.Abs(ratio-k.value) < 0.1 {
			return k.label
		}
	}
	return "1:1"
}

// sleepContext はキャンセルを尊重しつつ d だけ待機します。
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
