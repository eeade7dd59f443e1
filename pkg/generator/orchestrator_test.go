package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeImageClient は呼び出しを記録する ImageClient のテストダブルなのだ。
type fakeImageClient struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       []fakeCall
	perModel    map[string]int
	workTime    time.Duration
	respond     func(call fakeCall) ([]byte, error)
}

type fakeCall struct {
	prompt      string
	aspectRatio string
	model       string
}

func (f *fakeImageClient) Generate(ctx context.Context, prompt, aspectRatio, model string) ([]byte, error) {
	call := fakeCall{prompt: prompt, aspectRatio: aspectRatio, model: model}

	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.calls = append(f.calls, call)
	if f.perModel == nil {
		f.perModel = make(map[string]int)
	}
	f.perModel[model]++
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.workTime > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.workTime):
		}
	}
	return f.respond(call)
}

func (f *fakeImageClient) modelCalls(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perModel[model]
}

func (f *fakeImageClient) recordedCalls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// testPNG は最小のPNGバイト列を返すのだ。
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("テスト用PNGの生成に失敗: %v", err)
	}
	return buf.Bytes()
}

// testConfig は待ち時間を極小にしたテスト用設定なのだ。
func testConfig() Config {
	return Config{
		PrimaryModel:   "model-a",
		FallbackModel:  "model-b",
		FallbackModel2: "model-c",
		RetryCount:     3,
		RateLimitDelay: time.Millisecond,
		RetryPause:     time.Millisecond,
		RequestTimeout: 2 * time.Second,
	}
}

func newTestOrchestrator(t *testing.T, fake *fakeImageClient, cfg Config) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(fake, cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator がエラーを返した: %v", err)
	}
	return o
}

func TestNewOrchestrator(t *testing.T) {
	t.Run("クライアント無しは構築エラー", func(t *testing.T) {
		if _, err := NewOrchestrator(nil, Config{}); err == nil {
			t.Fatal("nil クライアントでエラーになるべき")
		}
	})

	t.Run("ゼロ値の設定はデフォルトで埋まる", func(t *testing.T) {
		o, err := NewOrchestrator(&fakeImageClient{}, Config{})
		if err != nil {
			t.Fatalf("構築に失敗: %v", err)
		}
		if o.cfg.PrimaryModel != DefaultPrimaryModel {
			t.Errorf("PrimaryModel = %q, want %q", o.cfg.PrimaryModel, DefaultPrimaryModel)
		}
		if o.cfg.RetryCount != DefaultRetryCount {
			t.Errorf("RetryCount = %d, want %d", o.cfg.RetryCount, DefaultRetryCount)
		}
		if o.cfg.RateLimitDelay != DefaultRateLimitDelay {
			t.Errorf("RateLimitDelay = %v, want %v", o.cfg.RateLimitDelay, DefaultRateLimitDelay)
		}
		if o.cfg.RequestTimeout != DefaultRequestTimeout {
			t.Errorf("RequestTimeout = %v, want %v", o.cfg.RequestTimeout, DefaultRequestTimeout)
		}
	})
}

func TestGenerateImage_TierChain(t *testing.T) {
	t.Run("一発成功はプライマリのみ", func(t *testing.T) {
		data := testPNG(t, 8, 8)
		fake := &fakeImageClient{respond: func(fakeCall) ([]byte, error) { return data, nil }}
		o := newTestOrchestrator(t, fake, testConfig())

		savePath := filepath.Join(t.TempDir(), "out.png")
		result := o.GenerateImage(context.Background(), "a cozy desk", savePath, "1024x1024")

		if !result.Success {
			t.Fatalf("成功するはずが失敗: %s", result.ErrorMessage)
		}
		if result.FilePath != savePath {
			t.Errorf("FilePath = %q, want %q", result.FilePath, savePath)
		}
		if result.ModelUsed != "model-a" {
			t.Errorf("ModelUsed = %q, want model-a", result.ModelUsed)
		}
		if got := fake.modelCalls("model-a"); got != 1 {
			t.Errorf("model-a の呼び出し回数 = %d, want 1", got)
		}
		if got := fake.modelCalls("model-b"); got != 0 {
			t.Errorf("model-b が呼ばれている: %d", got)
		}
		if _, err := os.Stat(savePath); err != nil {
			t.Errorf("保存ファイルが存在しない: %v", err)
		}
	})

	t.Run("レート制限はリトライ後にフォールバック", func(t *testing.T) {
		data := testPNG(t, 8, 8)
		fake := &fakeImageClient{respond: func(c fakeCall) ([]byte, error) {
			if c.model == "model-a" {
				return nil, errors.New("429: quota exhausted for today")
			}
			return data, nil
		}}
		o := newTestOrchestrator(t, fake, testConfig())

		result := o.GenerateImage(context.Background(), "p", filepath.Join(t.TempDir(), "o.png"), "")

		if !result.Success || result.ModelUsed != "model-b" {
			t.Fatalf("model-b で成功するはず: success=%v model=%s err=%s",
				result.Success, result.ModelUsed, result.ErrorMessage)
		}
		if got := fake.modelCalls("model-a"); got != 3 {
			t.Errorf("model-a は3回試行されるはず: %d", got)
		}
		if got := fake.modelCalls("model-b"); got != 1 {
			t.Errorf("model-b の呼び出し回数 = %d, want 1", got)
		}
	})

	t.Run("トリガー外の失敗はフォールバックしない", func(t *testing.T) {
		fake := &fakeImageClient{respond: func(fakeCall) ([]byte, error) {
			return nil, errors.New("panel melted")
		}}
		o := newTestOrchestrator(t, fake, testConfig())

		result := o.GenerateImage(context.Background(), "p", filepath.Join(t.TempDir(), "o.png"), "")

		if result.Success {
			t.Fatal("失敗するはず")
		}
		if result.ErrorMessage != "panel melted" {
			t.Errorf("ErrorMessage = %q", result.ErrorMessage)
		}
		if result.ModelUsed != "model-a" {
			t.Errorf("ModelUsed = %q, want model-a", result.ModelUsed)
		}
		if got := fake.modelCalls("model-b"); got != 0 {
			t.Errorf("model-b へフォールバックしてはいけない: %d", got)
		}
	})

	t.Run("空のエラーメッセージはフォールバックを許可", func(t *testing.T) {
		data := testPNG(t, 8, 8)
		fake := &fakeImageClient{respond: func(c fakeCall) ([]byte, error) {
			if c.model == "model-a" {
				return nil, errors.New("")
			}
			return data, nil
		}}
		o := newTestOrchestrator(t, fake, testConfig())

		result := o.GenerateImage(context.Background(), "p", filepath.Join(t.TempDir(), "o.png"), "")

		if !result.Success || result.ModelUsed != "model-b" {
			t.Fatalf("空メッセージでは次の段へ進むはず: success=%v model=%s",
				result.Success, result.ModelUsed)
		}
	})

	t.Run("安全系の失敗は3段目まで進める", func(t *testing.T) {
		data := testPNG(t, 8, 8)
		fake := &fakeImageClient{respond: func(c fakeCall) ([]byte, error) {
			if c.model == "model-c" {
				return data, nil
			}
			return nil, errors.New("generation blocked by SAFETY policy")
		}}
		cfg := testConfig()
		cfg.RetryCount = 1
		o := newTestOrchestrator(t, fake, cfg)

		result := o.GenerateImage(context.Background(), "p", filepath.Join(t.TempDir(), "o.png"), "")

		if !result.Success || result.ModelUsed != "model-c" {
			t.Fatalf("最終段で成功するはず: success=%v model=%s", result.Success, result.ModelUsed)
		}
		if got := fake.modelCalls("model-a"); got != 1 {
			t.Errorf("model-a の呼び出し回数 = %d, want 1", got)
		}
		if got := fake.modelCalls("model-b"); got != 1 {
			t.Errorf("model-b の呼び出し回数 = %d, want 1", got)
		}
	})

	t.Run("画像なしレスポンスは再試行もフォールバックもしない", func(t *testing.T) {
		fake := &fakeImageClient{respond: func(fakeCall) ([]byte, error) {
			return nil, ErrNoImage
		}}
		o := newTestOrchestrator(t, fake, testConfig())

		result := o.GenerateImage(context.Background(), "p", filepath.Join(t.TempDir(), "o.png"), "")

		if result.Success {
			t.Fatal("失敗するはず")
		}
		if result.ErrorMessage != "No image found in response" {
			t.Errorf("ErrorMessage = %q", result.ErrorMessage)
		}
		if got := len(fake.recordedCalls()); got != 1 {
			t.Errorf("呼び出しは1回だけのはず: %d", got)
		}
	})

	t.Run("タイムアウトは他のエラーと同じ扱い", func(t *testing.T) {
		fake := &fakeImageClient{
			workTime: 200 * time.Millisecond,
			respond:  func(fakeCall) ([]byte, error) { return testPNG(t, 8, 8), nil },
		}
		cfg := testConfig()
		cfg.RequestTimeout = 10 * time.Millisecond
		o := newTestOrchestrator(t, fake, cfg)

		result := o.GenerateImage(context.Background(), "p", filepath.Join(t.TempDir(), "o.png"), "")

		if result.Success {
			t.Fatal("タイムアウトで失敗するはず")
		}
		// "context deadline exceeded" はトリガー外なのでプライマリで打ち切り
		if got := fake.modelCalls("model-a"); got != 3 {
			t.Errorf("model-a は3回試行されるはず: %d", got)
		}
		if got := fake.modelCalls("model-b"); got != 0 {
			t.Errorf("model-b へフォールバックしてはいけない: %d", got)
		}
	})
}

func TestShouldFallback(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"空メッセージ", "", true},
		{"429", "Error 429: Too Many Requests", true},
		{"QUOTA_EXCEEDED小文字", "quota_exceeded on project", true},
		{"ResourceExhausted", "rpc error: ResourceExhausted", true},
		{"SAFETY", "blocked due to SAFETY", true},
		{"filtered", "response was filtered", true},
		{"RECITATION", "stopped: RECITATION", true},
		{"INVALID_ARGUMENT", "INVALID_ARGUMENT: bad model", true},
		{"does not support", "model does not support image output", true},
		{"画像なしメッセージ", "No image found in response", false},
		{"一般的な失敗", "happy little accident", false},
		{"タイムアウト", "context deadline exceeded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldFallback(tt.message); got != tt.want {
				t.Errorf("shouldFallback(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestIsRateLimitSignal(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"429", "got 429 from upstream", true},
		{"ResourceExhausted", "code = ResourceExhausted", true},
		{"小文字は対象外", "resourceexhausted", false},
		{"quota文言だけ", "quota exceeded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimitSignal(tt.message); got != tt.want {
				t.Errorf("isRateLimitSignal(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name  string
		size  string
		wantW int
		wantH int
	}{
		{"正方形", "1024x1024", 1024, 1024},
		{"横長", "1920x1080", 1920, 1080},
		{"後続ゴミは無視", "800x600 pixels", 800, 600},
		{"不正な形式", "banana", 1024, 1024},
		{"空文字", "", 1024, 1024},
		{"高さゼロ", "100x0", 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ParseSize(tt.size)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ParseSize(%q) = (%d, %d), want (%d, %d)", tt.size, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestAspectRatioForSize(t *testing.T) {
	tests := []struct {
		size string
		want string
	}{
		{"1024x1024", "1:1"},
		{"1920x1080", "16:9"},
		{"1080x1920", "9:16"},
		{"800x600", "4:3"},
		{"768x1024", "3:4"},
		{"500x200", "1:1"},
		{"invalid", "1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			if got := AspectRatioForSize(tt.size); got != tt.want {
				t.Errorf("AspectRatioForSize(%q) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}
