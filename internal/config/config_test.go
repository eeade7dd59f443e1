package config

import (
	"os"
	"testing"
	"time"

	"github.com/shouni/go-blog-image-kit/pkg/generator"
)

// unsetenv は t.Setenv の復元登録だけ借りて、変数そのものは消すヘルパーなのだ。
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("環境変数が無ければデフォルト値で埋まるのだ", func(t *testing.T) {
		unsetenv(t,
			"GEMINI_API_KEY", "GOOGLE_API_KEY",
			"IMAGE_MODEL_PRIMARY", "IMAGE_MODEL_FALLBACK", "IMAGE_MODEL_FALLBACK2",
			"BLOG_OUTPUT_DIR", "HTTP_TIMEOUT", "IMAGE_RATE_LIMIT_DELAY",
			"IMAGE_RETRY_COUNT", "IMAGE_CONCURRENCY",
		)

		cfg := LoadConfig()

		if cfg.PrimaryModel != generator.DefaultPrimaryModel {
			t.Errorf("PrimaryModel = %q, want %q", cfg.PrimaryModel, generator.DefaultPrimaryModel)
		}
		if cfg.FallbackModel != generator.DefaultFallbackModel {
			t.Errorf("FallbackModel = %q, want %q", cfg.FallbackModel, generator.DefaultFallbackModel)
		}
		if cfg.HTTPTimeout != DefaultHTTPTimeout {
			t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, DefaultHTTPTimeout)
		}
		if cfg.RetryCount != generator.DefaultRetryCount {
			t.Errorf("RetryCount = %d, want %d", cfg.RetryCount, generator.DefaultRetryCount)
		}
		if cfg.ConcurrentLimit != DefaultConcurrentLimit {
			t.Errorf("ConcurrentLimit = %d, want %d", cfg.ConcurrentLimit, DefaultConcurrentLimit)
		}
		if cfg.OutputBaseDir != DefaultOutputBaseDir {
			t.Errorf("OutputBaseDir = %q, want %q", cfg.OutputBaseDir, DefaultOutputBaseDir)
		}
	})

	t.Run("環境変数が設定を上書きするのだ", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")
		t.Setenv("IMAGE_MODEL_PRIMARY", "custom-model")
		t.Setenv("BLOG_OUTPUT_DIR", "/tmp/blog")
		t.Setenv("HTTP_TIMEOUT", "45s")
		t.Setenv("IMAGE_RATE_LIMIT_DELAY", "10s")
		t.Setenv("IMAGE_RETRY_COUNT", "5")
		t.Setenv("IMAGE_CONCURRENCY", "4")

		cfg := LoadConfig()

		if cfg.GeminiAPIKey != "test-key" {
			t.Errorf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "test-key")
		}
		if cfg.PrimaryModel != "custom-model" {
			t.Errorf("PrimaryModel = %q, want %q", cfg.PrimaryModel, "custom-model")
		}
		if cfg.OutputBaseDir != "/tmp/blog" {
			t.Errorf("OutputBaseDir = %q, want %q", cfg.OutputBaseDir, "/tmp/blog")
		}
		if cfg.HTTPTimeout != 45*time.Second {
			t.Errorf("HTTPTimeout = %v, want 45s", cfg.HTTPTimeout)
		}
		if cfg.RateLimitDelay != 10*time.Second {
			t.Errorf("RateLimitDelay = %v, want 10s", cfg.RateLimitDelay)
		}
		if cfg.RetryCount != 5 {
			t.Errorf("RetryCount = %d, want 5", cfg.RetryCount)
		}
		if cfg.ConcurrentLimit != 4 {
			t.Errorf("ConcurrentLimit = %d, want 4", cfg.ConcurrentLimit)
		}
	})

	t.Run("GEMINI_API_KEYが無ければGOOGLE_API_KEYで代用するのだ", func(t *testing.T) {
		unsetenv(t, "GEMINI_API_KEY")
		t.Setenv("GOOGLE_API_KEY", "legacy-key")

		cfg := LoadConfig()
		if cfg.GeminiAPIKey != "legacy-key" {
			t.Errorf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "legacy-key")
		}
	})

	t.Run("壊れた数値・期間はデフォルトへ落ちるのだ", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "そのうち")
		t.Setenv("IMAGE_RETRY_COUNT", "many")

		cfg := LoadConfig()
		if cfg.HTTPTimeout != DefaultHTTPTimeout {
			t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, DefaultHTTPTimeout)
		}
		if cfg.RetryCount != generator.DefaultRetryCount {
			t.Errorf("RetryCount = %d, want %d", cfg.RetryCount, generator.DefaultRetryCount)
		}
	})
}
