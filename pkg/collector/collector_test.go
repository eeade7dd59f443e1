package collector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// fakeDoer は受け取ったリクエストを記録する偽HTTPクライアントなのだ。
type fakeDoer struct {
	mu      sync.Mutex
	reqs    []*http.Request
	respond func(req *http.Request) (*http.Response, error)
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeDoer) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func (f *fakeDoer) recordedRequests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.reqs...)
}

func okResponse(body []byte) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func statusResponse(code int) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}
}

// imageBody は指定バイト数のダミー画像データを作るのだ。
func imageBody(n int) []byte {
	body := make([]byte, n)
	for i := range body {
		body[i] = byte(i % 251)
	}
	return body
}

func newTestCollector(t *testing.T, doer Doer) *Collector {
	t.Helper()
	c, err := NewCollector(doer, Config{
		DownloadInterval: time.Millisecond,
		CacheTTL:         time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCollector() error = %v", err)
	}
	return c
}

func TestNewCollector(t *testing.T) {
	t.Run("クライアントなしは拒否する", func(t *testing.T) {
		if _, err := NewCollector(nil, DefaultConfig()); err == nil {
			t.Fatal("nil クライアントでエラーが返らなかった")
		}
	})

	t.Run("ゼロ値の設定はデフォルトで埋まる", func(t *testing.T) {
		c, err := NewCollector(&fakeDoer{}, Config{})
		if err != nil {
			t.Fatalf("NewCollector() error = %v", err)
		}
		if c.cfg.UserAgent != DefaultUserAgent {
			t.Errorf("UserAgent = %q, want %q", c.cfg.UserAgent, DefaultUserAgent)
		}
		if c.cfg.DownloadInterval != DefaultDownloadInterval {
			t.Errorf("DownloadInterval = %v, want %v", c.cfg.DownloadInterval, DefaultDownloadInterval)
		}
		if c.cfg.CacheTTL != DefaultCacheTTL {
			t.Errorf("CacheTTL = %v, want %v", c.cfg.CacheTTL, DefaultCacheTTL)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("ブラウザ相当のヘッダを付けて保存する", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return okResponse(imageBody(200)), nil
		}}
		c := newTestCollector(t, doer)

		dst := filepath.Join(t.TempDir(), "refs", "01.jpg")
		if err := c.DownloadImage(ctx, "https://example.com/a.jpg", dst); err != nil {
			t.Fatalf("DownloadImage() error = %v", err)
		}

		data, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("保存ファイルを読めなかった: %v", err)
		}
		if len(data) != 200 {
			t.Errorf("保存サイズ = %d, want 200", len(data))
		}

		reqs := doer.recordedRequests()
		if len(reqs) != 1 {
			t.Fatalf("リクエスト数 = %d, want 1", len(reqs))
		}
		if got := reqs[0].Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
		}
		if got := reqs[0].Header.Get("Accept"); got != "image/*" {
			t.Errorf("Accept = %q, want image/*", got)
		}
	})

	t.Run("100バイト未満の応答は棄却する", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return okResponse(imageBody(99)), nil
		}}
		c := newTestCollector(t, doer)

		dst := filepath.Join(t.TempDir(), "01.jpg")
		err := c.DownloadImage(ctx, "https://example.com/tiny.jpg", dst)
		if err == nil {
			t.Fatal("小さすぎる応答がエラーにならなかった")
		}
		if !strings.Contains(err.Error(), "小さすぎる") {
			t.Errorf("エラー文言 = %q", err)
		}
		if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
			t.Error("棄却した画像のファイルが残っている")
		}
	})

	t.Run("異常ステータスはエラーになる", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return statusResponse(http.StatusNotFound), nil
		}}
		c := newTestCollector(t, doer)

		err := c.DownloadImage(ctx, "https://example.com/gone.jpg", filepath.Join(t.TempDir(), "x.jpg"))
		if err == nil {
			t.Fatal("404 がエラーにならなかった")
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("エラー文言にステータスが含まれない: %q", err)
		}
	})

	t.Run("通信エラーは包んで返す", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		}}
		c := newTestCollector(t, doer)

		err := c.DownloadImage(ctx, "https://example.com/a.jpg", filepath.Join(t.TempDir(), "x.jpg"))
		if err == nil {
			t.Fatal("通信エラーが伝播しなかった")
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("元のエラーが失われている: %q", err)
		}
	})

	t.Run("同じURLは2回目以降キャッシュから返す", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return okResponse(imageBody(150)), nil
		}}
		c := newTestCollector(t, doer)
		dir := t.TempDir()

		if err := c.DownloadImage(ctx, "https://example.com/same.jpg", filepath.Join(dir, "first.jpg")); err != nil {
			t.Fatalf("1回目 error = %v", err)
		}
		if err := c.DownloadImage(ctx, "https://example.com/same.jpg", filepath.Join(dir, "second.jpg")); err != nil {
			t.Fatalf("2回目 error = %v", err)
		}

		if got := doer.requestCount(); got != 1 {
			t.Errorf("HTTPリクエスト数 = %d, want 1 (キャッシュが効いていない)", got)
		}
		for _, name := range []string{"first.jpg", "second.jpg"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("%s が保存されていない: %v", name, err)
			}
		}
	})
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("参照項目だけを巡回して保存する", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return okResponse(imageBody(300)), nil
		}}
		c := newTestCollector(t, doer)
		outputDir := t.TempDir()

		items := domain.GuideItems{
			{Index: 1, Role: "뉴스", Mode: domain.ModeReference, KoreanDescription: "금리 비교표", ReferenceURL: "https://example.com/rates.png"},
			{Index: 2, Role: "본문1", Mode: domain.ModeAiGenerate, Prompt: "a clean chart"},
			{Index: 3, Mode: domain.ModeReference, ReferenceURL: "https://cdn.example.com/photo"},
		}

		result, err := c.Collect(ctx, items, outputDir)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		if result.Total != 2 || result.Success != 2 || result.Failed != 0 {
			t.Fatalf("集計 = %+v, want Total=2 Success=2 Failed=0", result)
		}
		if got := doer.requestCount(); got != 2 {
			t.Errorf("HTTPリクエスト数 = %d, want 2", got)
		}

		wantFiles := []string{"01_뉴스_금리비교표.png", "02_검색_이미지2.jpg"}
		for i, want := range wantFiles {
			if result.Images[i].Filename != want {
				t.Errorf("Images[%d].Filename = %q, want %q", i, result.Images[i].Filename, want)
			}
			if !result.Images[i].Downloaded {
				t.Errorf("Images[%d] がダウンロード済みになっていない", i)
			}
			if _, err := os.Stat(filepath.Join(outputDir, "images", want)); err != nil {
				t.Errorf("%s が保存されていない: %v", want, err)
			}
		}
	})

	t.Run("失敗しても残りの項目を続行する", func(t *testing.T) {
		doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
			if strings.HasSuffix(req.URL.Path, "dead.jpg") {
				return statusResponse(http.StatusInternalServerError), nil
			}
			return okResponse(imageBody(300)), nil
		}}
		c := newTestCollector(t, doer)

		items := domain.GuideItems{
			{Index: 1, Role: "뉴스", Mode: domain.ModeReference, KoreanDescription: "죽은 링크", ReferenceURL: "https://example.com/dead.jpg"},
			{Index: 2, Role: "블로그", Mode: domain.ModeReference, KoreanDescription: "살아있는 링크", ReferenceURL: "https://example.com/alive.jpg"},
		}

		result, err := c.Collect(ctx, items, t.TempDir())
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		if result.Success != 1 || result.Failed != 1 {
			t.Fatalf("集計 = %+v, want Success=1 Failed=1", result)
		}
		if result.Images[0].Downloaded || result.Images[0].Error == "" {
			t.Errorf("失敗項目の記録が不正: %+v", result.Images[0])
		}
		if !result.Images[1].Downloaded {
			t.Errorf("後続の項目が処理されていない: %+v", result.Images[1])
		}
	})

	t.Run("不正なURLはダウンロードせずに記録する", func(t *testing.T) {
		doer := &fakeDoer{respond: func(*http.Request) (*http.Response, error) {
			return okResponse(imageBody(300)), nil
		}}
		c := newTestCollector(t, doer)

		items := domain.GuideItems{
			{Index: 1, Role: "뉴스", Mode: domain.ModeReference, KoreanDescription: "의심 링크", ReferenceURL: "ftp://example.com/a.jpg"},
		}

		result, err := c.Collect(ctx, items, t.TempDir())
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		if doer.requestCount() != 0 {
			t.Error("不正なURLに対してHTTPリクエストが飛んだ")
		}
		if result.Failed != 1 || result.Images[0].Error == "" {
			t.Errorf("棄却の記録が不正: %+v", result)
		}
	})

	t.Run("出力ディレクトリを作れなければエラー", func(t *testing.T) {
		c := newTestCollector(t, &fakeDoer{})

		blocker := filepath.Join(t.TempDir(), "occupied")
		if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
			t.Fatalf("前提ファイルの作成に失敗: %v", err)
		}

		if _, err := c.Collect(ctx, domain.GuideItems{}, blocker); err == nil {
			t.Fatal("ディレクトリ作成の失敗がエラーにならなかった")
		}
	})
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"画像拡張子つきのhttpsは許可", "https://example.com/photo.jpg", true},
		{"httpも許可", "http://example.com/a.png", true},
		{"拡張子のないCDN配信は許可", "https://cdn.example.com/v1/render", true},
		{"パスに点があっても画像拡張子なら許可", "https://example.com/v1.2/img.webp", true},
		{"bmpは許可", "https://example.com/scan.bmp", true},
		{"大文字の拡張子も許可", "https://example.com/A.PNG", true},
		{"画像以外の拡張子は拒否", "https://example.com/page.html", false},
		{"点つきパスで拡張子なしは拒否", "https://example.com/v1.2/render", false},
		{"ftpスキームは拒否", "ftp://example.com/a.jpg", false},
		{"ホストなしは拒否", "https:///a.jpg", false},
		{"空文字は拒否", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateImageURL(tt.url); got != tt.want {
				t.Errorf("ValidateImageURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtensionFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"クエリを除いてから判定する", "https://example.com/a.png?width=1200", "png"},
		{"jpegはそのまま残る", "https://example.com/b.JPEG", "jpeg"},
		{"webpを推定する", "https://example.com/c.webp", "webp"},
		{"未知の拡張子はjpgに倒す", "https://example.com/file.bin", "jpg"},
		{"拡張子なしはjpg", "https://cdn.example.com/render", "jpg"},
		{"クエリ内の拡張子には釣られない", "https://example.com/img?f=.png", "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtensionFromURL(tt.url); got != tt.want {
				t.Errorf("ExtensionFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestBuildImageFilename(t *testing.T) {
	t.Run("説明文は空白除去ののち20ルーンで切る", func(t *testing.T) {
		long := strings.Repeat("가", 25)
		got := buildImageFilename(7, "뉴스", long, "jpg")
		want := "07_뉴스_" + strings.Repeat("가", 20) + ".jpg"
		if got != want {
			t.Errorf("buildImageFilename() = %q, want %q", got, want)
		}
	})

	t.Run("空白は詰めてから連結する", func(t *testing.T) {
		got := buildImageFilename(1, "뉴스", "금리 비교표", "png")
		if got != "01_뉴스_금리비교표.png" {
			t.Errorf("buildImageFilename() = %q", got)
		}
	})
}
