package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/prompt"
)

// デフォルト値の定義なのだ
const (
	// DefaultUserAgent は画像ホストに拒否されにくいブラウザ相当のUAなのだ。
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	// DefaultDownloadInterval は同一ホストを連打しないための待機間隔なのだ。
	DefaultDownloadInterval = 500 * time.Millisecond
	// DefaultCacheTTL はダウンロード済みバイト列をメモリに保持する期間なのだ。
	DefaultCacheTTL = 1 * time.Hour

	// minImageBytes はこれ未満をエラーページ等とみなして棄却する閾値なのだ。
	minImageBytes = 100

	// imagesSubdir は出力ディレクトリ配下の画像置き場なのだ。
	imagesSubdir = "images"

	// descFilenameRunes は保存名に使う説明文の最大ルーン数なのだ。
	descFilenameRunes = 20
)

var (
	// sniffExtensions はURL末尾から拡張子を推定する際の候補なのだ。
	sniffExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

	// validExtensions は検証で画像として許容する拡張子なのだ。
	// 推定候補より広く、.bmp も受け入れる。
	validExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp"}
)

// Doer はHTTPリクエストを実行する最小のクライアント面なのだ。
// *http.Client がそのまま満たし、テストでは偽装クライアントを差し込める。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config は収集器の調整点をまとめた設定なのだ。ゼロ値はデフォルトに倒れる。
type Config struct {
	UserAgent        string
	DownloadInterval time.Duration
	CacheTTL         time.Duration
}

// DefaultConfig は既定の収集設定を返すのだ。
func DefaultConfig() Config {
	return Config{
		UserAgent:        DefaultUserAgent,
		DownloadInterval: DefaultDownloadInterval,
		CacheTTL:         DefaultCacheTTL,
	}
}

// ImageInfo は参照画像1件分の収集記録なのだ。
type ImageInfo struct {
	URL         string `json:"url"`
	SourceName  string `json:"source_name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	LocalPath   string `json:"local_path,omitempty"`
	Downloaded  bool   `json:"downloaded"`
	Error       string `json:"error,omitempty"`
}

// CollectionResult は参照画像収集の集計なのだ。Images は巡回順を保持する。
type CollectionResult struct {
	Total   int         `json:"total"`
	Success int         `json:"success"`
	Failed  int         `json:"failed"`
	Images  []ImageInfo `json:"images"`
}

// Summary は人間向けの集計1行を返すのだ。
func (r CollectionResult) Summary() string {
	return fmt.Sprintf("📷 Reference collection result: %d/%d downloaded, %d failed",
		r.Success, r.Total, r.Failed)
}

// Collector は参照画像をダウンロードしてローカルに揃える収集器なのだ。
// 同一URLはメモリキャッシュで再取得を避け、連続アクセスは流量制限で間隔を空ける。
type Collector struct {
	client   Doer
	imgCache *cache.Cache
	limiter  *rate.Limiter
	cfg      Config
}

// NewCollector は収集器を組み立てるのだ。client が nil の場合はエラーを返す。
func NewCollector(client Doer, cfg Config) (*Collector, error) {
	if client == nil {
		return nil, fmt.Errorf("HTTPクライアントは必須です")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.DownloadInterval <= 0 {
		cfg.DownloadInterval = DefaultDownloadInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	// 参照画像のダウンロード結果を保持するキャッシュ
	imgCache := cache.New(30*time.Minute, 1*time.Hour)

	// Burst 2 により、開始直後は2件まで待ちなしでリクエストできるのだ
	limiter := rate.NewLimiter(rate.Every(cfg.DownloadInterval), 2)

	return &Collector{
		client:   client,
		imgCache: imgCache,
		limiter:  limiter,
		cfg:      cfg,
	}, nil
}

// Collect はモードA(参照画像)の項目を文書順に巡回してダウンロードするのだ。
// 個々の失敗は記録に残すだけで巡回は続行し、出力ディレクトリを作れない
// 場合だけエラーを返す。
func (c *Collector) Collect(ctx context.Context, items domain.GuideItems, outputDir string) (CollectionResult, error) {
	refs := items.References()
	imagesDir := filepath.Join(outputDir, imagesSubdir)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return CollectionResult{}, fmt.Errorf("画像ディレクトリの作成に失敗したのだ: %w", err)
	}

	slog.Info("参照画像の収集を開始するのだ", "count", len(refs), "dir", imagesDir)

	result := CollectionResult{
		Total:  len(refs),
		Images: make([]ImageInfo, 0, len(refs)),
	}

	for i, item := range refs {
		position := i + 1

		desc := strings.TrimSpace(item.KoreanDescription)
		if desc == "" {
			desc = fmt.Sprintf("이미지%d", position)
		}
		source := strings.TrimSpace(item.Role)
		if source == "" {
			source = "검색"
		}

		filename := buildImageFilename(position, source, desc, ExtensionFromURL(item.ReferenceURL))
		savePath := filepath.Join(imagesDir, filename)

		info := ImageInfo{
			URL:         item.ReferenceURL,
			SourceName:  source,
			Description: desc,
			Filename:    filename,
		}

		if !ValidateImageURL(item.ReferenceURL) {
			info.Error = "画像URLとして不正なのだ"
			result.Failed++
			result.Images = append(result.Images, info)
			slog.Warn("参照画像のURLを棄却したのだ", "index", item.Index, "url", item.ReferenceURL)
			continue
		}

		if err := c.DownloadImage(ctx, item.ReferenceURL, savePath); err != nil {
			info.Error = err.Error()
			result.Failed++
			slog.Warn("参照画像のダウンロードに失敗したのだ", "url", item.ReferenceURL, "error", err)
		} else {
			info.Downloaded = true
			info.LocalPath = savePath
			result.Success++
			slog.Info("参照画像を保存したのだ", "file", filename)
		}
		result.Images = append(result.Images, info)
	}

	slog.Info(result.Summary())
	return result, nil
}

// DownloadImage は画像を1枚取得して savePath に保存するのだ。
// 100バイト未満の応答は画像ではないとみなして棄却する。
func (c *Collector) DownloadImage(ctx context.Context, rawURL, savePath string) error {
	data, err := c.fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return fmt.Errorf("保存先ディレクトリを作成できなかったのだ: %w", err)
	}
	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		return fmt.Errorf("画像の書き込みに失敗したのだ: %w", err)
	}
	return nil
}

// fetch はキャッシュ優先で画像バイト列を取得するのだ。
func (c *Collector) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if cached, found := c.imgCache.Get(rawURL); found {
		if data, ok := cached.([]byte); ok {
			slog.Debug("キャッシュから参照画像を返すのだ", "url", rawURL)
			return data, nil
		}
	}

	// 相手ホストに負荷をかけないよう、自分の番が来るまで待機するのだ
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの組み立てに失敗したのだ: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("画像の取得に失敗したのだ: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("画像ホストが異常ステータスを返したのだ: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗したのだ: %w", err)
	}
	if len(data) < minImageBytes {
		return nil, fmt.Errorf("画像データが小さすぎるのだ: %dバイト (最低 %dバイト)", len(data), minImageBytes)
	}

	c.imgCache.Set(rawURL, data, c.cfg.CacheTTL)
	return data, nil
}

// ValidateImageURL は参照画像URLとして受理できるかを検査するのだ。
// 拡張子のないURL(CDN配信など)は許容し、拡張子がある場合だけ画像系に限定する。
func ValidateImageURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}

	if !strings.Contains(parsed.Path, ".") {
		return true
	}
	lowered := strings.ToLower(parsed.Path)
	for _, ext := range validExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

// ExtensionFromURL はURLから保存用の拡張子(ドットなし)を推定するのだ。
// クエリ文字列を除いた末尾を調べ、未知の場合は jpg に倒す。
func ExtensionFromURL(rawURL string) string {
	cleaned := rawURL
	if i := strings.Index(cleaned, "?"); i >= 0 {
		cleaned = cleaned[:i]
	}
	lowered := strings.ToLower(cleaned)
	for _, ext := range sniffExtensions {
		if strings.HasSuffix(lowered, ext) {
			return strings.TrimPrefix(ext, ".")
		}
	}
	return "jpg"
}

// buildImageFilename は "01_뉴스_금리비교표.jpg" 形式の保存名を組み立てるのだ。
// 説明文は空白を除いた上で20ルーンに正規化する。
func buildImageFilename(position int, source, desc, ext string) string {
	desc = strings.ReplaceAll(desc, " ", "")
	desc = prompt.NormalizeFilename(desc, descFilenameRunes)
	return fmt.Sprintf("%02d_%s_%s.%s", position, source, desc, ext)
}
