package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

const (
	// ReportFilename は生成レポートの既定ファイル名なのだ。
	ReportFilename = "image_report.md"
	// DefaultReportTitle はレポート見出しの既定値なのだ。
	DefaultReportTitle = "이미지 생성 리포트"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string // レポートの出力先ディレクトリ
	Title     string // レポート見出し(空なら既定値)
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	ReportPath string   // 生成された image_report.md のパス
	HTMLPath   string   // 生成された HTML のパス
	ImagePaths []string // 実在を確認できた画像のパスリスト(提出順)
}

// Publisher は成果物の検証とレポートの永続化、フォーマット変換を担います。
type Publisher struct {
	md goldmark.Markdown
}

// NewPublisher はGFMテーブル対応のレポートパブリッシャーを返すのだ。
func NewPublisher() *Publisher {
	return &Publisher{md: newMarkdownConverter()}
}

// Publish は画像の実在確認、レポートMarkdownの構築、HTML変換を一括して実行し、
// 生成されたファイル情報を返却するのだ！
func (p *Publisher) Publish(ctx context.Context, plans domain.ImagePlans, batch domain.BatchResult, opts Options) (PublishResult, error) {
	result := PublishResult{}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if opts.OutputDir == "" {
		return result, fmt.Errorf("出力ディレクトリは必須です")
	}
	title := opts.Title
	if title == "" {
		title = DefaultReportTitle
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("出力ディレクトリの作成に失敗したのだ: %w", err)
	}

	// 1. 成功扱いの結果について実ファイルの存在を確かめる
	verified := verifyArtifacts(batch.Results)
	result.ImagePaths = make([]string, 0, len(verified))
	for i := range batch.Results {
		if path, ok := verified[i]; ok {
			result.ImagePaths = append(result.ImagePaths, path)
		}
	}

	// 2. レポートMarkdownの構築と書き出し
	content := buildReportMarkdown(title, plans, batch, verified)
	reportPath := filepath.Join(opts.OutputDir, ReportFilename)
	if err := os.WriteFile(reportPath, []byte(content), 0o644); err != nil {
		return result, fmt.Errorf("レポートの書き込みに失敗したのだ: %w", err)
	}
	result.ReportPath = reportPath

	// 3. HTML変換と保存
	html, err := p.renderHTML(title, content)
	if err != nil {
		return result, err
	}

	// Markdownの拡張子を置換してHTMLパスを生成するのだ
	htmlPath := strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".html"
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return result, fmt.Errorf("HTMLの書き込みに失敗したのだ: %w", err)
	}
	result.HTMLPath = htmlPath

	slog.Info("レポートを書き出したのだ",
		"report", reportPath, "html", htmlPath, "verified_images", len(result.ImagePaths))
	return result, nil
}
