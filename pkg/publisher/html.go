package publisher

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlShell は変換済み本文を包む最小のページ雛形なのだ。
// レポートはブラウザで直接開ける独立したHTML文書として書き出す。
const htmlShell = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// newMarkdownConverter はGFMテーブル拡張つきのコンバーターを組み立てるのだ。
// レポートの本体がテーブルなので、拡張なしだと素のパラグラフに潰れてしまう。
func newMarkdownConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
}

// renderHTML はレポートMarkdownをスタンドアロンのHTML文書へ変換するのだ。
func (p *Publisher) renderHTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := p.md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("HTMLの変換に失敗したのだ: %w", err)
	}
	return fmt.Sprintf(htmlShell, title, body.String()), nil
}
