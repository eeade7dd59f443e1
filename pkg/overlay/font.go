package overlay

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-utils/envutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// フォントパスを上書きする環境変数なのだ。BLOG_FONT_PATH が優先される。
const (
	EnvFontPath       = "BLOG_FONT_PATH"
	EnvFontPathLegacy = "FONT_PATH"
)

// fontCandidates は韓国語グリフを持つ既知のシステムフォントの探索順です。
// 先頭から順に存在確認とパースを試し、最初に読めたものを使います。
var fontCandidates = []string{
	// macOS
	"/System/Library/Fonts/AppleSDGothicNeo.ttc",
	"/System/Library/Fonts/Supplemental/AppleGothic.ttf",
	"/System/Library/Fonts/Supplemental/AppleMyungjo.ttf",
	"/Library/Fonts/AppleGothic.ttf",
	"/Library/Fonts/NanumGothic.ttf",
	"/Library/Fonts/NanumGothicBold.ttf",
	// Linux
	"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
	"/usr/share/fonts/truetype/nanum/NanumGothicBold.ttf",
}

// loadFont はフォントファイルをパースしてキャッシュします。
// パース済み *truetype.Font は不変なので goroutine 間で共有できるのだ。
// Face はスレッドセーフではないため、呼び出しごとに newFace で作り直す。
func (p *Processor) loadFont(path string) (*truetype.Font, error) {
	if cached, found := p.fontCache.Get(path); found {
		return cached.(*truetype.Font), nil
	}

	v, err, _ := p.fontGroup.Do(path, func() (interface{}, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("フォントファイルを読み込めなかったのだ: %w", err)
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("フォントをパースできなかったのだ: %w", err)
		}
		p.fontCache.Set(path, f, cache.NoExpiration)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*truetype.Font), nil
}

// face は指定サイズの描画用 Face を返します。
// 明示パス → 環境変数 → 候補リストの順で解決し、どれも読めなければ
// 内蔵ビットマップフォントに落ちる（韓国語グリフは出ない既知の制限なのだ）。
func (p *Processor) face(size int) font.Face {
	if size <= 0 {
		size = 1
	}

	for _, path := range p.fontSearchPaths() {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		f, err := p.loadFont(path)
		if err != nil {
			continue
		}
		return truetype.NewFace(f, &truetype.Options{
			Size: float64(size),
			DPI:  72,
		})
	}

	return basicfont.Face7x13
}

// fontSearchPaths は優先順位つきの探索パスを組み立てます。
func (p *Processor) fontSearchPaths() []string {
	paths := make([]string, 0, len(fontCandidates)+3)
	paths = append(paths, p.fontPath)
	paths = append(paths, envutil.GetEnv(EnvFontPath, ""))
	paths = append(paths, envutil.GetEnv(EnvFontPathLegacy, ""))
	paths = append(paths, fontCandidates...)
	return paths
}
