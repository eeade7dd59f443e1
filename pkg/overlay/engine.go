package overlay

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/jpeg" // 背景はJPGでも読めるようにするのだ

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// Processor は背景画像へテキストを合成するレイアウトエンジンです。
// 外部APIは一切呼ばない、純粋なローカルラスター処理なのだ。
// フォントキャッシュが内部で同期されるので、並行して呼んでも安全です。
type Processor struct {
	fontPath  string
	fontCache *cache.Cache
	fontGroup singleflight.Group
}

// NewProcessor は Processor を初期化します。
// fontPath が空なら環境変数と既知のシステムフォントから自動解決するのだ。
func NewProcessor(fontPath string) *Processor {
	return &Processor{
		fontPath:  fontPath,
		fontCache: cache.New(cache.NoExpiration, 0),
	}
}

// Render は背景の上へテキスト要素を重ねた新しい画像を返します。
// 要素は透明レイヤーに描いてから最後にアルファ合成するので、
// 背景そのものは変更しません。
func (p *Processor) Render(base image.Image, elements []domain.TextElement) (*image.RGBA, error) {
	if base == nil {
		return nil, fmt.Errorf("背景画像が nil なのだ")
	}

	bounds := base.Bounds()
	width := bounds.Dx()

	layer := image.NewRGBA(bounds)

	for _, elem := range elements {
		if elem.Text == "" {
			continue
		}
		p.renderElement(layer, elem, width)
	}

	final := image.NewRGBA(bounds)
	draw.Draw(final, bounds, base, bounds.Min, draw.Src)
	draw.Draw(final, bounds, layer, bounds.Min, draw.Over)
	return final, nil
}

// renderElement は1要素分の折り返し・配置・描画を行います。
func (p *Processor) renderElement(layer *image.RGBA, elem domain.TextElement, canvasWidth int) {
	face := p.face(elem.FontSize)

	maxWidth := int(float64(canvasWidth) * wrapBudgetRatio)
	lines := WrapText(face, elem.Text, maxWidth)
	if len(lines) == 0 {
		return
	}

	height := lineHeight(face)
	spacing := lineSpacing(elem.FontSize)

	blockWidth := 0
	for _, line := range lines {
		if w := lineWidth(face, line); w > blockWidth {
			blockWidth = w
		}
	}
	blockHeight := height*len(lines) + spacing*(len(lines)-1)

	var blockLeft int
	switch elem.TextAnchor {
	case "middle":
		blockLeft = elem.X - blockWidth/2
	case "end":
		blockLeft = elem.X - blockWidth
	default: // "start"
		blockLeft = elem.X
	}
	blockTop := elem.Y - blockHeight/2

	if elem.BackgroundBox {
		pad := elem.BackgroundBoxPadding
		box := image.Rect(
			blockLeft-pad,
			blockTop-pad,
			blockLeft+blockWidth+pad,
			blockTop+blockHeight+pad,
		)
		fillRoundedRect(layer, box, elem.BackgroundBoxRadius, ParseColor(elem.BackgroundBoxColor))
	}

	y := blockTop
	for _, line := range lines {
		var x int
		switch elem.TextAnchor {
		case "middle":
			x = elem.X - lineWidth(face, line)/2
		case "end":
			x = elem.X - lineWidth(face, line)
		default:
			x = elem.X
		}

		if elem.Shadow {
			drawTextLine(layer, face, line, x+elem.ShadowOffsetX, y+elem.ShadowOffsetY, ParseColor(elem.ShadowColor))
		}
		drawTextLine(layer, face, line, x, y, ParseColor(elem.Fill))

		y += height + spacing
	}
}

// ProcessFile は背景画像を読み、テキストを合成して outputPath へPNGで書き出します。
// 背景が読めない・出力先が作れない場合はエラーを返し、何も書かないのだ。
func (p *Processor) ProcessFile(backgroundPath, outputPath string, elements []domain.TextElement) error {
	base, err := decodeImageFile(backgroundPath)
	if err != nil {
		return err
	}

	final, err := p.Render(base, elements)
	if err != nil {
		return err
	}

	if err := writePNG(outputPath, final); err != nil {
		return err
	}
	slog.Debug("テキスト合成を書き出したのだ", "path", outputPath, "elements", len(elements))
	return nil
}

// AddTextToImage は既存の背景画像へ TextStyle の内容を一括で合成して書き出します。
// メイン・サブ・ウォーターマークの配置は背景の実寸から解決するのだ。
func (p *Processor) AddTextToImage(backgroundPath, outputPath string, style domain.TextStyle) error {
	base, err := decodeImageFile(backgroundPath)
	if err != nil {
		return err
	}

	bounds := base.Bounds()
	elements := ComposeElements(style, bounds.Dx(), bounds.Dy())

	final, err := p.Render(base, elements)
	if err != nil {
		return err
	}

	if err := writePNG(outputPath, final); err != nil {
		return err
	}
	slog.Debug("既存画像へのテキスト合成を書き出したのだ",
		"background", backgroundPath, "path", outputPath, "elements", len(elements))
	return nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("背景画像を開けなかったのだ: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("背景画像をデコードできなかったのだ: %w", err)
	}
	return img, nil
}

// writePNG は失敗時に書きかけのファイルを残さないのだ。
func writePNG(outputPath string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリを作成できなかったのだ: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("出力ファイルを作成できなかったのだ: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("PNGの書き出しに失敗したのだ: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("出力ファイルを閉じられなかったのだ: %w", err)
	}
	return nil
}

// ComposeElements は TextStyle からメイン・サブ・ウォーターマークの
// テキスト要素を組み立てます。キャンバス寸法に応じて配置を解決するのだ。
func ComposeElements(style domain.TextStyle, width, height int) []domain.TextElement {
	centerX := width / 2
	x := positionX(style.Position, width)

	mainAnchor := "middle"
	if strings.Contains(style.Position, "left") {
		mainAnchor = "start"
	}

	mainY := ParseYPosition(style.MainTextY, height)

	var elements []domain.TextElement

	if style.MainText != "" {
		main := domain.NewTextElement(style.MainText, x, mainY)
		main.FontSize = style.FontSize
		main.FontFamily = style.FontFamily
		main.Fill = style.FontColor
		main.TextAnchor = mainAnchor
		main.Shadow = style.Shadow
		main.ShadowColor = style.ShadowColor
		main.ShadowOffsetX = style.ShadowOffset
		main.ShadowOffsetY = style.ShadowOffset
		main.BackgroundBox = style.BackgroundBox
		main.BackgroundBoxColor = style.BackgroundBoxColor
		main.BackgroundBoxPadding = style.BackgroundBoxPadding
		main.BackgroundBoxRadius = style.EffectiveBoxRadius()
		elements = append(elements, main)
	}

	if style.SubText != "" {
		subY := 0
		if style.SubTextY != "" {
			subY = ParseYPosition(style.SubTextY, height)
		} else {
			// メインの直下へ自動配置する
			gap := int(float64(style.FontSize) * 0.8)
			if gap < 20 {
				gap = 20
			}
			subY = mainY + style.FontSize/2 + gap
		}

		sub := domain.NewTextElement(style.SubText, x, subY)
		sub.FontSize = style.EffectiveSubFontSize()
		sub.FontFamily = style.FontFamily
		sub.FontWeight = style.EffectiveSubFontWeight()
		sub.Fill = style.EffectiveSubFontColor()
		sub.TextAnchor = mainAnchor
		sub.Shadow = style.Shadow
		elements = append(elements, sub)
	}

	if style.WatermarkEnabled && style.WatermarkText != "" {
		wm := domain.NewTextElement(style.WatermarkText, centerX, height-style.WatermarkMarginBottom)
		wm.FontSize = style.WatermarkFontSize
		wm.FontFamily = style.FontFamily
		wm.FontWeight = "light"
		wm.Fill = style.WatermarkFontColor
		wm.Shadow = false
		elements = append(elements, wm)
	}

	return elements
}

// positionX は名前付きアンカーを水平座標へ解決します。未知の名前は中央です。
func positionX(position string, width int) int {
	switch position {
	case "top-left", "bottom-left":
		return width / 6
	case "top-right", "bottom-right":
		return width * 5 / 6
	default: // center / top / bottom / bottom-center
		return width / 2
	}
}

// ParseYPosition は "35%" のような割合か "310" のようなピクセル値を解釈します。
// 空や解釈できない値はキャンバスの縦中央になるのだ。
func ParseYPosition(value string, height int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return height / 2
	}

	if strings.HasSuffix(value, "%") {
		percent, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return height / 2
		}
		return int(float64(height) * percent / 100)
	}

	px, err := strconv.Atoi(value)
	if err != nil {
		return height / 2
	}
	return px
}
