package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// fillRect は矩形を単色で塗りつぶします（合成せず上書きする）。
func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// fillRoundedRect は角丸矩形を塗りつぶします。
// 半径が0以下、または矩形に収まらない場合は角の丸めをあきらめて
// ただの矩形として塗るのだ。
func fillRoundedRect(dst *image.RGBA, r image.Rectangle, radius int, c color.Color) {
	shorter := r.Dx()
	if r.Dy() < shorter {
		shorter = r.Dy()
	}
	if radius <= 0 || radius*2 > shorter {
		fillRect(dst, r, c)
		return
	}

	// 中央の十字部分は矩形2枚で塗る
	fillRect(dst, image.Rect(r.Min.X+radius, r.Min.Y, r.Max.X-radius, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y+radius, r.Min.X+radius, r.Max.Y-radius), c)
	fillRect(dst, image.Rect(r.Max.X-radius, r.Min.Y+radius, r.Max.X, r.Max.Y-radius), c)

	// 四隅は円の内側だけ塗る
	fillCorner(dst, r.Min.X+radius-1, r.Min.Y+radius-1, radius, c, -1, -1)
	fillCorner(dst, r.Max.X-radius, r.Min.Y+radius-1, radius, c, 1, -1)
	fillCorner(dst, r.Min.X+radius-1, r.Max.Y-radius, radius, c, -1, 1)
	fillCorner(dst, r.Max.X-radius, r.Max.Y-radius, radius, c, 1, 1)
}

// fillCorner は (cx, cy) を中心とする四分円を (dirX, dirY) 方向へ塗ります。
func fillCorner(dst *image.RGBA, cx, cy, radius int, c color.Color, dirX, dirY int) {
	bounds := dst.Bounds()
	for dy := 0; dy < radius; dy++ {
		for dx := 0; dx < radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x := cx + dx*dirX
			y := cy + dy*dirY
			if (image.Point{X: x, Y: y}).In(bounds) {
				dst.Set(x, y, c)
			}
		}
	}
}

// drawTextLine は (x, y) を行の左上として1行描画します。
// font.Drawer はベースライン基準なので、アセント分だけ下げて打つのだ。
func drawTextLine(dst *image.RGBA, face font.Face, text string, x, y int, c color.Color) {
	ascent := face.Metrics().Ascent.Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(text)
}
