package guide

import (
	"strconv"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// ParseOverlayDirective はセクション中の `key: "value"` ミニ構文を TextStyle に変換します。
// main_text が見つからない場合は指示全体を無視して nil を返すのだ。
// それ以外のキーはベストエフォートで、読めなければ既定値のままにする。
func ParseOverlayDirective(section string) *domain.TextStyle {
	m := OverlayMainTextRegex.FindStringSubmatch(section)
	if m == nil {
		return nil
	}

	style := domain.NewTextStyle()
	style.MainText = m[1]

	if m := OverlaySubTextRegex.FindStringSubmatch(section); m != nil {
		style.SubText = m[1]
	}
	if m := OverlayPositionRegex.FindStringSubmatch(section); m != nil {
		style.Position = m[1]
	}
	if m := OverlayFontSizeRegex.FindStringSubmatch(section); m != nil {
		if size, err := strconv.Atoi(m[1]); err == nil && size > 0 {
			style.FontSize = size
		}
	}
	if m := OverlayFontColorRegex.FindStringSubmatch(section); m != nil {
		style.FontColor = m[1]
	}
	if m := OverlayShadowRegex.FindStringSubmatch(section); m != nil {
		style.Shadow = strings.EqualFold(m[1], "true")
	}
	if m := OverlayBoxRegex.FindStringSubmatch(section); m != nil {
		style.BackgroundBox = strings.EqualFold(m[1], "true")
	}
	if m := OverlayBoxColorRegex.FindStringSubmatch(section); m != nil {
		style.BackgroundBoxColor = m[1]
	}

	return &style
}
