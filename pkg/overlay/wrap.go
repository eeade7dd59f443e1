package overlay

import (
	"strings"

	"golang.org/x/image/font"
)

// wrapBudgetRatio はキャンバス幅に対する折り返し予算の割合なのだ。
const wrapBudgetRatio = 0.86

// lineWidth は文字列の描画幅（ピクセル）を測ります。
func lineWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// lineHeight は1行分の高さ（アセント＋ディセント）を返します。
func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// lineSpacing は行間を返します。フォントサイズの18%で、最低6ピクセルなのだ。
func lineSpacing(fontSize int) int {
	spacing := int(float64(fontSize) * 0.18)
	if spacing < 6 {
		return 6
	}
	return spacing
}

// WrapText はテキストを折り返して行の列にします。
//   - 明示的な改行があればそのまま分割する（空白だけの行は落とす）
//   - 空白を含むなら単語単位の貪欲折り返し
//   - 含まないなら文字単位の貪欲折り返し（韓国語は空白で区切れないことがある）
//
// どの経路でも空行は作らない。予算を超える1単語もその行に置いたままにするのだ。
func WrapText(face font.Face, text string, maxWidth int) []string {
	if text == "" {
		return nil
	}

	if strings.Contains(text, "\n") {
		var lines []string
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		return lines
	}

	if strings.Contains(text, " ") {
		return wrapByWords(face, text, maxWidth)
	}
	return wrapByRunes(face, text, maxWidth)
}

// wrapByWords は単語を空白で連結しながら予算内に収まる限り同じ行へ詰めます。
func wrapByWords(face font.Face, text string, maxWidth int) []string {
	var lines []string
	var current string

	for _, word := range strings.Split(text, " ") {
		if word == "" {
			continue
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if lineWidth(face, candidate) <= maxWidth || current == "" {
			current = candidate
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// wrapByRunes は1文字ずつ足しながら折り返します。
func wrapByRunes(face font.Face, text string, maxWidth int) []string {
	var lines []string
	var current string

	for _, r := range text {
		candidate := current + string(r)
		if lineWidth(face, candidate) <= maxWidth || current == "" {
			current = candidate
		} else {
			lines = append(lines, current)
			current = string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
