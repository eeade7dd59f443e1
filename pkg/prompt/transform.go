package prompt

import (
	"regexp"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

var (
	// textInstructionRegexes は背景のみ生成時に除去する指示句のパターン群です。
	// 定義順に適用します。順序を変えると除去結果が変わるので注意。
	textInstructionRegexes = []*regexp.Regexp{
		// テキストオーバーレイ指示
		regexp.MustCompile(`(?i)[,\s]*(?:include|with|add)?[,\s]*(?:bold|large|big|small)?[,\s]*(?:Korean|English|Chinese)?[,\s]*text\s*overlay[:\s]*["'][^"']*["']`),
		regexp.MustCompile(`(?i)[,\s]*(?:bold|large|big)?[,\s]*["'][^"']*["'][,\s]*(?:Korean|English)?\s*text\s*overlay`),
		regexp.MustCompile(`(?i)[,\s]*text\s*overlay[:\s]*["'][^"']*["']`),
		regexp.MustCompile(`(?i)[,\s]*["'][^"']*["'][,\s]*text`),
		// テキスト関連キーワード
		regexp.MustCompile(`(?i)[,\s]*include\s+(?:bold\s+)?(?:Korean\s+)?text[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*(?:bold|large)\s+(?:Korean\s+)?text[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*Korean\s+text[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*text\s+saying[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*with\s+text[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*text\s+reading[^,.]*`),
		// タイポグラフィ指示
		regexp.MustCompile(`(?i)[,\s]*typography[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*lettering[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*title\s+text[^,.]*`),
		regexp.MustCompile(`(?i)[,\s]*headline[^,.]*`),
	}

	// RatioRegex はプロンプト中の "16:9 ratio" のような比率指定を除去します。
	// 比率はAPIパラメータで別途指定するため、本文には残しません。
	RatioRegex = regexp.MustCompile(`\d+:\d+\s*ratio`)

	// QuotedTextRegex は引用符で囲まれたテキスト片をキャプチャします。
	QuotedTextRegex = regexp.MustCompile(`["']([^"']+)["']`)

	doubleCommaRegex   = regexp.MustCompile(`,\s*,`)
	spaceRunRegex      = regexp.MustCompile(`\s+`)
	trailingCommaRegex = regexp.MustCompile(`,\s*$`)
	leadingCommaRegex  = regexp.MustCompile(`^\s*,`)
)

// positionHints は位置キーワードの優先順リストです。
// 先頭のグループから評価し、最初にキーワードが見つかったグループで確定します
// ("top" と "center" が両方ある文では center が勝つ、を固定の契約とする)。
var positionHints = []struct {
	Position string
	Keywords []string
}{
	{"center", []string{"center", "중앙", "가운데"}},
	{"top", []string{"top", "상단", "위"}},
	{"bottom", []string{"bottom", "하단", "아래"}},
	{"top-left", []string{"top-left", "좌상단"}},
	{"top-right", []string{"top-right", "우상단"}},
	{"bottom-left", []string{"bottom-left", "좌하단"}},
	{"bottom-right", []string{"bottom-right", "우하단"}},
}

// StripTextInstructions は背景のみ生成のためにテキスト描画指示を取り除きます。
// パターン適用後に連続カンマ・余分な空白・先頭末尾のカンマを掃除します。
// 冪等です: 2回適用しても結果は変わりません。
func StripTextInstructions(prompt string) string {
	result := prompt
	for _, re := range textInstructionRegexes {
		result = re.ReplaceAllString(result, "")
	}

	result = doubleCommaRegex.ReplaceAllString(result, ",")
	result = spaceRunRegex.ReplaceAllString(result, " ")
	result = trailingCommaRegex.ReplaceAllString(result, "")
	result = leadingCommaRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// ExtractTextConfig はプロンプトと韓国語説明からテキスト合成設定を推定します。
// 引用符内のテキストは韓国語説明を優先し、無ければプロンプトから拾います。
// 1つ目が MainText、2つ目が SubText になります。
func ExtractTextConfig(prompt, koreanDesc string) domain.TextStyle {
	style := domain.NewTextStyle()

	quoted := quotedRuns(koreanDesc)
	if len(quoted) == 0 {
		quoted = quotedRuns(prompt)
	}
	if len(quoted) > 0 {
		style.MainText = quoted[0]
	}
	if len(quoted) > 1 {
		style.SubText = quoted[1]
	}

	combined := strings.ToLower(prompt + " " + koreanDesc)

	for _, hint := range positionHints {
		if containsAny(combined, hint.Keywords) {
			style.Position = hint.Position
			break
		}
	}

	// サイズ判定は bold → large → small の固定順で、後の判定が前を上書きします。
	// 韓国語キーワードは説明文のみを対象にします。
	if strings.Contains(combined, "bold") || strings.Contains(koreanDesc, "굵은") {
		style.FontSize = 48
	}
	if strings.Contains(combined, "large") || strings.Contains(koreanDesc, "큰") {
		style.FontSize = 56
	}
	if strings.Contains(combined, "small") || strings.Contains(koreanDesc, "작은") {
		style.FontSize = 32
	}

	if strings.Contains(combined, "no shadow") || strings.Contains(koreanDesc, "그림자 없") {
		style.Shadow = false
	}

	return style
}

// ConvertToImagePrompt はガイド項目を生成APIに渡す最終プロンプトへ組み立てます。
// 固定順で結合します: 基本指示 → 整形済みプロンプト → スタイル文 → 品質指示。
// backgroundOnly の場合はテキスト描画指示を除去し、文字なし背景を要求します。
func ConvertToImagePrompt(item domain.GuideItem, backgroundOnly bool) string {
	var parts []string

	if backgroundOnly {
		parts = append(parts, "Create a high-quality background image for a Korean blog. No text, no letters, no typography, no words.")
	} else {
		parts = append(parts, "Create a high-quality image for a Korean blog.")
	}

	if item.Prompt != "" {
		cleaned := RatioRegex.ReplaceAllString(item.Prompt, "")
		if backgroundOnly {
			cleaned = StripTextInstructions(cleaned)
		}
		if cleaned = strings.TrimSpace(cleaned); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}

	var styleParts []string
	if color, ok := item.StyleGuide.Get("색상", "Color", "Colors"); ok && color != "" {
		styleParts = append(styleParts, "Color scheme: "+TranslateColor(color))
	}
	if mood, ok := item.StyleGuide.Get("분위기", "Mood"); ok && mood != "" {
		styleParts = append(styleParts, "Mood: "+TranslateMood(mood))
	}
	if format, ok := item.StyleGuide.Get("형식", "Format", "Style"); ok && format != "" {
		styleParts = append(styleParts, "Style: "+TranslateFormat(format))
	}
	if len(styleParts) > 0 {
		parts = append(parts, strings.Join(styleParts, " "))
	}

	if backgroundOnly {
		parts = append(parts, "High resolution, professional quality, clean background without any text or typography, suitable for text overlay later.")
	} else {
		parts = append(parts, "High resolution, professional quality, suitable for blog use.")
	}

	return strings.Join(parts, " ")
}

// AspectRatio はスタイルガイドから比率指定を取り出します(未指定なら16:9)。
func AspectRatio(sg domain.StyleGuide) string {
	if ratio, ok := sg.Get("비율", "Ratio"); ok && ratio != "" {
		return ratio
	}
	return DefaultAspectRatio
}

func quotedRuns(s string) []string {
	matches := QuotedTextRegex.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	runs := make([]string, 0, len(matches))
	for _, m := range matches {
		runs = append(runs, m[1])
	}
	return runs
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
