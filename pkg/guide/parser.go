package guide

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// Parser は画像ガイドのMarkdownを解析するためのインターフェースなのだ。
type Parser interface {
	// Parse はガイド文書を受け取り、文書順の GuideItem 列を返すのだ。
	// 解析はブロック単位のベストエフォートで、不正なブロックは黙って読み飛ばす。
	Parse(input string) domain.GuideItems
}

// MarkdownParser は2つの方言（見出し形式・罫線区切りレガシー形式）を解析する構造体です。
// 方言は文書ごとに1つへ確定し、混在はしません。
type MarkdownParser struct {
}

// NewMarkdownParser は MarkdownParser を初期化するのだ。
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// Parse は "## [Image N]" 見出しが1つでもあれば見出し方言、
// なければ ━ 罫線区切りのレガシー方言として文書全体を解析します。
func (p *MarkdownParser) Parse(input string) domain.GuideItems {
	if HeadingProbeRegex.MatchString(input) {
		return p.parseHeadingFormat(input)
	}
	return p.parseLegacyBlocks(input)
}

// Parse は既定のパーサーで解析する便利関数なのだ。
func Parse(input string) domain.GuideItems {
	return NewMarkdownParser().Parse(input)
}

// parseHeadingFormat は "## [Image N] 役割" 見出しでセクションを切り出して解析します。
func (p *MarkdownParser) parseHeadingFormat(content string) domain.GuideItems {
	var items domain.GuideItems

	matches := HeadingRegex.FindAllStringSubmatchIndex(content, -1)
	for i, m := range matches {
		index, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			// 桁あふれ等で番号が読めないブロックは読み飛ばす
			slog.Debug("画像番号を解釈できなかったのでセクションを読み飛ばします", "raw", content[m[2]:m[3]])
			continue
		}
		role := strings.TrimSpace(content[m[4]:m[5]])

		start := m[1]
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		section := content[start:end]

		items = append(items, p.parseHeadingSection(index, role, section))
	}

	return items
}

// parseHeadingSection は1セクション分のモード判定とラベル付きブロックの抽出を行います。
func (p *MarkdownParser) parseHeadingSection(index int, role string, section string) domain.GuideItem {
	mode := detectHeadingMode(section)

	item := domain.GuideItem{
		Index: index,
		Role:  role,
		Mode:  mode,
	}

	if m := KoreanDescRegex.FindStringSubmatch(section); m != nil {
		item.KoreanDescription = strings.TrimSpace(m[1])
	}
	if m := PromptFenceRegex.FindStringSubmatch(section); m != nil {
		item.Prompt = strings.TrimSpace(m[1])
	}
	if m := StyleBlockRegex.FindStringSubmatch(section); m != nil {
		item.StyleGuide = parseStyleBullets(m[1])
	}

	item.TextOverlay = ParseOverlayDirective(section)

	// "AI Generation (Background Only)" 表記もこの部分一致で拾えるのだ。
	// main_text 指示があるときだけ B-2（背景のみ生成＋テキスト合成）へ昇格する。
	if item.Mode == domain.ModeAiGenerate && item.TextOverlay != nil &&
		strings.Contains(section, "Background Only") {
		item.Mode = domain.ModeAiGenerateWithOverlay
	}

	if item.Mode == domain.ModeReference {
		item.ReferenceURL = firstImageURL(section)
	}

	return item
}

// detectHeadingMode はマーカーの優先順位 (AI → SVG → 参照 → 既定AI) でモードを決めます。
func detectHeadingMode(section string) domain.Mode {
	switch {
	case strings.Contains(section, "🎨") || AiMarkerRegex.MatchString(section):
		return domain.ModeAiGenerate
	case strings.Contains(section, "🔷") || SvgMarkerRegex.MatchString(section):
		return domain.ModeSvgGenerate
	case strings.Contains(section, "📷") || RefMarkerRegex.MatchString(section):
		return domain.ModeReference
	default:
		return domain.ModeAiGenerate
	}
}

// parseStyleBullets は "- key: value" 形式の箇条書きをスタイルガイドに変換します。
// 箇条書きでない行とコロンを含まない行は読み飛ばします。
func parseStyleBullets(text string) domain.StyleGuide {
	var sg domain.StyleGuide
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-"))

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			sg = append(sg, domain.StylePair{Key: key, Value: value})
		}
	}
	return sg
}

// firstImageURL はセクション中で最初に現れたURLを返します。見つからなければ空文字です。
func firstImageURL(section string) string {
	return ImageURLRegex.FindString(section)
}
