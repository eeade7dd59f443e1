package guide

import (
	"strconv"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// parseLegacyBlocks は ━ の罫線でブロックを切り出して1つずつ解析します。
// ヘッダ行を解釈できないブロックは黙って読み飛ばします。
func (p *MarkdownParser) parseLegacyBlocks(content string) domain.GuideItems {
	var items domain.GuideItems

	for _, block := range LegacySeparatorRegex.Split(content, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		if item, ok := p.parseLegacyBlock(block); ok {
			items = append(items, item)
		}
	}

	return items
}

// parseLegacyBlock は1ブロックを解析します。
// 先頭行が "[이미지 N] 役割" 形式なら番号付き、"[썸네일] ..." のような
// 番号なし形式なら index 0 として扱うのだ（歴史的経緯をそのまま残している）。
func (p *MarkdownParser) parseLegacyBlock(block string) (domain.GuideItem, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")

	var item domain.GuideItem
	if m := LegacyHeaderRegex.FindStringSubmatch(lines[0]); m != nil {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return domain.GuideItem{}, false
		}
		item.Index = index
		item.Role = m[2]
	} else if m := LegacyBareHeaderRegex.FindStringSubmatch(lines[0]); m != nil {
		item.Index = 0
		item.Role = m[1] + " " + m[2]
	} else {
		return domain.GuideItem{}, false
	}

	item.Mode = detectLegacyMode(block)

	// AI生成以外のモードはここで確定する（説明・プロンプト・スタイルは抽出しない）
	if item.Mode != domain.ModeAiGenerate {
		if item.Mode == domain.ModeReference {
			item.ReferenceURL = firstImageURL(block)
		}
		return item, true
	}

	if m := LegacyDescRegex.FindStringSubmatch(block); m != nil {
		item.KoreanDescription = strings.TrimSpace(m[1])
	}
	if m := LegacyPromptRegex.FindStringSubmatch(block); m != nil {
		item.Prompt = strings.TrimSpace(m[1])
	}
	if m := LegacyStyleRegex.FindStringSubmatch(block); m != nil {
		item.StyleGuide = parseLegacyStyleLines(m[1])
	}

	return item, true
}

// detectLegacyMode は絵文字とキーワードでモードを決めます。判定順は
// 参照 → SVG → AI生成 で、どれにも当たらなければAI生成が既定なのだ。
func detectLegacyMode(block string) domain.Mode {
	switch {
	case strings.Contains(block, "📷") || strings.Contains(block, "참고 이미지") || strings.Contains(block, "다운로드된 이미지"):
		return domain.ModeReference
	case strings.Contains(block, "🔷") || strings.Contains(block, "SVG 생성"):
		return domain.ModeSvgGenerate
	default:
		return domain.ModeAiGenerate
	}
}

// parseLegacyStyleLines はレガシー形式のスタイル行を解析します。
// 見出し方言と違って箇条書きの "-" は必須ではなく、キー側に付いた "-" だけ剥がします。
func parseLegacyStyleLines(text string) domain.StyleGuide {
	var sg domain.StyleGuide
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(key), "-"))
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			sg = append(sg, domain.StylePair{Key: key, Value: value})
		}
	}
	return sg
}
