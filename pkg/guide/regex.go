package guide

import "regexp"

// 見出し方言のパターン群なのだ。
var (
	// HeadingProbeRegex は "## [Image N]" 見出しが1つでも存在するかを判定します。
	// 1つでも見つかればドキュメント全体を見出し方言として解析します。
	HeadingProbeRegex = regexp.MustCompile(`(?im)^##\s*\[Image\s*\d+\]`)

	// HeadingRegex は "## [Image N] 役割" 形式の見出し行から番号と役割をキャプチャします。
	HeadingRegex = regexp.MustCompile(`(?im)^##\s*\[Image\s*(\d+)\]\s*(.+?)\s*$`)

	// KoreanDescRegex は "**Korean Description:**" ラベル直後の自由文を
	// 次のラベル・見出しまでキャプチャします。
	KoreanDescRegex = regexp.MustCompile(`(?is)\*\*Korean\s+Description:\*\*\s*\n(.*?)(?:\n\*\*|\n###|\n##|$)`)

	// PromptFenceRegex は "AI Generation Prompt" ラベルに続くコードフェンスの中身をキャプチャします。
	PromptFenceRegex = regexp.MustCompile(`(?is)AI\s+Generation\s+Prompt.*?\n\s*` + "```" + `(?:\w+)?\s*\n(.*?)\n\s*` + "```")

	// StyleBlockRegex は "**Style:**" / "**Style Guide:**" の箇条書きブロックをキャプチャします。
	StyleBlockRegex = regexp.MustCompile(`(?is)\*\*(?:Style\s+Guide|Style):\*\*\s*\n(.*?)(?:\n###|\n##|$)`)

	// AiMarkerRegex / SvgMarkerRegex / RefMarkerRegex はセクション内のモード表記を検出します。
	// 絵文字マーカー (🎨 / 🔷 / 📷) は文字列検索で併用します。
	AiMarkerRegex  = regexp.MustCompile(`(?i)AI\s+Generation`)
	SvgMarkerRegex = regexp.MustCompile(`(?i)SVG\s+Generation`)
	RefMarkerRegex = regexp.MustCompile(`(?i)Reference\s+Image`)

	// ImageURLRegex はセクション内の最初の画像URL候補を検出します。
	ImageURLRegex = regexp.MustCompile(`https?://[^\s)\]>"']+`)
)

// レガシー方言 (━ 罫線区切り) のパターン群なのだ。
var (
	// LegacySeparatorRegex は ━ の罫線 (20文字以上) でブロックを区切ります。
	LegacySeparatorRegex = regexp.MustCompile(`━{20,}`)

	// LegacyHeaderRegex は "[이미지 N] 役割" / "[Image N] 役割" 形式のヘッダ行をキャプチャします。
	LegacyHeaderRegex = regexp.MustCompile(`(?i)^\[(?:이미지|Image)\s*(\d+)\]\s*(.+)`)

	// LegacyBareHeaderRegex は "[썸네일] ..." のような番号なしヘッダをキャプチャします。
	// この形式のブロックは歴史的経緯で index 0 として扱います。
	LegacyBareHeaderRegex = regexp.MustCompile(`^\[([\p{L}\p{N}_]+)\]\s*(.+)`)

	// LegacyDescRegex は "[한글 설명]" / "[Korean Description]" ブロックをキャプチャします。
	LegacyDescRegex = regexp.MustCompile(`(?is)\[(?:한글\s*설명|Korean\s*Description)\]\s*\n(.+?)(?:\n\[|$)`)

	// LegacyPromptRegex は "[AI 생성 프롬프트]" / "[AI Generation Prompt]" ブロックをキャプチャします。
	LegacyPromptRegex = regexp.MustCompile(`(?is)\[(?:AI\s*생성\s*프롬프트|AI\s*Generation\s*Prompt)\]\s*\n(.+?)(?:\n\[|$)`)

	// LegacyStyleRegex は "[스타일 가이드]" ブロックを次の罫線までキャプチャします。
	LegacyStyleRegex = regexp.MustCompile(`(?s)\[스타일 가이드\]\s*\n(.+?)(?:━|$)`)
)

// テキストオーバーレイ指示 (key: "value" ミニ構文) のパターン群なのだ。
var (
	// OverlayMainTextRegex がマッチしない限りオーバーレイ指示全体を無視します。
	OverlayMainTextRegex = regexp.MustCompile(`(?i)main_text[:\s]*["'](.+?)["']`)

	OverlaySubTextRegex   = regexp.MustCompile(`(?i)sub_text[:\s]*["'](.+?)["']`)
	OverlayPositionRegex  = regexp.MustCompile(`(?i)position[:\s]*["'](.+?)["']`)
	OverlayFontSizeRegex  = regexp.MustCompile(`(?i)font_size[:\s]*(\d+)`)
	OverlayFontColorRegex = regexp.MustCompile(`(?i)font_color[:\s]*["'](.+?)["']`)
	OverlayShadowRegex    = regexp.MustCompile(`(?i)shadow[:\s]*(true|false)`)
	OverlayBoxRegex       = regexp.MustCompile(`(?i)background_box[:\s]*(true|false)`)
	OverlayBoxColorRegex  = regexp.MustCompile(`(?i)background_box_color[:\s]*["'](.+?)["']`)
)
