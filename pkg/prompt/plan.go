package prompt

import (
	"fmt"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// DefaultAspectRatio はスタイルガイドに比率指定が無いときの既定値です。
const DefaultAspectRatio = "16:9"

// BuildPlans は解析済みガイドから生成計画を文書順で組み立てます。
// 生成対象(AI生成・背景のみ生成)だけが計画になり、参照画像とSVGは
// 含まれません。合成設定は背景のみ生成の項目にだけ引き継がれます。
func BuildPlans(items domain.GuideItems) domain.ImagePlans {
	generatable := items.Generatable()
	plans := make(domain.ImagePlans, 0, len(generatable))

	for _, item := range generatable {
		plan := domain.ImagePlan{
			Index:    item.Index,
			Role:     item.Role,
			Mode:     item.Mode,
			Prompt:   item.Prompt,
			Filename: BuildFilename(item.Index, item.Role),
		}
		if item.Mode == domain.ModeAiGenerateWithOverlay && item.TextOverlay != nil {
			overlay := *item.TextOverlay
			plan.Overlay = &overlay
		}
		plans = append(plans, plan)
	}
	return plans
}

// PromptSheet は prompts コマンドが出力する1項目分の完成プロンプトです。
// 画像生成を実行せず、外部ツールへ貼り付ける用途を想定しています。
type PromptSheet struct {
	Index       int    `json:"index"`
	Role        string `json:"role"`
	Prompt      string `json:"prompt"`
	Filename    string `json:"filename"`
	AspectRatio string `json:"aspect_ratio"`
	StyleHints  string `json:"style_hints,omitempty"`
}

// BuildPromptSheets は生成対象の項目ごとに最適化済みプロンプトを組み立てます。
// ファイル名はサニタイズ済みの役割ラベル(上限50文字)を使います。
func BuildPromptSheets(items domain.GuideItems) []PromptSheet {
	generatable := items.Generatable()
	sheets := make([]PromptSheet, 0, len(generatable))

	for _, item := range generatable {
		sheets = append(sheets, PromptSheet{
			Index:       item.Index,
			Role:        item.Role,
			Prompt:      ConvertToImagePrompt(item, false),
			Filename:    fmt.Sprintf("%02d_%s.png", item.Index, SanitizeFilename(item.Role)),
			AspectRatio: AspectRatio(item.StyleGuide),
			StyleHints:  strings.Join(item.StyleGuide.Values(), ", "),
		})
	}
	return sheets
}
