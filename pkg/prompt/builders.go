package prompt

import (
	"fmt"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

const (
	maxThumbnailKeywords = 3
	maxInfographicPoints = 5
	maxProcessSteps      = 5
)

// ThumbnailPrompt はブログのサムネイル用プロンプトを組み立てます。
// backgroundOnly の場合は文字なし背景のプロンプトと、タイトルを
// メインテキストとする合成設定を返します。通常はプロンプト内に
// テキスト描画指示を含め、合成設定は nil を返します。
func ThumbnailPrompt(title string, keywords []string, colorScheme string, backgroundOnly bool) (string, *domain.TextStyle) {
	capped := keywords
	if len(capped) > maxThumbnailKeywords {
		capped = capped[:maxThumbnailKeywords]
	}
	keywordsStr := strings.Join(capped, ", ")

	if backgroundOnly {
		p := fmt.Sprintf(
			"Create a professional blog thumbnail background image. "+
				"Topic: %s. "+
				"Use %s color scheme. "+
				"Eye-catching, modern design, 16:9 aspect ratio. "+
				"Clean background suitable for text overlay. "+
				"No text, no letters, no typography, no words. "+
				"High resolution, professional quality.",
			keywordsStr, colorScheme,
		)
		style := domain.NewTextStyle()
		style.MainText = title
		return p, &style
	}

	p := fmt.Sprintf(
		"Create a professional blog thumbnail image. "+
			"Topic: %s. "+
			"Include bold Korean text overlay: \"%s\". "+
			"Use %s color scheme. "+
			"Eye-catching, modern design, 16:9 aspect ratio. "+
			"High resolution, suitable for social media preview.",
		keywordsStr, title, colorScheme,
	)
	return p, nil
}

// InfographicPrompt はインフォグラフィック用プロンプトを組み立てます。
func InfographicPrompt(title string, dataPoints []string, chartType string) string {
	capped := dataPoints
	if len(capped) > maxInfographicPoints {
		capped = capped[:maxInfographicPoints]
	}

	return fmt.Sprintf(
		"Create a clean, professional infographic. "+
			"Title: %s. "+
			"Visualize data as %s: %s. "+
			"Use flat design, minimal style. "+
			"White background, clear data labels. "+
			"16:9 aspect ratio, high resolution.",
		title, chartType, strings.Join(capped, ", "),
	)
}

// ProcessPrompt は手順図用プロンプトを組み立てます。
// ステップ数の表記は与えた全件数のままで、本文に載るのは先頭5件です。
func ProcessPrompt(title string, steps []string) string {
	capped := steps
	if len(capped) > maxProcessSteps {
		capped = capped[:maxProcessSteps]
	}
	labeled := make([]string, 0, len(capped))
	for i, s := range capped {
		labeled = append(labeled, fmt.Sprintf("Step %d: %s", i+1, s))
	}

	return fmt.Sprintf(
		"Create a step-by-step process diagram. "+
			"Title: %s. "+
			"Show %d steps in horizontal flow: %s. "+
			"Use numbered circles, connected by arrows. "+
			"Clean, minimal style with icons for each step. "+
			"16:9 aspect ratio, professional look.",
		title, len(steps), strings.Join(labeled, " → "),
	)
}
