package template

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	// ModeStandard は "## [Image N]" 見出し方言のガイド雛形なのだ。
	ModeStandard = "standard"
	// ModeLegacy は ━ 罫線区切りのレガシー方言のガイド雛形なのだ。
	ModeLegacy = "legacy"
)

//go:embed standard.md
var StandardGuide string

//go:embed legacy.md
var LegacyGuide string

// modeTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var modeTemplates = map[string]string{
	ModeStandard: StandardGuide,
	ModeLegacy:   LegacyGuide,
}

// GetGuideTemplate は、指定されたモードに対応する画像ガイドの雛形を返すのだ。
func GetGuideTemplate(mode string) (string, error) {
	content, ok := modeTemplates[mode]
	if !ok {
		supported := slices.Collect(maps.Keys(modeTemplates))
		slices.Sort(supported)

		return "", fmt.Errorf("サポートされていないモード: '%s'。サポートされているモードは [%s] です",
			mode, strings.Join(supported, ", "))
	}

	if content == "" {
		return "", fmt.Errorf("モード '%s' に対応するガイド雛形が空なのだ。embed設定を確認してほしいのだ", mode)
	}

	return content, nil
}
