package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ファイル名の長さ上限です。役割ベースの自動命名(20)と任意名の
// サニタイズ(50)は歴史的に別の上限を持つため、統一しません。
const (
	maxRoleFilenameRunes      = 20
	maxSanitizedFilenameRunes = 50
)

var (
	// forbiddenFilenameRegex はファイル名に使えない記号を除去します。
	forbiddenFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*]`)

	// roleFilenameRegex は役割ラベルから英数字・ハングル・空白以外を除去します。
	roleFilenameRegex = regexp.MustCompile(`[^\w가-힣\s]`)

	// normalizeKeepRegex はハイフンも残す正規化用の除去パターンです。
	normalizeKeepRegex = regexp.MustCompile(`[^\w가-힣\s-]`)

	// hyphenRunRegex は連続ハイフンを1つに潰します。
	hyphenRunRegex = regexp.MustCompile(`-+`)
)

// SanitizeFilename は任意の名前をファイル名として安全な形に整えます。
// 禁止記号を除去し、空白列をアンダースコアにし、50文字で切り詰めます。
func SanitizeFilename(name string) string {
	name = forbiddenFilenameRegex.ReplaceAllString(name, "")
	name = spaceRunRegex.ReplaceAllString(name, "_")
	return truncateRunes(name, maxSanitizedFilenameRunes)
}

// BuildFilename は位置番号と役割ラベルから既定の保存名を組み立てます
// (例: "01_썸네일.png")。役割が空になった場合は "image" を使います。
func BuildFilename(index int, role string) string {
	clean := roleFilenameRegex.ReplaceAllString(role, "")
	clean = strings.ReplaceAll(strings.TrimSpace(clean), " ", "_")
	clean = truncateRunes(clean, maxRoleFilenameRunes)

	if clean == "" {
		clean = "image"
	}
	return fmt.Sprintf("%02d_%s.png", index, clean)
}

// NormalizeFilename はトピック名などをパス部品として安全な形に正規化します。
// 入力装置の違いで NFD になったハングルも NFC に揃えてから、英数字・
// ハングル・ハイフン以外を除去し、空白列をハイフンに変換します
// (例: "2026년 육아휴직 변경 사항!" → "2026년-육아휴직-변경-사항")。
func NormalizeFilename(text string, max int) string {
	if max <= 0 {
		max = maxSanitizedFilenameRunes
	}
	text = norm.NFC.String(text)
	text = normalizeKeepRegex.ReplaceAllString(text, "")
	text = spaceRunRegex.ReplaceAllString(strings.TrimSpace(text), "-")
	text = hyphenRunRegex.ReplaceAllString(text, "-")
	text = strings.Trim(text, "-")

	runes := []rune(text)
	if len(runes) > max {
		text = strings.TrimRight(string(runes[:max]), "-")
	}
	return text
}

// truncateRunes はルーン単位で切り詰めます。バイト単位だとハングルの
// 途中で切れて不正なUTF-8になるためです。
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
