package prompt

import "strings"

// TranslationPair は韓国語フレーズと英語フレーズの対応を表します。
// テーブルはスライスで保持し、定義順 = 適用順を保証します
// (マップでは走査順が不定になるため)。
type TranslationPair struct {
	Korean  string
	English string
}

// ColorTable は色表現の韓国語→英語対応表です。
// 上から順に評価され、最初に一致したエントリだけが置換されます。
var ColorTable = []TranslationPair{
	{"파스텔 블루", "soft pastel blue"},
	{"파스텔 핑크", "soft pastel pink"},
	{"민트 그린", "mint green, seafoam"},
	{"따뜻한 노랑", "warm yellow, golden yellow"},
	{"네이비", "navy blue, deep blue"},
	{"골드", "gold, champagne gold"},
	{"코랄 핑크", "coral pink, soft coral"},
	{"그레이", "gray, neutral gray"},
	{"화이트", "white, clean white"},
	{"블랙", "black, elegant black"},
	{"베이지", "beige, warm beige"},
	{"그린", "green, fresh green"},
	{"오렌지", "orange, warm orange"},
	{"레드", "red, vibrant red"},
	{"퍼플", "purple, elegant purple"},
	{"그라데이션", "gradient"},
}

// MoodTable は雰囲気表現の対応表です。一致する全エントリが順に置換されます。
var MoodTable = []TranslationPair{
	{"따뜻한", "warm, cozy"},
	{"친근한", "friendly, approachable"},
	{"전문적", "professional, expert"},
	{"신뢰감", "trustworthy, reliable"},
	{"깔끔한", "clean, neat"},
	{"모던한", "modern, contemporary"},
	{"세련된", "sophisticated, elegant"},
	{"밝은", "bright, cheerful"},
	{"차분한", "calm, serene"},
	{"활기찬", "energetic, lively"},
	{"감성적", "emotional, sentimental"},
	{"정보성", "informative, educational"},
	{"눈에 띄는", "eye-catching, attention-grabbing"},
	{"클릭 유도", "click-worthy, engaging"},
	{"희망적", "hopeful, optimistic"},
	{"사랑스러운", "lovely, adorable"},
}

// FormatTable は表現形式の対応表です。一致する全エントリが順に置換されます。
var FormatTable = []TranslationPair{
	{"인포그래픽", "infographic, data visualization"},
	{"일러스트", "illustration, illustrated"},
	{"사진풍", "photographic, photo-realistic"},
	{"플랫디자인", "flat design, minimalist"},
	{"모던 썸네일", "modern thumbnail design"},
	{"차트", "chart, graph"},
	{"다이어그램", "diagram, flowchart"},
	{"체크리스트", "checklist, list design"},
	{"비교표", "comparison table, comparison chart"},
	{"프로세스", "process diagram, step-by-step"},
}

// TranslateColor は色表現を英語に変換します。
// 最初に一致したキーのみを置換して即座に返します。雰囲気・形式の
// 全置換とは意図的に非対称で、下流が単一置換に依存しています。
func TranslateColor(korean string) string {
	for _, p := range ColorTable {
		if strings.Contains(korean, p.Korean) {
			return strings.ReplaceAll(korean, p.Korean, p.English)
		}
	}
	return korean
}

// TranslateMood は雰囲気表現を英語に変換します。一致する全キーを順に置換します。
func TranslateMood(korean string) string {
	return translateAll(korean, MoodTable)
}

// TranslateFormat は表現形式を英語に変換します。一致する全キーを順に置換します。
func TranslateFormat(korean string) string {
	return translateAll(korean, FormatTable)
}

func translateAll(s string, table []TranslationPair) string {
	result := s
	for _, p := range table {
		if strings.Contains(result, p.Korean) {
			result = strings.ReplaceAll(result, p.Korean, p.English)
		}
	}
	return result
}
