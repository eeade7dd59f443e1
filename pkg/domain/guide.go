package domain

import (
	"encoding/json"
	"fmt"
)

// Mode は画像ガイド項目の生成区分を表す閉じた列挙型なのだ。
// 文字列の使い回しをやめて、パーサーとオーケストレーターが
// 網羅的に分岐できるようにしている。
type Mode int

const (
	// ModeAiGenerate はAIによる画像生成（既定値）なのだ。表示形式は "B"。
	ModeAiGenerate Mode = iota
	// ModeReference はダウンロード済み参照画像を使う区分なのだ。表示形式は "A"。
	ModeReference
	// ModeAiGenerateWithOverlay は背景のみAI生成し、後段でテキストを合成する区分なのだ。表示形式は "B-2"。
	ModeAiGenerateWithOverlay
	// ModeSvgGenerate はSVGで作図する区分（このツールでは生成対象外）なのだ。表示形式は "C"。
	ModeSvgGenerate
)

// String は従来のモード文字を返すのだ。
func (m Mode) String() string {
	switch m {
	case ModeReference:
		return "A"
	case ModeAiGenerateWithOverlay:
		return "B-2"
	case ModeSvgGenerate:
		return "C"
	default:
		return "B"
	}
}

// MarshalJSON はモード文字（"A"/"B"/"B-2"/"C"）として出力するのだ。
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON はモード文字から列挙値を復元するのだ。未知の文字はエラーにする。
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "A":
		*m = ModeReference
	case "B":
		*m = ModeAiGenerate
	case "B-2":
		*m = ModeAiGenerateWithOverlay
	case "C":
		*m = ModeSvgGenerate
	default:
		return fmt.Errorf("未知のモード文字なのだ: %q", s)
	}
	return nil
}

// StylePair はスタイルガイドの1項目（キーと値）を保持します。
type StylePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// StyleGuide は文書に現れた順序をそのまま保持するスタイル項目の列なのだ。
// Goのmapは順序を保証しないので、スライスで持つ。
type StyleGuide []StylePair

// GuideItem は画像ガイド1項目分の計画を表す不変レコードなのだ。
// パース時に一度だけ生成され、以後は変更しない。
type GuideItem struct {
	Index             int        `json:"index"`
	Role              string     `json:"role"`
	Mode              Mode       `json:"mode"`
	KoreanDescription string     `json:"korean_description,omitempty"`
	Prompt            string     `json:"prompt,omitempty"`
	StyleGuide        StyleGuide `json:"style_guide,omitempty"`
	TextOverlay       *TextStyle `json:"text_overlay,omitempty"`
	ReferenceURL      string     `json:"reference_url,omitempty"`
}

// GuideItems はガイド項目の列（文書順）なのだ。
type GuideItems []GuideItem
