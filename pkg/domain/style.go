package domain

// テキスト合成まわりの既定値です。元プロダクトの規定値をそのまま引き継いでいます。
const (
	DefaultPosition      = "center"
	DefaultFontSize      = 48
	DefaultFontColor     = "#FFFFFF"
	DefaultFontFamily    = "Pretendard, Nanum Gothic, sans-serif"
	DefaultShadowColor   = "rgba(0,0,0,0.5)"
	DefaultShadowOffset  = 2
	DefaultBoxColor      = "rgba(0,0,0,0.3)"
	DefaultBoxPadding    = 20
	DefaultBoxRadius     = 10
	DefaultSubFontWeight = "regular"

	DefaultWatermarkText         = "@money-lab-brian"
	DefaultWatermarkMarginBottom = 60
	DefaultWatermarkFontSize     = 18
	DefaultWatermarkFontColor    = "rgba(255,255,255,0.6)"
)

// TextStyle はテキスト合成の意図を表す値型です。
// プロンプト変換器かガイドパーサーが構築し、以後は値渡しで変更しません。
type TextStyle struct {
	MainText string `json:"main_text"`
	SubText  string `json:"sub_text,omitempty"`

	// Position は9種の名前付きアンカー（center/top/bottom/各コーナー）と
	// "bottom-center" を受け付けます。
	Position string `json:"position"`

	// MainTextY / SubTextY は "35%" のような割合か "310" のようなピクセル値です。
	// 空なら既定位置（縦中央、サブは自動配置）になります。
	MainTextY string `json:"main_text_y,omitempty"`
	SubTextY  string `json:"sub_text_y,omitempty"`

	FontSize     int    `json:"font_size"`
	FontColor    string `json:"font_color"`
	SubFontColor string `json:"sub_font_color,omitempty"`
	FontFamily   string `json:"font_family"`

	Shadow       bool   `json:"shadow"`
	ShadowColor  string `json:"shadow_color"`
	ShadowOffset int    `json:"shadow_offset"`

	BackgroundBox        bool   `json:"background_box"`
	BackgroundBoxColor   string `json:"background_box_color"`
	BackgroundBoxPadding int    `json:"background_box_padding"`
	// BackgroundBoxRadius はゼロなら既定値(10)を使います。
	BackgroundBoxRadius int `json:"background_box_radius,omitempty"`

	// SubFontSize はゼロなら FontSize の半分になります。
	SubFontSize   int    `json:"sub_font_size,omitempty"`
	SubFontWeight string `json:"sub_font_weight,omitempty"`

	WatermarkEnabled      bool   `json:"watermark_enabled"`
	WatermarkText         string `json:"watermark_text"`
	WatermarkMarginBottom int    `json:"watermark_margin_bottom"`
	WatermarkFontSize     int    `json:"watermark_font_size"`
	WatermarkFontColor    string `json:"watermark_font_color"`
}

// NewTextStyle は既定値入りの TextStyle を返します。
func NewTextStyle() TextStyle {
	return TextStyle{
		Position:             DefaultPosition,
		FontSize:             DefaultFontSize,
		FontColor:            DefaultFontColor,
		FontFamily:           DefaultFontFamily,
		Shadow:               true,
		ShadowColor:          DefaultShadowColor,
		ShadowOffset:         DefaultShadowOffset,
		BackgroundBoxColor:   DefaultBoxColor,
		BackgroundBoxPadding: DefaultBoxPadding,
		BackgroundBoxRadius:  DefaultBoxRadius,

		WatermarkEnabled:      true,
		WatermarkText:         DefaultWatermarkText,
		WatermarkMarginBottom: DefaultWatermarkMarginBottom,
		WatermarkFontSize:     DefaultWatermarkFontSize,
		WatermarkFontColor:    DefaultWatermarkFontColor,
	}
}

// EffectiveSubFontSize はサブテキスト用のフォントサイズを返します（未指定ならメインの半分）。
func (s TextStyle) EffectiveSubFontSize() int {
	if s.SubFontSize > 0 {
		return s.SubFontSize
	}
	return s.FontSize / 2
}

// EffectiveSubFontColor はサブテキスト用の色を返します（未指定ならメインと同色）。
func (s TextStyle) EffectiveSubFontColor() string {
	if s.SubFontColor != "" {
		return s.SubFontColor
	}
	return s.FontColor
}

// EffectiveSubFontWeight はサブテキスト用のウェイトを返します（未指定なら regular）。
func (s TextStyle) EffectiveSubFontWeight() string {
	if s.SubFontWeight != "" {
		return s.SubFontWeight
	}
	return DefaultSubFontWeight
}

// EffectiveBoxRadius は背景ボックスの角丸半径を返します（未指定なら既定値）。
func (s TextStyle) EffectiveBoxRadius() int {
	if s.BackgroundBoxRadius > 0 {
		return s.BackgroundBoxRadius
	}
	return DefaultBoxRadius
}

// TextElement はレイアウトエンジンが描画する1ブロック分のテキストです。
// メイン・サブ・ウォーターマークはそれぞれ独立した要素として構成されます。
type TextElement struct {
	Text string `json:"text"`
	X    int    `json:"x"`
	Y    int    `json:"y"`

	FontSize   int    `json:"font_size"`
	FontFamily string `json:"font_family"`
	FontWeight string `json:"font_weight"`
	Fill       string `json:"fill"`

	// TextAnchor は "start" / "middle" / "end" のいずれかです。
	TextAnchor string `json:"text_anchor"`

	Shadow        bool   `json:"shadow"`
	ShadowColor   string `json:"shadow_color"`
	ShadowOffsetX int    `json:"shadow_offset_x"`
	ShadowOffsetY int    `json:"shadow_offset_y"`

	BackgroundBox        bool   `json:"background_box"`
	BackgroundBoxColor   string `json:"background_box_color"`
	BackgroundBoxPadding int    `json:"background_box_padding"`
	BackgroundBoxRadius  int    `json:"background_box_radius"`
}

// NewTextElement は既定値入りのテキスト要素を返します。
func NewTextElement(text string, x, y int) TextElement {
	return TextElement{
		Text:                 text,
		X:                    x,
		Y:                    y,
		FontSize:             DefaultFontSize,
		FontFamily:           DefaultFontFamily,
		FontWeight:           "bold",
		Fill:                 DefaultFontColor,
		TextAnchor:           "middle",
		Shadow:               true,
		ShadowColor:          DefaultShadowColor,
		ShadowOffsetX:        DefaultShadowOffset,
		ShadowOffsetY:        DefaultShadowOffset,
		BackgroundBoxColor:   DefaultBoxColor,
		BackgroundBoxPadding: DefaultBoxPadding,
		BackgroundBoxRadius:  DefaultBoxRadius,
	}
}
