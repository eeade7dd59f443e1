package domain

// ImagePlan は変換済みの生成計画1件分なのだ。
// ガイド項目をプロンプト最適化・ファイル名決定まで済ませた、
// オーケストレーターへの入力になる。
type ImagePlan struct {
	Index    int        `json:"index"`
	Role     string     `json:"role"`
	Mode     Mode       `json:"mode"`
	Prompt   string     `json:"prompt"`
	Filename string     `json:"filename"`
	Overlay  *TextStyle `json:"overlay,omitempty"`
}

// ImagePlans は生成計画の列（提出順＝結果順）なのだ。
type ImagePlans []ImagePlan

// NeedsOverlay はテキスト合成フローを通すべきかを返すのだ。
func (p ImagePlan) NeedsOverlay() bool {
	return p.Overlay != nil && p.Overlay.MainText != ""
}

// Clone は計画の防御的コピーを返すのだ。
func (p ImagePlan) Clone() ImagePlan {
	copied := p
	if p.Overlay != nil {
		overlay := *p.Overlay
		copied.Overlay = &overlay
	}
	return copied
}

// OverlayCount はテキスト合成対象の計画数を返すのだ。
func (ps ImagePlans) OverlayCount() int {
	n := 0
	for _, p := range ps {
		if p.NeedsOverlay() {
			n++
		}
	}
	return n
}
