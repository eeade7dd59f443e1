package domain

import "strings"

// Get は複数候補キーを順に引き、最初に見つかった値を返すのだ。
// 各キーごとに、まず完全一致、次に小文字化した一致を試す。
func (sg StyleGuide) Get(keys ...string) (string, bool) {
	if len(sg) == 0 {
		return "", false
	}
	for _, key := range keys {
		for _, p := range sg {
			if p.Key == key {
				return p.Value, true
			}
		}
		lowered := strings.ToLower(key)
		for _, p := range sg {
			if strings.ToLower(p.Key) == lowered {
				return p.Value, true
			}
		}
	}
	return "", false
}

// Values は値だけを文書順で返すのだ。
func (sg StyleGuide) Values() []string {
	if len(sg) == 0 {
		return nil
	}
	values := make([]string, 0, len(sg))
	for _, p := range sg {
		values = append(values, p.Value)
	}
	return values
}

// clone はスタイル項目列の防御的コピーを返す内部ヘルパーなのだ。
func (sg StyleGuide) clone() StyleGuide {
	if sg == nil {
		return nil
	}
	copied := make(StyleGuide, len(sg))
	copy(copied, sg)
	return copied
}

// Clone はガイド項目の防御的コピーを返すのだ。
// スライスとポインタも新しく割り当てるので、コピー先を変更しても元に影響しない。
func (gi GuideItem) Clone() GuideItem {
	copied := gi
	copied.StyleGuide = gi.StyleGuide.clone()
	if gi.TextOverlay != nil {
		overlay := *gi.TextOverlay
		copied.TextOverlay = &overlay
	}
	return copied
}

// HasPrompt は生成プロンプトを持っているかを返すのだ。
func (gi GuideItem) HasPrompt() bool {
	return strings.TrimSpace(gi.Prompt) != ""
}

// Generatable はAI生成対象（モードBとB-2でプロンプトあり）の項目だけを文書順で返すのだ。
func (items GuideItems) Generatable() GuideItems {
	out := make(GuideItems, 0, len(items))
	for _, item := range items {
		switch item.Mode {
		case ModeAiGenerate, ModeAiGenerateWithOverlay:
			if item.HasPrompt() {
				out = append(out, item)
			}
		case ModeReference, ModeSvgGenerate:
			// 生成対象外
		}
	}
	return out
}

// References は参照画像URL付きのモードA項目だけを文書順で返すのだ。
func (items GuideItems) References() GuideItems {
	out := make(GuideItems, 0, len(items))
	for _, item := range items {
		if item.Mode == ModeReference && item.ReferenceURL != "" {
			out = append(out, item)
		}
	}
	return out
}
