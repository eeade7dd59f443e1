package domain

import (
	"encoding/json"
	"testing"
)

func TestMode_JSON(t *testing.T) {
	t.Run("モード文字との相互変換ができるのだ", func(t *testing.T) {
		cases := []struct {
			mode Mode
			text string
		}{
			{ModeReference, `"A"`},
			{ModeAiGenerate, `"B"`},
			{ModeAiGenerateWithOverlay, `"B-2"`},
			{ModeSvgGenerate, `"C"`},
		}
		for _, c := range cases {
			data, err := json.Marshal(c.mode)
			if err != nil {
				t.Fatalf("Marshal失敗なのだ: %v", err)
			}
			if string(data) != c.text {
				t.Errorf("モード %v の出力が違うのだ。期待: %s, 実際: %s", c.mode, c.text, data)
			}

			var decoded Mode
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal失敗なのだ: %v", err)
			}
			if decoded != c.mode {
				t.Errorf("復元したモードが違うのだ。期待: %v, 実際: %v", c.mode, decoded)
			}
		}
	})

	t.Run("未知のモード文字はエラーになるのだ", func(t *testing.T) {
		var m Mode
		if err := json.Unmarshal([]byte(`"Z"`), &m); err == nil {
			t.Error("未知のモードなのにエラーが返らないのだ")
		}
	})
}

func TestStyleGuide_Get(t *testing.T) {
	sg := StyleGuide{
		{Key: "색상", Value: "따뜻한 노랑"},
		{Key: "Mood", Value: "friendly"},
	}

	t.Run("完全一致で引けるのだ", func(t *testing.T) {
		v, ok := sg.Get("색상")
		if !ok || v != "따뜻한 노랑" {
			t.Errorf("색상 の値が引けないのだ: %q, %v", v, ok)
		}
	})

	t.Run("大文字小文字を無視して引けるのだ", func(t *testing.T) {
		v, ok := sg.Get("mood")
		if !ok || v != "friendly" {
			t.Errorf("mood の値が引けないのだ: %q, %v", v, ok)
		}
	})

	t.Run("候補キーを順に試すのだ", func(t *testing.T) {
		v, ok := sg.Get("Color", "색상")
		if !ok || v != "따뜻한 노랑" {
			t.Errorf("第2候補キーで引けないのだ: %q, %v", v, ok)
		}
	})

	t.Run("見つからなければ false なのだ", func(t *testing.T) {
		if _, ok := sg.Get("형식"); ok {
			t.Error("存在しないキーで true が返ったのだ")
		}
	})
}

func TestGuideItem_Clone(t *testing.T) {
	t.Run("防御的コピーになっているのだ", func(t *testing.T) {
		overlay := NewTextStyle()
		overlay.MainText = "제목"
		item := GuideItem{
			Index:      1,
			Role:       "Thumbnail",
			Mode:       ModeAiGenerateWithOverlay,
			StyleGuide: StyleGuide{{Key: "색상", Value: "민트 그린"}},
			TextOverlay: func() *TextStyle {
				s := overlay
				return &s
			}(),
		}

		copied := item.Clone()
		copied.StyleGuide[0].Value = "改変"
		copied.TextOverlay.MainText = "改変"

		if item.StyleGuide[0].Value != "민트 그린" {
			t.Error("StyleGuide が共有されているのだ")
		}
		if item.TextOverlay.MainText != "제목" {
			t.Error("TextOverlay が共有されているのだ")
		}
	})
}

func TestGuideItems_Generatable(t *testing.T) {
	items := GuideItems{
		{Index: 1, Mode: ModeAiGenerate, Prompt: "Blog thumbnail"},
		{Index: 2, Mode: ModeReference, ReferenceURL: "https://example.com/a.png"},
		{Index: 3, Mode: ModeAiGenerate, Prompt: "   "},
		{Index: 4, Mode: ModeAiGenerateWithOverlay, Prompt: "Background"},
		{Index: 5, Mode: ModeSvgGenerate},
	}

	t.Run("生成対象はプロンプト付きのBとB-2だけなのだ", func(t *testing.T) {
		got := items.Generatable()
		if len(got) != 2 {
			t.Fatalf("件数が違うのだ。期待: 2, 実際: %d", len(got))
		}
		if got[0].Index != 1 || got[1].Index != 4 {
			t.Errorf("文書順が保たれていないのだ: %+v", got)
		}
	})

	t.Run("参照画像はURL付きのモードAだけなのだ", func(t *testing.T) {
		refs := items.References()
		if len(refs) != 1 || refs[0].Index != 2 {
			t.Errorf("参照項目の抽出が違うのだ: %+v", refs)
		}
	})
}
