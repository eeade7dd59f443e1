package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/overlay"

	"github.com/spf13/cobra"
)

// overlayCmd は、既存の背景画像へテキストを合成する単発コマンドなのだ。
// Gemini APIは一切呼ばず、ローカルのラスター処理だけで完結する。
var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "既存の画像にタイトル文字を合成するのだ。",
	Long: `生成済み（または手持ち）の背景画像へ、メインテキスト・サブテキスト・透かしを
合成して別ファイルに書き出すのだ。サムネイルの文字だけ差し替えたいときに便利なのだよ。`,
	Example: "  ap-blog-go overlay -b output/thumbnail.png --main-text \"예금 금리 TOP 5\" --sub-text \"2026년 8월 기준\"",
	RunE:    overlayCommand,
}

// overlayOpts は overlay コマンド専用のフラグ束なのだ。
var overlayOpts struct {
	Background string
	Out        string
	MainText   string
	SubText    string
	Position   string
	FontSize   int
	FontColor  string
	Shadow     bool
	Box        bool
	BoxColor   string
	FontPath   string
}

func init() {
	f := overlayCmd.Flags()
	f.StringVarP(&overlayOpts.Background, "background", "b", "", "テキストを載せる背景画像のパスなのだ。")
	f.StringVar(&overlayOpts.Out, "out", "", "出力ファイルパス（省略時は <背景名>_overlay.png なのだ）。")
	f.StringVar(&overlayOpts.MainText, "main-text", "", "合成するメインテキストなのだ。")
	f.StringVar(&overlayOpts.SubText, "sub-text", "", "メインの下に入れるサブテキストなのだ。")
	f.StringVar(&overlayOpts.Position, "position", domain.DefaultPosition, "テキスト位置（center / top / bottom / 各コーナー）なのだ。")
	f.IntVar(&overlayOpts.FontSize, "font-size", domain.DefaultFontSize, "メインテキストのフォントサイズなのだ。")
	f.StringVar(&overlayOpts.FontColor, "font-color", domain.DefaultFontColor, "メインテキストの色（#RRGGBB か rgba(...)）なのだ。")
	f.BoolVar(&overlayOpts.Shadow, "shadow", true, "ドロップシャドウを付けるかなのだ。")
	f.BoolVar(&overlayOpts.Box, "box", false, "テキストの背後に半透明ボックスを敷くかなのだ。")
	f.StringVar(&overlayOpts.BoxColor, "box-color", domain.DefaultBoxColor, "背景ボックスの色なのだ。")
	f.StringVar(&overlayOpts.FontPath, "font", "", "TTFフォントの明示パス（省略時は環境変数から自動探索なのだ）。")
}

func overlayCommand(cmd *cobra.Command, args []string) error {
	// 1. 必須チェック
	if overlayOpts.Background == "" {
		return fmt.Errorf("背景画像（--background）を指定してほしいのだ")
	}
	if overlayOpts.MainText == "" {
		return fmt.Errorf("合成するメインテキスト（--main-text）を指定してほしいのだ")
	}

	outPath := overlayOpts.Out
	if outPath == "" {
		ext := filepath.Ext(overlayOpts.Background)
		outPath = strings.TrimSuffix(overlayOpts.Background, ext) + "_overlay.png"
	}

	// 2. スタイルの組み立て
	style := domain.NewTextStyle()
	style.MainText = overlayOpts.MainText
	style.SubText = overlayOpts.SubText
	style.Position = overlayOpts.Position
	style.FontSize = overlayOpts.FontSize
	style.FontColor = overlayOpts.FontColor
	style.Shadow = overlayOpts.Shadow
	style.BackgroundBox = overlayOpts.Box
	style.BackgroundBoxColor = overlayOpts.BoxColor

	// 透かしはグローバルフラグと同じ規約なのだ（空文字で無効化）
	if opts.Watermark == "" {
		style.WatermarkEnabled = false
	} else {
		style.WatermarkText = opts.Watermark
	}

	slog.Info("テキスト合成を開始するのだ",
		"background", overlayOpts.Background,
		"output", outPath,
		"position", style.Position)

	// 3. ローカル合成の実行
	processor := overlay.NewProcessor(overlayOpts.FontPath)
	if err := processor.AddTextToImage(overlayOpts.Background, outPath, style); err != nil {
		return fmt.Errorf("テキスト合成に失敗したのだ: %w", err)
	}

	fmt.Printf("✅ 合成完了: %s\n", outPath)
	return nil
}
