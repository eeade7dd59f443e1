package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
	"github.com/shouni/go-blog-image-kit/pkg/prompt"
)

// noTextSuffix は背景生成プロンプトへ付け足す明示的な文字なし指示です。
const noTextSuffix = " NO TEXT, NO LETTERS, NO WORDS."

// GenerateWithTextOverlay は「文字なし背景を生成 → ローカルでテキストを合成」の
// 2段フローで1枚を仕上げます。プロンプトからテキスト描画指示を取り除いた上で
// 背景を一時ディレクトリへ生成し、合成結果だけを outputPath へ書き出します。
// どちらの段で失敗しても最終パスには何も残らず、失敗は段名付きの
// メッセージとして結果に記録されるのだ。
func (o *Orchestrator) GenerateWithTextOverlay(ctx context.Context, promptText, outputPath string, style domain.TextStyle, size string) domain.GenerationResult {
	start := time.Now()

	// 1. テキスト描画指示を除去し、明示的な no-text 指示を足すのだ
	processed := prompt.StripTextInstructions(promptText)
	if !strings.Contains(strings.ToLower(processed), "no text") {
		processed += noTextSuffix
	}

	// 2. 背景を一時ファイルへ生成するのだ
	tempDir, err := os.MkdirTemp("", "blog-image-*")
	if err != nil {
		return domain.GenerationResult{
			Success:        false,
			Prompt:         promptText,
			ErrorMessage:   "Background generation failed: " + err.Error(),
			ElapsedSeconds: time.Since(start).Seconds(),
		}
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			slog.Debug("一時ディレクトリを削除できなかったのだ", "dir", tempDir, "error", rmErr)
		}
	}()
	tempBackground := filepath.Join(tempDir, "background.png")

	bgResult := o.GenerateImage(ctx, processed, tempBackground, size)
	if !bgResult.Success {
		return domain.GenerationResult{
			Success:        false,
			Prompt:         promptText,
			ModelUsed:      bgResult.ModelUsed,
			ErrorMessage:   "Background generation failed: " + bgResult.ErrorMessage,
			ElapsedSeconds: time.Since(start).Seconds(),
		}
	}

	// 3. 背景へテキストを合成し、最終パスへ書き出すのだ
	if err := o.overlay.AddTextToImage(tempBackground, outputPath, style); err != nil {
		return domain.GenerationResult{
			Success:        false,
			Prompt:         promptText,
			ModelUsed:      bgResult.ModelUsed,
			ErrorMessage:   "Text overlay failed: " + err.Error(),
			ElapsedSeconds: time.Since(start).Seconds(),
		}
	}

	slog.Info("テキスト合成付き生成が完了したのだ", "path", outputPath, "model", bgResult.ModelUsed)
	return domain.GenerationResult{
		Success:        true,
		FilePath:       outputPath,
		Prompt:         promptText,
		ModelUsed:      bgResult.ModelUsed,
		ElapsedSeconds: time.Since(start).Seconds(),
	}
}
