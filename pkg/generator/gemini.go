package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// ErrNoImage は、API呼び出し自体は成功したもののレスポンスに画像パートが
// 1つも含まれなかったことを示すのだ。通信エラーと違い再試行しても結果は
// 変わらないため、リトライ対象から除外される。
var ErrNoImage = errors.New("No image found in response")

// GeminiImageClient は go-gemini-client を使った ImageClient の実装です。
type GeminiImageClient struct {
	aiClient gemini.GenerativeModel
}

// NewGeminiImageClient は初期化済みの通信クライアントを注入して生成します。
func NewGeminiImageClient(aiClient gemini.GenerativeModel) (*GeminiImageClient, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient は必須です")
	}
	return &GeminiImageClient{aiClient: aiClient}, nil
}

// Generate はプロンプト1件を画像バイト列へ変換するのだ。
// レスポンス候補を順に走査し、最初に見つかった image/* のインラインデータを返す。
func (c *GeminiImageClient) Generate(ctx context.Context, prompt, aspectRatio, model string) ([]byte, error) {
	parts := []*genai.Part{{Text: prompt}}
	opts := gemini.GenerateOptions{AspectRatio: aspectRatio}

	slog.Debug("Geminiへ画像生成をリクエストするのだ", "model", model, "aspect_ratio", aspectRatio)
	resp, err := c.aiClient.GenerateWithParts(ctx, model, parts, opts)
	if err != nil {
		return nil, err
	}

	data, err := extractInlineImage(resp)
	if err != nil {
		return nil, err
	}

	slog.Debug("画像を受信したのだ", "model", model, "bytes", len(data))
	return data, nil
}

// extractInlineImage はレスポンス候補からインライン画像パートを取り出します。
func extractInlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil {
		return nil, ErrNoImage
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			// MIMEタイプが申告されている場合は画像のみ受け付ける
			if part.InlineData.MIMEType != "" && !strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				continue
			}
			return part.InlineData.Data, nil
		}
	}
	return nil, ErrNoImage
}
