package generator

import "context"

// ImageClient は画像生成APIへの黒箱インターフェースなのだ。
// モデルIDは不透明なラベルとして受け取り、成功時はPNGとしてデコード可能な
// 生バイト列を返す。オーケストレーターは失敗理由をエラーメッセージの
// 文字列でのみ判定するため、実装は原因をメッセージに残すこと。
type ImageClient interface {
	Generate(ctx context.Context, prompt, aspectRatio, model string) ([]byte, error)
}
