package builder

import (
	"net/http"

	"github.com/shouni/go-blog-image-kit/internal/config"

	"github.com/shouni/go-gemini-client/gemini"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options    config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（ガイドパス、出力先など）。
	aiClient   gemini.GenerativeModel // aiClient はGeminiの通信に使う共通クライアント
	httpClient *http.Client           // httpClient は参照画像のダウンロードに使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient *http.Client,
	aiClient gemini.GenerativeModel,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		aiClient:   aiClient,
		httpClient: httpClient,
	}
}
