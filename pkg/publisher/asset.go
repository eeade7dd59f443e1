package publisher

import (
	"log/slog"
	"os"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

// verifyArtifacts は成功扱いの結果について実ファイルの存在を確かめるのだ。
// 生成器がパスを返していてもディスク上で消えていることはあり得るので、
// レポートに載せる前にここで突き合わせる。戻り値は提出位置→実在パス。
func verifyArtifacts(results []domain.GenerationResult) map[int]string {
	verified := make(map[int]string, len(results))
	for i, res := range results {
		if !res.Success || res.FilePath == "" {
			continue
		}
		if _, err := os.Stat(res.FilePath); err != nil {
			slog.Warn("成功扱いの画像が見つからないのだ", "path", res.FilePath, "error", err)
			continue
		}
		verified[i] = res.FilePath
	}
	return verified
}
