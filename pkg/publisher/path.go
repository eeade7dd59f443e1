package publisher

import (
	"path/filepath"
	"time"

	"github.com/shouni/go-blog-image-kit/pkg/prompt"
)

// dateLayout は出力ディレクトリに使う日付形式なのだ。
const dateLayout = "2006-01-02"

// ResolveOutputPath は <ベース>/<YYYY-MM-DD>/<正規化トピック> 形式の
// 出力先を組み立てるのだ (例: "경제 블로그/2026-01-27/육아휴직-가이드")。
// date が空なら今日の日付を使い、トピックは50ルーンに正規化する。
func ResolveOutputPath(baseDir, topic, date string) string {
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	return filepath.Join(baseDir, date, prompt.NormalizeFilename(topic, 0))
}
