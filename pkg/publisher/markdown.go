package publisher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shouni/go-blog-image-kit/pkg/domain"
)

const reportTableHeader = "| # | 파일 | 모델 | 소요(초) | 상태 |\n" +
	"|---|------|------|---------|------|\n"

// buildReportMarkdown は生成結果を提出順のままGFMテーブルへ整形するのだ。
// 1結果につき1行で、完了順に並び替えたりはしない。
func buildReportMarkdown(title string, plans domain.ImagePlans, batch domain.BatchResult, verified map[int]string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(batch.Summary())
	sb.WriteString("\n\n")
	sb.WriteString(reportTableHeader)

	for i, res := range batch.Results {
		sb.WriteString(buildReportRow(i, plans, res, verified))
	}
	return sb.String()
}

// buildReportRow はテーブルの1行を組み立てるのだ。計画と結果は提出順で
// 対応しているが、数が合わない場合は位置番号とパスから補う。
func buildReportRow(position int, plans domain.ImagePlans, res domain.GenerationResult, verified map[int]string) string {
	index := position + 1
	file := ""
	if position < len(plans) {
		index = plans[position].Index
		file = plans[position].Filename
	}
	if res.FilePath != "" {
		file = filepath.Base(res.FilePath)
	}

	status := "✅"
	switch {
	case !res.Success:
		status = "❌ " + escapeTableCell(res.ErrorMessage)
	default:
		if _, ok := verified[position]; !ok {
			status = "⚠️ 파일 없음"
		}
	}

	return fmt.Sprintf("| %d | %s | %s | %.1f | %s |\n",
		index, escapeTableCell(file), escapeTableCell(res.ModelUsed), res.ElapsedSeconds, status)
}

// escapeTableCell はGFMテーブルを壊す文字を無害化するのだ。
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
