package domain

import "fmt"

// GenerationResult は画像1枚分の生成結果レポートです。
// 失敗もエラーではなく値として保持し、バッチ全体を完走させます。
type GenerationResult struct {
	Success        bool    `json:"success"`
	FilePath       string  `json:"file_path,omitempty"`
	Prompt         string  `json:"prompt"`
	ModelUsed      string  `json:"model_used,omitempty"`
	ErrorMessage   string  `json:"error_message,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// String は人間向けの1行サマリーを返します。
func (r GenerationResult) String() string {
	if r.Success {
		return fmt.Sprintf("✅ Generation complete: %s (%s)", r.FilePath, r.ModelUsed)
	}
	return fmt.Sprintf("❌ Generation failed: %s", r.ErrorMessage)
}

// BatchResult はバッチ実行全体の集計です。Results は提出順に並びます。
type BatchResult struct {
	Total               int                `json:"total"`
	SuccessCount        int                `json:"success_count"`
	FailedCount         int                `json:"failed_count"`
	Results             []GenerationResult `json:"results"`
	TotalElapsedSeconds float64            `json:"total_elapsed_seconds"`
}

// NewBatchResult は提出順の結果列から集計を作ります。
func NewBatchResult(results []GenerationResult, elapsedSeconds float64) BatchResult {
	success := 0
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	copied := make([]GenerationResult, len(results))
	copy(copied, results)
	return BatchResult{
		Total:               len(results),
		SuccessCount:        success,
		FailedCount:         len(results) - success,
		Results:             copied,
		TotalElapsedSeconds: elapsedSeconds,
	}
}

// SuccessRate は成功率（百分率）を返します。Total が 0 のときは 0 です。
func (b BatchResult) SuccessRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.SuccessCount) / float64(b.Total) * 100
}

// Summary は人間向けの集計1行を返します。
func (b BatchResult) Summary() string {
	return fmt.Sprintf(
		"📊 Batch generation result: %d/%d succeeded (%.1f%%), time elapsed: %.1fs",
		b.SuccessCount, b.Total, b.SuccessRate(), b.TotalElapsedSeconds,
	)
}
