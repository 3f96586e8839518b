package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/RecoveryAshes/ikmanscraper/internal/core"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
)

const separator = "=================================================="

// printStats 单次运行统计
func printStats(out io.Writer, stats models.ScrapeStats) {
	fmt.Fprintln(out, "\n"+separator)
	fmt.Fprintln(out, "📊 抓取统计")
	fmt.Fprintln(out, separator)
	fmt.Fprintf(out, "✅ 成功页数: %d/%d\n", stats.PagesFetched, stats.PagesRequested)
	fmt.Fprintf(out, "❌ 失败页数: %d\n", stats.PagesFailed)
	fmt.Fprintf(out, "🔍 广告总数: %d\n", stats.AdsSeen)
	fmt.Fprintf(out, "⏭️  跳过推广: %d\n", stats.PromotedSkipped)
	fmt.Fprintf(out, "⚠️  丢弃(提取失败/缺字段): %d/%d\n", stats.ExtractFailed, stats.MissingFields)
	fmt.Fprintf(out, "📝 写出行数: %d\n", stats.RowsWritten)
	fmt.Fprintf(out, "⏱️  总耗时: %.2f秒\n", stats.Duration)
	fmt.Fprintln(out, separator)
}

// printBatchSummary 批量运行结果, 每个URL一行
func printBatchSummary(out io.Writer, summary *core.BatchSummary) {
	fmt.Fprintln(out, "\n"+separator)
	fmt.Fprintf(out, "📊 批量抓取: 成功 %d, 失败 %d, 共写出 %d 行\n",
		summary.SuccessCount, summary.FailCount, summary.TotalRows)
	fmt.Fprintln(out, separator)
	for i, r := range summary.Results {
		status := "✅"
		if !r.Success {
			status = "❌"
		}
		fmt.Fprintf(out, "%s [%d] %s -> %s (%d 行)\n", status, i+1, r.URL, r.OutputFile, r.Rows)
		if r.Error != nil {
			fmt.Fprintf(out, "     %v\n", r.Error)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
