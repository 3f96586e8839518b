package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
)

// TimestampLayout 输出文件名中的时间戳格式 (秒级,本地时间)
const TimestampLayout = "2006-01-02_15-04-05"

// OutputFilename 生成输出文件路径: <dir>/<prefix>_<YYYY-MM-DD_HH-MM-SS>.csv
// index > 0 时追加序号,批量模式下避免同一秒内文件名冲突
func OutputFilename(dir, prefix string, t time.Time, index int) string {
	if prefix == "" {
		prefix = models.DefaultOutputPrefix
	}
	name := fmt.Sprintf("%s_%s", prefix, t.Format(TimestampLayout))
	if index > 0 {
		name = fmt.Sprintf("%s_%d", name, index)
	}
	return filepath.Join(dir, name+".csv")
}

// ReportFilename CSV文件对应的报告路径: phones_x.csv -> phones_x_report.json
func ReportFilename(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + "_report.json"
}

// ReadURLsFromFile 从文件中读取起始URL列表
// 跳过空行和#注释行,无效URL记录警告后跳过
func ReadURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开URL文件失败: %w", err)
	}
	defer file.Close()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := models.ValidateStartURL(line); err != nil {
			Warnf("跳过无效URL (行 %d): %s - %v", lineNum, line, err)
			continue
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取URL文件失败: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("URL文件中没有有效的URL")
	}

	Infof("从文件加载了 %d 个URL", len(urls))
	return urls, nil
}
