package main

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/ikmanscraper/internal/core"
)

// ValidateConfig 校验合并命令行参数后的配置
func ValidateConfig(cfg *core.Config) error {
	if err := cfg.Scrape.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return fmt.Errorf("输出目录不能为空")
	}
	if strings.ContainsAny(cfg.Output.Prefix, `/\`) {
		return fmt.Errorf("文件名前缀不能包含路径分隔符: %s", cfg.Output.Prefix)
	}
	return nil
}

// ValidateBatchFlags 校验批量模式参数
func ValidateBatchFlags(batchDelay int) error {
	if batchDelay < 0 || batchDelay > 3600 {
		return fmt.Errorf("批量处理延迟必须在0-3600秒之间,当前值: %d", batchDelay)
	}
	return nil
}
