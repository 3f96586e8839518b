package models

import (
	"encoding/json"
	"time"
)

// RunReport 单次抓取报告
type RunReport struct {
	// 运行信息
	RunID      string `json:"run_id"`
	StartURL   string `json:"start_url"`
	BaseURL    string `json:"base_url"` // 去掉page参数后的URL
	PageCount  int    `json:"page_count"`
	OutputFile string `json:"output_file"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	Stats       ScrapeStats   `json:"stats"`
	FailedPages []PageFailure `json:"failed_pages"`

	// 配置快照
	Config ScrapeConfig `json:"config"`
}

// NewRunReport 创建报告并分配运行ID
func NewRunReport(run RunConfig, baseURL string, config ScrapeConfig) *RunReport {
	return &RunReport{
		RunID:       newRunID(),
		StartURL:    run.StartURL,
		BaseURL:     baseURL,
		PageCount:   run.PageCount,
		OutputFile:  run.OutputPath,
		FailedPages: make([]PageFailure, 0),
		Config:      config,
	}
}

// ToJSON 序列化为JSON
func (r *RunReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *RunReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
