package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
)

// CSVWriter 逐行写出广告记录
// 每写一行都flush并尝试落盘,进程中途退出时已写出的行仍然完整
type CSVWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
	mu     sync.Mutex
}

// CSVOptions 写出选项
type CSVOptions struct {
	UseLF bool // 使用\n换行 (默认\r\n)
}

// NewCSVWriter 创建(或覆盖)输出文件并写入表头
// 表头写入失败视为致命错误
func NewCSVWriter(path string, opts CSVOptions) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("创建输出文件失败: %w", err)
	}

	writer := csv.NewWriter(file)
	writer.UseCRLF = !opts.UseLF

	w := &CSVWriter{path: path, file: file, writer: writer}
	if err := w.writeRow(models.CSVHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("写入表头失败: %w", err)
	}

	utils.Debugf("CSV输出文件已创建: %s", path)
	return w, nil
}

// WriteRecord 写出一条记录
func (w *CSVWriter) WriteRecord(record models.AdRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("写出到已关闭的文件: %s", w.path)
	}
	if err := w.writeRow(record.Row()); err != nil {
		return fmt.Errorf("写入记录失败: %w", err)
	}
	w.rows++
	return nil
}

// writeRow 写一行并立即flush+sync
func (w *CSVWriter) writeRow(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return err
	}
	// 某些文件系统不支持fsync, 数据已经交给操作系统, 不影响结果
	if err := w.file.Sync(); err != nil {
		utils.Debugf("同步文件失败 [%s]: %v", w.path, err)
	}
	return nil
}

// Rows 已写出的数据行数 (不含表头)
func (w *CSVWriter) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Path 输出文件路径
func (w *CSVWriter) Path() string {
	return w.path
}

// Close 关闭文件, 重复调用是空操作
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	w.writer.Flush()
	flushErr := w.writer.Error()
	closeErr := w.file.Close()
	w.file = nil

	if flushErr != nil {
		return fmt.Errorf("刷新CSV缓冲失败: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("关闭输出文件失败: %w", closeErr)
	}
	utils.Debugf("CSV输出文件已关闭: %s (%d 行)", w.path, w.rows)
	return nil
}
