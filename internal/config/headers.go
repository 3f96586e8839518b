// Package config 读取 headers.yaml 中的自定义请求头
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
	"github.com/spf13/viper"
)

const (
	// DefaultHeadersFile 未指定 --headers-file 时使用
	DefaultHeadersFile = "configs/headers.yaml"

	maxHeadersFileSize = 1 << 20
)

//go:embed headers_template.yaml
var headersTemplate []byte

// HeaderFile 头部配置文件, 首次使用时写出带注释的模板
type HeaderFile struct {
	path string
}

func NewHeaderFile(path string) *HeaderFile {
	if path == "" {
		path = DefaultHeadersFile
	}
	return &HeaderFile{path: path}
}

func (f *HeaderFile) Path() string {
	return f.path
}

// Load 返回文件 headers 段中的头部, 名称规范化, 值去除首尾空白
// 文件不存在时写出模板并返回空集合; 文件过大或无法解析时返回 *models.ConfigError
func (f *HeaderFile) Load() (http.Header, error) {
	info, err := os.Stat(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := f.writeTemplate(); err != nil {
			return nil, err
		}
		utils.Infof("已生成头部配置模板: %s", f.path)
		return make(http.Header), nil
	case err != nil:
		return nil, &models.ConfigError{FilePath: f.path, Cause: err}
	case info.Size() > maxHeadersFileSize:
		return nil, &models.ConfigError{
			FilePath: f.path,
			Cause:    fmt.Errorf("文件大小 %d 字节, 超过上限 %d 字节", info.Size(), maxHeadersFileSize),
		}
	}

	v := viper.New()
	v.SetConfigFile(f.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, &models.ConfigError{FilePath: f.path, Cause: err}
	}

	// viper的键名是小写的, 这里统一还原为规范形式
	headers := make(http.Header)
	for name, value := range v.GetStringMapString("headers") {
		headers.Set(name, strings.TrimSpace(value))
	}
	return headers, nil
}

func (f *HeaderFile) writeTemplate() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("无法创建配置目录: %w", err)
	}
	if err := os.WriteFile(f.path, headersTemplate, 0644); err != nil {
		return fmt.Errorf("无法生成头部配置模板 [%s]: %w", f.path, err)
	}
	return nil
}
