package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ValidateStartURL 起始URL必须是带主机名的 http/https 地址
func ValidateStartURL(raw string) error {
	_, err := parseHTTPURL(raw)
	return err
}

// ValidateSiteOrigin 站点源只能是 scheme://host[:port], 用于拼接相对链接
// 末尾的 "/" 允许 (拼接前会被去掉), 其他路径、查询和片段都不允许
func ValidateSiteOrigin(raw string) error {
	u, err := parseHTTPURL(raw)
	if err != nil {
		return err
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("站点源不能包含路径: %s", u.Path)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("站点源不能包含查询参数或片段")
	}
	return nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("无效的URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL必须是HTTP或HTTPS协议: %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL缺少主机名: %q", raw)
	}
	return u, nil
}

// newRunID 运行报告ID
func newRunID() string {
	return uuid.NewString()
}
