package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// 交互提示和拒绝输入时的提示信息
const (
	startURLPrompt  = "请输入起始页URL (例如 https://ikman.lk/en/ads/sri-lanka/mobile-phones): "
	pageCountPrompt = "请输入要抓取的页数: "

	msgNoURL        = "未输入URL, 退出。"
	msgInvalidPages = "页数无效, 必须是正整数。退出。"
)

// Prompter 从标准输入读取运行参数, 每项只询问一次
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter 创建交互读取器
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine 读取一行并去除首尾空白; EOF视为空输入
func (p *Prompter) readLine(prompt string) string {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// StartURL 询问起始URL, 输入为空时打印提示并返回false
func (p *Prompter) StartURL() (string, bool) {
	startURL := p.readLine(startURLPrompt)
	if startURL == "" {
		fmt.Fprintln(p.out, msgNoURL)
		return "", false
	}
	return startURL, true
}

// PageCount 询问页数, 不是正整数时打印提示并返回false
func (p *Prompter) PageCount() (int, bool) {
	pages, ok := parsePageCount(p.readLine(pageCountPrompt))
	if !ok {
		fmt.Fprintln(p.out, msgInvalidPages)
	}
	return pages, ok
}

// parsePageCount 解析正整数页数
func parsePageCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
