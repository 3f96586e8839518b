package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/RecoveryAshes/ikmanscraper/internal/config"
	"github.com/RecoveryAshes/ikmanscraper/internal/core"
	"github.com/go-rod/rod/lib/launcher"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  ikmanscraper 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 检查应用配置
	fmt.Println()
	fmt.Println("检查配置文件...")
	appConfig, err := core.LoadConfig("")
	if err != nil {
		fmt.Printf("❌ 加载配置失败: %v\n", err)
		allOK = false
	} else if err := appConfig.Scrape.Validate(); err != nil {
		fmt.Printf("❌ 抓取配置无效: %v\n", err)
		allOK = false
	} else {
		fmt.Printf("✅ 抓取配置有效 (模式=%s, 超时=%ds)\n", appConfig.Scrape.FetchMode, appConfig.Scrape.TimeoutSeconds)
	}

	hm, err := core.NewHeaderManager(config.DefaultHeadersFile, nil)
	if err == nil {
		_, err = hm.GetHeaders()
	}
	if err != nil {
		fmt.Printf("❌ HTTP头部配置无效: %v\n", err)
		allOK = false
	} else {
		fmt.Printf("✅ HTTP头部配置有效: %s\n", config.DefaultHeadersFile)
	}

	// 输出目录可写
	if appConfig != nil {
		if err := checkWritable(appConfig.Output.Dir); err != nil {
			fmt.Printf("❌ 输出目录不可写 [%s]: %v\n", appConfig.Output.Dir, err)
			allOK = false
		} else {
			fmt.Printf("✅ 输出目录可写: %s\n", appConfig.Output.Dir)
		}
	}

	// 浏览器模式需要本机Chromium, 静态模式不需要
	fmt.Println()
	if path, found := launcher.LookPath(); found {
		fmt.Printf("✅ 找到浏览器: %s\n", path)
	} else {
		fmt.Println("⚠️  未找到Chrome/Chromium - --mode browser 首次运行时会自动下载")
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build ./cmd/ikmanscraper' 构建项目")
		fmt.Println("  2. 运行 './ikmanscraper --help' 查看帮助")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}

// checkWritable 在目录中创建并删除临时文件
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".ikmanscraper-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}
