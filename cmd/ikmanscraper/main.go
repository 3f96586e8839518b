package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RecoveryAshes/ikmanscraper/internal/core"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string
	headersFile    string
	validateConfig bool

	// 抓取参数
	startURL    string
	pageCount   int
	urlFile     string
	timeout     int
	delay       time.Duration
	maxPages    int
	mode        string
	headless    bool
	outputDir   string
	writeReport bool

	// 批量处理参数
	batchDelay      int
	continueOnError bool
)

// appConfig 在PersistentPreRunE中加载并合并命令行参数
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "ikmanscraper",
	Short: "ikman.lk 列表页广告抓取工具",
	Long: `ikmanscraper - ikman.lk 分类广告抓取工具

按页抓取 ikman.lk 列表页, 跳过置顶/精选广告, 将每条广告的
标题、价格、链接、更新时间和地点实时写入CSV:
  • 逐行flush落盘, 中途退出不丢失已写出的数据
  • 单页失败只记录警告, 继续抓取后续页面
  • 静态(Colly)和浏览器(go-rod)两种获取模式
  • 批量URL处理
  • 自定义HTTP请求头

示例:
  # 交互输入起始URL和页数
  ikmanscraper

  # 通过命令行参数
  ikmanscraper -u "https://ikman.lk/en/ads/sri-lanka/mobile-phones" -p 5

  # 自定义请求头, 页间延迟2秒
  ikmanscraper -u "https://ikman.lk/en/ads/colombo/mobile-phones" -p 3 -H "Accept-Language: si-LK" --delay 2s

  # 批量处理
  ikmanscraper -f urls.txt -p 2

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		config.MergeCLIFlags(flagOverrides(cmd))
		appConfig = config

		if err := utils.InitLogger(config.LogConfig()); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}
		if verbose {
			utils.Info("详细模式已启用")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ctrl+C: 当前页处理完后停止, 已写出的行保留
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case sig := <-sigChan:
				utils.Warnf("收到中断信号: %v, 正在停止...", sig)
				cancel()
			case <-ctx.Done():
			}
		}()

		headerManager, err := core.NewHeaderManager(headersFile, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		if validateConfig {
			return printHeaderConfig(cmd.OutOrStdout(), headerManager)
		}

		if err := headerManager.Apply(&appConfig.Scrape); err != nil {
			return fmt.Errorf("加载HTTP头部失败: %w", err)
		}
		if err := ValidateConfig(appConfig); err != nil {
			return err
		}

		prompter := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		if urlFile != "" {
			return runBatch(ctx, cmd, prompter)
		}
		return runSingle(ctx, cmd, prompter)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ikmanscraper %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "构建时间: %s\n", BuildTime)
	},
}

// flagOverrides 只收集用户显式指定的参数
func flagOverrides(cmd *cobra.Command) core.FlagOverrides {
	flags := cmd.Flags()
	overrides := core.FlagOverrides{InterPageDelay: -1, MaxPages: -1, LogLevel: logLevel}

	if flags.Changed("timeout") {
		overrides.TimeoutSeconds = timeout
	}
	if flags.Changed("delay") {
		overrides.InterPageDelay = delay
	}
	if flags.Changed("max-pages") {
		overrides.MaxPages = maxPages
	}
	if flags.Changed("mode") {
		overrides.FetchMode = mode
	}
	if flags.Changed("headless") {
		overrides.Headless = &headless
	}
	if flags.Changed("output") {
		overrides.OutputDir = outputDir
	}
	if flags.Changed("report") {
		overrides.Report = &writeReport
	}
	return overrides
}

// resolvePageCount --pages优先, 否则交互询问
func resolvePageCount(cmd *cobra.Command, prompter *Prompter) (int, bool) {
	if !cmd.Flags().Changed("pages") {
		return prompter.PageCount()
	}
	if pageCount < 1 {
		fmt.Fprintln(cmd.OutOrStdout(), msgInvalidPages)
		return 0, false
	}
	return pageCount, true
}

// runSingle 单URL抓取
func runSingle(ctx context.Context, cmd *cobra.Command, prompter *Prompter) error {
	out := cmd.OutOrStdout()

	target := startURL
	if target == "" {
		var ok bool
		if target, ok = prompter.StartURL(); !ok {
			return nil
		}
	}
	pages, ok := resolvePageCount(cmd, prompter)
	if !ok {
		return nil
	}

	run := models.RunConfig{
		StartURL:   target,
		PageCount:  pages,
		OutputPath: utils.OutputFilename(appConfig.Output.Dir, appConfig.Output.Prefix, time.Now(), 0),
	}

	scraper := core.NewScraper(appConfig.Scrape, appConfig.Output, nil)
	defer scraper.Close()
	scraper.SetProgressOutput(out)

	fmt.Fprintf(out, "开始抓取 %d 页, 起始URL: %s\n", pages, target)
	rows, err := scraper.Run(ctx, run)
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		fmt.Fprintln(out, err)
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "\n已中断。共写出 %d 条广告到 %s\n", rows, run.OutputPath)
		return nil
	case err != nil:
		fmt.Fprintf(out, "\n抓取中止。已写出 %d 条广告到 %s\n", rows, run.OutputPath)
		return fmt.Errorf("抓取失败: %w", err)
	}

	printStats(out, scraper.Stats())
	fmt.Fprintf(out, "\n完成。共写出 %d 条广告到 %s\n", rows, run.OutputPath)
	return nil
}

// runBatch 批量抓取URL文件中的每个起始URL
func runBatch(ctx context.Context, cmd *cobra.Command, prompter *Prompter) error {
	if err := ValidateBatchFlags(batchDelay); err != nil {
		return err
	}

	urls, err := utils.ReadURLsFromFile(urlFile)
	if err != nil {
		return fmt.Errorf("读取URL文件失败: %w", err)
	}

	pages, ok := resolvePageCount(cmd, prompter)
	if !ok {
		return nil
	}

	batch := core.NewBatchScraper(appConfig.Scrape, appConfig.Output, pages,
		time.Duration(batchDelay)*time.Second, continueOnError, nil)
	defer batch.Close()
	batch.SetProgressOutput(cmd.OutOrStdout())

	summary, err := batch.ScrapeBatch(ctx, urls)
	if summary != nil {
		printBatchSummary(cmd.OutOrStdout(), summary)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("批量抓取失败: %w", err)
	}
	return nil
}

// printHeaderConfig --validate-config: 输出脱敏后的生效头部
func printHeaderConfig(out io.Writer, hm *core.HeaderManager) error {
	utils.Info("🔍 验证HTTP头部配置...")
	if err := hm.LoadConfig(); err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if err := hm.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	safeHeaders := hm.GetSafeHeaders()
	fmt.Fprintf(out, "✅ 配置验证通过: %s\n", hm.ConfigPath())
	fmt.Fprintf(out, "当前有效的HTTP头部 (%d个):\n", len(safeHeaders))
	for _, name := range sortedKeys(safeHeaders) {
		fmt.Fprintf(out, "  %s: %s\n", name, safeHeaders[name])
	}
	return nil
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (默认搜索 ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().StringVar(&headersFile, "headers-file", "", "HTTP头部配置文件 (默认 configs/headers.yaml)")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证HTTP头部配置并退出")

	// 抓取参数
	rootCmd.Flags().StringVarP(&startURL, "url", "u", "", "起始页URL (未指定时交互输入)")
	rootCmd.Flags().IntVarP(&pageCount, "pages", "p", 0, "抓取页数 (未指定时交互输入)")
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "包含起始URL列表的文件路径")
	rootCmd.Flags().IntVar(&timeout, "timeout", models.DefaultTimeoutSeconds, "单页请求超时(秒)")
	rootCmd.Flags().DurationVar(&delay, "delay", 0, "页间延迟, 如 500ms、2s")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "页数上限 (0表示不限制)")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", string(models.FetchModeStatic), "获取模式 (static|browser)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "浏览器模式下使用无头浏览器")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "CSV输出目录")
	rootCmd.Flags().BoolVar(&writeReport, "report", true, "生成JSON运行报告")

	// 批量处理参数
	rootCmd.Flags().IntVar(&batchDelay, "batch-delay", 0, "批量处理URL间延迟(秒)")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "遇到错误继续处理")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
