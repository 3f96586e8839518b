package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Scrape  models.ScrapeConfig `mapstructure:"scrape"`
	Output  OutputConfig        `mapstructure:"output"`
	Logging LoggingConfig       `mapstructure:"logging"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`    // CSV输出目录 (默认当前目录)
	Prefix string `mapstructure:"prefix"` // 文件名前缀 (默认phones)
	UseLF  bool   `mapstructure:"use_lf"` // CSV使用\n换行 (默认\r\n)
	Report bool   `mapstructure:"report"` // 生成JSON运行报告
}

// FlagOverrides 命令行参数, 零值/负值表示未指定
type FlagOverrides struct {
	TimeoutSeconds int
	InterPageDelay time.Duration // <0 未指定
	MaxPages       int           // <0 未指定
	FetchMode      string
	Headless       *bool
	OutputDir      string
	Report         *bool
	LogLevel       string
}

// LoadConfig 加载配置文件
// configPath为空时依次搜索 ./configs、. 和 ~/.ikmanscraper, 找不到则使用默认值
// 优先级: 环境变量 > 配置文件 > 默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ikmanscraper"))
		}
	}

	setDefaults(v)

	// IKMAN_OUTPUT_DIR 等环境变量覆盖配置文件
	v.SetEnvPrefix("IKMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	config := &Config{Scrape: models.DefaultScrapeConfig()}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("scrape.timeout_seconds", models.DefaultTimeoutSeconds)
	v.SetDefault("scrape.inter_page_delay", "0s")
	v.SetDefault("scrape.max_pages", 0)
	v.SetDefault("scrape.site_origin", models.DefaultSiteOrigin)
	v.SetDefault("scrape.fetch_mode", string(models.FetchModeStatic))
	v.SetDefault("scrape.headless", true)
	v.SetDefault("scrape.insecure_skip_verify", false)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.prefix", models.DefaultOutputPrefix)
	v.SetDefault("output.use_lf", false)
	v.SetDefault("output.report", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// MergeCLIFlags 命令行参数优先于配置文件
func (c *Config) MergeCLIFlags(f FlagOverrides) {
	if f.TimeoutSeconds > 0 {
		c.Scrape.TimeoutSeconds = f.TimeoutSeconds
	}
	if f.InterPageDelay >= 0 {
		c.Scrape.InterPageDelay = f.InterPageDelay
	}
	if f.MaxPages >= 0 {
		c.Scrape.MaxPages = f.MaxPages
	}
	if f.FetchMode != "" {
		c.Scrape.FetchMode = models.FetchMode(f.FetchMode)
	}
	if f.Headless != nil {
		c.Scrape.Headless = *f.Headless
	}
	if f.OutputDir != "" {
		c.Output.Dir = f.OutputDir
	}
	if f.Report != nil {
		c.Output.Report = *f.Report
	}
	if f.LogLevel != "" {
		c.Logging.Level = f.LogLevel
	}
}

// LogConfig 转换为日志系统配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}
